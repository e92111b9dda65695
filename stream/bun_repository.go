package stream

import (
	"context"

	"github.com/goliatone/go-meetings/pkg/types"
	"github.com/goliatone/go-meetings/registry"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StoreConfig wires the Bun-backed activity stream store.
type StoreConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Entry]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type entryStore interface {
	repository.Repository[*Entry]
}

// Store persists routed activity deliveries and serves per-stream feeds.
type Store struct {
	entryStore
	db    *bun.DB
	clock types.Clock
	idGen types.IDGenerator
}

// NewStore constructs the stream store. Either DB or Repository must be set.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, types.NewConfigurationError("stream store requires a bun DB or a repository")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*Entry]{
			NewRecord: func() *Entry { return &Entry{} },
			GetID: func(entry *Entry) uuid.UUID {
				if entry == nil {
					return uuid.Nil
				}
				return entry.ID
			},
			SetID: func(entry *Entry, id uuid.UUID) {
				if entry != nil {
					entry.ID = id
				}
			},
		})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	return &Store{entryStore: repo, db: cfg.DB, clock: clock, idGen: idGen}, nil
}

// Delivery addresses one recipient on one channel for a routed seed.
type Delivery struct {
	RecipientID string
	Channel     registry.Channel
	Payload     map[string]any
}

// Deliver persists one row per delivery for the seed. Transient channels
// are skipped; their fan-out never touches storage.
func (s *Store) Deliver(ctx context.Context, seed types.ActivitySeed, deliveries []Delivery) error {
	tenantAlias := ""
	if rid, err := types.ParseResourceID(seed.Object.ResourceID); err == nil {
		tenantAlias = rid.TenantAlias
	}
	targetID := ""
	if seed.Target != nil {
		targetID = seed.Target.ResourceID
	}
	for _, delivery := range deliveries {
		if delivery.Channel.Transient() || delivery.RecipientID == "" {
			continue
		}
		entry := &Entry{
			ID:           s.idGen.UUID(),
			StreamID:     StreamID(delivery.RecipientID, string(delivery.Channel)),
			RecipientID:  delivery.RecipientID,
			Channel:      string(delivery.Channel),
			TenantAlias:  tenantAlias,
			ActivityType: seed.ActivityType,
			Verb:         string(seed.Verb),
			ActorID:      seed.Actor.ResourceID,
			ObjectID:     seed.Object.ResourceID,
			TargetID:     targetID,
			Payload:      delivery.Payload,
			Published:    seed.TimestampMillis,
			CreatedAt:    s.clock.Now(),
		}
		if _, err := s.Create(ctx, entry); err != nil {
			return types.NewServiceError("stream store", err)
		}
	}
	return nil
}

// Filter narrows a feed read to one stream plus optional criteria.
type Filter struct {
	RecipientID   string
	Channel       registry.Channel
	ActivityTypes []string
	Verbs         []string
	Since         int64
	Until         int64
}

// Page is one feed page plus the cursor for the next one.
type Page struct {
	Entries    []*Entry
	NextCursor *Cursor
	HasMore    bool
}

// Feed returns one stream page, newest first. A nil cursor starts at the
// top of the stream.
func (s *Store) Feed(ctx context.Context, filter Filter, cursor *Cursor, limit int) (Page, error) {
	if filter.RecipientID == "" || filter.Channel == "" {
		return Page{}, types.NewConfigurationError("stream feed requires a recipient and a channel")
	}
	if limit <= 0 {
		limit = 25
	}
	streamID := StreamID(filter.RecipientID, string(filter.Channel))
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Where("stream_id = ?", streamID)
			q = applyFilter(q, filter)
			// Fetch one extra row to learn whether another page exists.
			return applyCursor(q, cursor, limit+1)
		},
	}
	rows, _, err := s.List(ctx, criteria...)
	if err != nil {
		return Page{}, types.NewServiceError("stream store", err)
	}
	page := Page{Entries: rows}
	if len(rows) > limit {
		page.Entries = rows[:limit]
		page.HasMore = true
	}
	if n := len(page.Entries); n > 0 {
		last := page.Entries[n-1]
		page.NextCursor = &Cursor{Published: last.Published, ID: last.ID}
	}
	return page, nil
}

func applyFilter(q *bun.SelectQuery, filter Filter) *bun.SelectQuery {
	if len(filter.ActivityTypes) > 0 {
		q = q.Where("activity_type IN (?)", bun.In(filter.ActivityTypes))
	}
	if len(filter.Verbs) > 0 {
		q = q.Where("verb IN (?)", bun.In(filter.Verbs))
	}
	if filter.Since > 0 {
		q = q.Where("published >= ?", filter.Since)
	}
	if filter.Until > 0 {
		q = q.Where("published <= ?", filter.Until)
	}
	return q
}

// Stats aggregates delivery counts for one stream grouped by activity type.
type Stats struct {
	Total  int
	ByType map[string]int
}

// StreamStats counts the stream's entries per activity type.
func (s *Store) StreamStats(ctx context.Context, filter Filter) (Stats, error) {
	stats := Stats{ByType: make(map[string]int)}
	if s.db == nil {
		return stats, types.NewConfigurationError("stream stats requires a bun DB")
	}
	if filter.RecipientID == "" || filter.Channel == "" {
		return stats, types.NewConfigurationError("stream stats requires a recipient and a channel")
	}
	query := s.db.NewSelect().
		Table("meeting_activity").
		ColumnExpr("COUNT(*) AS total").
		ColumnExpr("activity_type").
		Where("stream_id = ?", StreamID(filter.RecipientID, string(filter.Channel))).
		Group("activity_type")
	query = applyFilter(query, filter)

	type row struct {
		ActivityType string `bun:"activity_type"`
		Total        int    `bun:"total"`
	}
	var rows []row
	if err := query.Scan(ctx, &rows); err != nil {
		return stats, types.NewServiceError("stream store", err)
	}
	for _, rec := range rows {
		stats.ByType[rec.ActivityType] = rec.Total
		stats.Total += rec.Total
	}
	return stats, nil
}

// PurgeBefore removes stream entries published before the given instant.
// Retention is per stream; pass the stream parts explicitly.
func (s *Store) PurgeBefore(ctx context.Context, recipientID string, channel registry.Channel, before int64) error {
	streamID := StreamID(recipientID, string(channel))
	err := s.DeleteWhere(ctx, func(q *bun.DeleteQuery) *bun.DeleteQuery {
		return q.Where("stream_id = ?", streamID).Where("published < ?", before)
	})
	if err != nil {
		return types.NewServiceError("stream store", err)
	}
	return nil
}
