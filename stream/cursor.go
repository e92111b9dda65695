package stream

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Cursor points past the last entry of a previously fetched page. Feeds
// order by published DESC, id DESC; the cursor selects strictly older rows.
type Cursor struct {
	Published int64
	ID        uuid.UUID
}

// applyCursor applies keyset pagination over (published, id).
func applyCursor(q *bun.SelectQuery, cursor *Cursor, limit int) *bun.SelectQuery {
	if q == nil {
		return nil
	}
	q = q.OrderExpr("published DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if cursor == nil || cursor.Published == 0 {
		return q
	}
	if cursor.ID == uuid.Nil {
		return q.Where("published < ?", cursor.Published)
	}
	return q.Where("(published < ?) OR (published = ? AND id < ?)", cursor.Published, cursor.Published, cursor.ID)
}
