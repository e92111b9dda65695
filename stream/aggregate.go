package stream

import (
	"github.com/goliatone/go-meetings/pkg/types"
	"github.com/goliatone/go-meetings/registry"
)

// FeedItem is one rendered feed row: either a single activity or several
// collapsed under the activity type's grouping rules. Slices preserve
// stream order with duplicates removed; Published is the newest instant.
type FeedItem struct {
	ActivityType string
	Verb         string
	ActorIDs     []string
	ObjectIDs    []string
	TargetIDs    []string
	Published    int64
	Count        int
}

// Coalesce collapses adjacent entries of the same activity type that the
// registry's grouping rules allow to render as one item. Entries are
// expected newest first, as Feed returns them.
func Coalesce(reg *registry.Registry, entries []*Entry) ([]FeedItem, error) {
	var items []FeedItem
	var head *Entry
	for _, entry := range entries {
		if head != nil && entry.ActivityType == head.ActivityType {
			ok, err := reg.CanGroup(entry.ActivityType, entrySeed(head), entrySeed(entry))
			if err != nil {
				return nil, err
			}
			if ok {
				mergeItem(&items[len(items)-1], entry)
				continue
			}
		}
		items = append(items, newItem(entry))
		head = entry
	}
	return items, nil
}

func entrySeed(entry *Entry) types.ActivitySeed {
	seed := types.ActivitySeed{
		ActivityType:    entry.ActivityType,
		TimestampMillis: entry.Published,
		Verb:            types.Verb(entry.Verb),
		Actor:           types.ResourceRef{ResourceID: entry.ActorID},
		Object:          types.ResourceRef{ResourceID: entry.ObjectID},
	}
	if entry.TargetID != "" {
		seed.Target = &types.ResourceRef{ResourceID: entry.TargetID}
	}
	return seed
}

func newItem(entry *Entry) FeedItem {
	item := FeedItem{
		ActivityType: entry.ActivityType,
		Verb:         entry.Verb,
		Published:    entry.Published,
		Count:        1,
	}
	item.ActorIDs = appendDistinct(item.ActorIDs, entry.ActorID)
	item.ObjectIDs = appendDistinct(item.ObjectIDs, entry.ObjectID)
	item.TargetIDs = appendDistinct(item.TargetIDs, entry.TargetID)
	return item
}

func mergeItem(item *FeedItem, entry *Entry) {
	item.ActorIDs = appendDistinct(item.ActorIDs, entry.ActorID)
	item.ObjectIDs = appendDistinct(item.ObjectIDs, entry.ObjectID)
	item.TargetIDs = appendDistinct(item.TargetIDs, entry.TargetID)
	if entry.Published > item.Published {
		item.Published = entry.Published
	}
	item.Count++
}

func appendDistinct(ids []string, id string) []string {
	if id == "" {
		return ids
	}
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
