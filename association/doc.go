// Package association expands symbolic recipient groups ("members",
// "managers", "message-contributors") into concrete principal id lists.
// Resolution happens inside a Context scoped to one (entity, pass) pair:
// results are memoized, dependent associations serialize through the memo,
// and any failure aborts the whole context so partial recipient sets are
// never routed on.
package association
