package models

import (
	"github.com/gofrs/uuid"
)

// reconciliation splits an incoming child list against the persisted keys of
// the same collection. The three sets are disjoint: ToInsert holds records
// supplied without an ID, ToUpdate holds records supplied with one, and
// ToDelete holds the persisted keys missing from the incoming list.
type reconciliation[T any] struct {
	ToInsert []T
	ToUpdate []T
	ToDelete []uuid.UUID
}

// reconcile diffs an incoming child collection against the persisted ID set
// for one parent. An incoming record with a nil ID is new. An incoming record
// with an ID is an update; membership in persistedIDs is trusted, not
// re-verified. Persisted IDs absent from the incoming list are deletions.
//
// Callers run the result through apply inside the parent's transaction, which
// fixes the order: deletions first, then insertions, then updates.
func reconcile[T any](incoming []T, persistedIDs []uuid.UUID, idOf func(T) uuid.UUID) reconciliation[T] {
	var r reconciliation[T]

	kept := make(map[uuid.UUID]struct{}, len(incoming))
	for _, rec := range incoming {
		id := idOf(rec)
		if id == uuid.Nil {
			r.ToInsert = append(r.ToInsert, rec)
			continue
		}
		r.ToUpdate = append(r.ToUpdate, rec)
		kept[id] = struct{}{}
	}

	for _, id := range persistedIDs {
		if _, ok := kept[id]; !ok {
			r.ToDelete = append(r.ToDelete, id)
		}
	}

	return r
}

// apply runs the three sets in their required order: deletions first, then
// insertions, then updates. Delete-first lets a unique value move from a
// dropped row to a new row within the same edit instead of colliding with it.
func (r reconciliation[T]) apply(del func(uuid.UUID) error, ins, upd func(T) error) error {
	for _, id := range r.ToDelete {
		if err := del(id); err != nil {
			return err
		}
	}
	for _, rec := range r.ToInsert {
		if err := ins(rec); err != nil {
			return err
		}
	}
	for _, rec := range r.ToUpdate {
		if err := upd(rec); err != nil {
			return err
		}
	}
	return nil
}

// dropBlank removes records whose values are all empty before diffing. A
// blank child row is "no value supplied", not a deletable record; the edit
// forms synthesize one placeholder row for empty collections.
func dropBlank[T any](incoming []T, isBlank func(T) bool) []T {
	out := incoming[:0:0]
	for _, rec := range incoming {
		if isBlank(rec) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
