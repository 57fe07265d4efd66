package events

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-memdb"
)

// subscriptionStore indexes subscriptions by event name and by id using
// hashicorp/go-memdb: a single table with a unique "id" index and a
// non-unique "event" index. Because there is exactly one row per
// subscription, invariant 2 of spec.md §3 ("the per-event mapping and the
// global id→subscription mapping contain exactly the same set of
// subscriptions") holds by construction rather than by careful bookkeeping
// across two maps.
type subscriptionStore struct {
	db *memdb.MemDB
}

const subscriptionTable = "subscriptions"

func newSubscriptionStore() *subscriptionStore {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			subscriptionTable: {
				Name: subscriptionTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "IDStr"},
					},
					"event": {
						Name:    "event",
						Unique:  false,
						Indexer: &memdb.StringFieldIndex{Field: "Event"},
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		// The schema above is a fixed literal; a construction failure here
		// would indicate a programming error in this file, not a runtime
		// condition callers can recover from.
		panic(fmt.Sprintf("events: invalid subscription store schema: %v", err))
	}
	return &subscriptionStore{db: db}
}

// subRow is the go-memdb row wrapper. IDStr duplicates Sub.ID as a string so
// the string-field indexer can key on it without a custom indexer type.
type subRow struct {
	IDStr string
	Event string
	Sub   *Subscription
}

func (s *subscriptionStore) insert(sub *Subscription) {
	txn := s.db.Txn(true)
	defer txn.Commit()
	row := &subRow{IDStr: sub.ID.String(), Event: sub.Event, Sub: sub}
	if err := txn.Insert(subscriptionTable, row); err != nil {
		panic(fmt.Sprintf("events: subscription insert failed: %v", err))
	}
}

// deleteByID removes a subscription by id. It reports whether a row was
// actually present, giving OffByID / the once-detach path their boolean
// idempotency contract for free.
func (s *subscriptionStore) deleteByID(id SubscriptionID) (*Subscription, bool) {
	txn := s.db.Txn(true)
	raw, err := txn.First(subscriptionTable, "id", id.String())
	if err != nil || raw == nil {
		txn.Abort()
		return nil, false
	}
	row := raw.(*subRow)
	if err := txn.Delete(subscriptionTable, row); err != nil {
		txn.Abort()
		return nil, false
	}
	txn.Commit()
	return row.Sub, true
}

// deleteByEvent removes all subscriptions on event, optionally restricted
// to those for which match returns true (nil means "all").
// It returns the removed subscriptions.
func (s *subscriptionStore) deleteByEvent(event string, match func(*Subscription) bool) []*Subscription {
	txn := s.db.Txn(true)
	it, err := txn.Get(subscriptionTable, "event", event)
	if err != nil {
		txn.Abort()
		return nil
	}
	var removed []*Subscription
	var rows []*subRow
	for raw := it.Next(); raw != nil; raw = it.Next() {
		row := raw.(*subRow)
		if match == nil || match(row.Sub) {
			rows = append(rows, row)
		}
	}
	for _, row := range rows {
		if err := txn.Delete(subscriptionTable, row); err != nil {
			continue
		}
		removed = append(removed, row.Sub)
	}
	txn.Commit()
	return removed
}

// deleteAll clears every subscription in the store and returns them.
func (s *subscriptionStore) deleteAll() []*Subscription {
	txn := s.db.Txn(true)
	it, err := txn.Get(subscriptionTable, "id")
	if err != nil {
		txn.Abort()
		return nil
	}
	var rows []*subRow
	for raw := it.Next(); raw != nil; raw = it.Next() {
		rows = append(rows, raw.(*subRow))
	}
	var removed []*Subscription
	for _, row := range rows {
		if err := txn.Delete(subscriptionTable, row); err == nil {
			removed = append(removed, row.Sub)
		}
	}
	txn.Commit()
	return removed
}

// byEvent returns a snapshot of all subscriptions on event, in no
// particular order; callers sort as needed.
func (s *subscriptionStore) byEvent(event string) []*Subscription {
	txn := s.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(subscriptionTable, "event", event)
	if err != nil {
		return nil
	}
	var out []*Subscription
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, raw.(*subRow).Sub)
	}
	return out
}

func (s *subscriptionStore) byID(id SubscriptionID) (*Subscription, bool) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(subscriptionTable, "id", id.String())
	if err != nil || raw == nil {
		return nil, false
	}
	return raw.(*subRow).Sub, true
}

// count returns the number of subscriptions on event.
func (s *subscriptionStore) count(event string) int {
	return len(s.byEvent(event))
}

// eventNames returns the distinct event names that currently have at least
// one subscription.
func (s *subscriptionStore) eventNames() []string {
	txn := s.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(subscriptionTable, "id")
	if err != nil {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for raw := it.Next(); raw != nil; raw = it.Next() {
		row := raw.(*subRow)
		if _, ok := seen[row.Event]; !ok {
			seen[row.Event] = struct{}{}
			out = append(out, row.Event)
		}
	}
	return out
}

// totalCount returns the number of subscriptions across all events.
func (s *subscriptionStore) totalCount() int {
	txn := s.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(subscriptionTable, "id")
	if err != nil {
		return 0
	}
	n := 0
	for raw := it.Next(); raw != nil; raw = it.Next() {
		n++
	}
	return n
}

// markExecuted records an invocation against a subscription's stored row.
// Once-subscriptions are detached before invocation (see dispatch.go), so
// this only ever mutates a non-once subscription still present in the
// store.
func (s *subscriptionStore) markExecuted(id SubscriptionID, at time.Time) {
	txn := s.db.Txn(true)
	raw, err := txn.First(subscriptionTable, "id", id.String())
	if err != nil || raw == nil {
		txn.Abort()
		return
	}
	row := raw.(*subRow)
	updated := *row.Sub
	updated.ExecutionCount++
	t := at
	updated.LastExecuted = &t
	newRow := &subRow{IDStr: row.IDStr, Event: row.Event, Sub: &updated}
	if err := txn.Insert(subscriptionTable, newRow); err != nil {
		txn.Abort()
		return
	}
	txn.Commit()
}
