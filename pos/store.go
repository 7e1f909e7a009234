/*
store.go - Persistence interface for the whole-document state

PURPOSE:
  Defines the interface between the engine and storage. The store holds the
  ENTIRE State (products, sales, customers, stock transactions) as one
  document with whole-document replace semantics.

CONTRACT:
  Load():
    - Returns the last persisted State.
    - Missing or unreadable document yields an EMPTY State and nil error.
      This is a deliberate fail-open default, not an error: a fresh
      deployment starts from nothing.
  Save():
    - Persists the entire State as one unit. No partial writes exist.
    - No locking, no versioning. Last writer wins. The ENGINE serializes
      callers; the store does not.

WHY WHOLE-DOCUMENT?
  The store offers no native transactions, so atomicity lives one layer up:
  the engine computes the complete next State in memory and hands it over
  in a single Save call. Either everything lands, or nothing does.

IMPLEMENTATIONS:
  - store/jsonfile: Single JSON document on disk, atomic rename
  - store/sqlite:   Four tables, save replaces all rows in one SQL transaction
  - pos/store:      In-memory, for tests

SEE ALSO:
  - engine.go: The only writer
*/
package pos

import "context"

// StateStore persists the aggregate State with whole-document replace
// semantics.
type StateStore interface {
	// Load returns the last persisted State, or an empty State if none
	// exists. Implementations must return a copy the caller owns.
	Load(ctx context.Context) (*State, error)

	// Save persists the entire State, replacing whatever was there.
	Save(ctx context.Context, state *State) error
}
