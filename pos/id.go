package pos

import "github.com/google/uuid"

// NewID returns a unique opaque identifier for products, sales, customers,
// and ledger entries. Random UUIDs make the collision probability
// negligible within and across processes; no ordering is implied.
func NewID() string {
	return uuid.NewString()
}
