package aggregation

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID-based aggregate IDs. ULIDs sort by emission
// time, which keeps analytic-store rows naturally ordered.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
