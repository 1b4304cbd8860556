package id

import "github.com/google/uuid"

// UUIDGenerator issues the per-request idempotency keys sent with
// gateway charges.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}
