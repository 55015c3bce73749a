package utils

import "github.com/google/uuid"

// UUIDGenerator mints record identifiers for ledger entries. Version 7
// UUIDs are time-ordered, which keeps client-generated IDs roughly sorted
// by creation time in the database index.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
