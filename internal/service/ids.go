package service

import (
	"github.com/google/uuid"

	"github.com/jdbravo/vencsync/models"
)

type uuidGenerator struct {
}

// NewUUIDGenerator returns an [IDGenerator] backed by UUIDv7, falling back
// to a random UUID if the time-ordered variant cannot be produced.
func NewUUIDGenerator() IDGenerator {
	return &uuidGenerator{}
}

func (g *uuidGenerator) NewTempID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return models.TempIDPrefix + uuid.NewString()
	}

	return models.TempIDPrefix + v7.String()
}
