package vcs

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time so commit ids are reproducible in tests.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// UUIDGenerator produces run ids for the operation journal.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
