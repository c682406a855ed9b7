package share

import (
	"context"
	"errors"
	"time"

	"github.com/nurturemyplants/plantcare/internal/domain/careplan"
	"github.com/nurturemyplants/plantcare/internal/domain/identify"
)

// PlantData is the snapshot a share link grants access to.
type PlantData struct {
	Identification identify.Identification `json:"identification"`
	CarePlan       *careplan.Plan          `json:"carePlan,omitempty"`
}

// Entry is one stored share link. Entries are immutable after creation and
// owned exclusively by the store.
type Entry struct {
	ShareCode string    `json:"shareCode"`
	PlantData PlantData `json:"plantData"`
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the entry is past its lifetime at the given time.
func (e Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// ErrCodeTaken signals a share-code collision; the caller generates a new
// code and retries.
var ErrCodeTaken = errors.New("share code already taken")

// Store is the ephemeral backing cache for share entries.
type Store interface {
	// Save inserts a new entry, failing with ErrCodeTaken when the code is
	// already live.
	Save(ctx context.Context, entry Entry) error
	// Get returns the live entry for a code. Expired entries are deleted on
	// read and reported as missing.
	Get(ctx context.Context, code string) (Entry, bool, error)
}
