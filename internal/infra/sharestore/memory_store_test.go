package sharestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nurturemyplants/plantcare/internal/domain/identify"
	"github.com/nurturemyplants/plantcare/internal/domain/share"
)

func testEntry(code string, createdAt time.Time, ttl time.Duration) share.Entry {
	return share.Entry{
		ShareCode: code,
		PlantData: share.PlantData{
			Identification: identify.Identification{
				CommonName:     "Rose",
				ScientificName: "Rosa rubiginosa",
				Confidence:     "high",
			},
		},
		SessionID: "session-1",
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(ttl),
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	entry := testEntry("ABC123", time.Now(), 7*24*time.Hour)

	require.NoError(t, store.Save(context.Background(), entry))

	got, ok, err := store.Get(context.Background(), "ABC123")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, entry.PlantData, got.PlantData)
	require.Equal(t, entry.CreatedAt, got.CreatedAt)
	require.Equal(t, entry.ExpiresAt, got.ExpiresAt)
}

func TestMemoryStoreCodeCollision(t *testing.T) {
	store := NewMemoryStore()
	entry := testEntry("ABC123", time.Now(), time.Hour)

	require.NoError(t, store.Save(context.Background(), entry))
	require.ErrorIs(t, store.Save(context.Background(), entry), share.ErrCodeTaken)
}

func TestMemoryStoreExpiryOnRead(t *testing.T) {
	now := time.Now()
	clock := now
	store := NewMemoryStoreWithClock(func() time.Time { return clock })

	entry := testEntry("ROSE01", now, 7*24*time.Hour)
	require.NoError(t, store.Save(context.Background(), entry))

	// Six days later the link still resolves.
	clock = now.Add(6 * 24 * time.Hour)
	_, ok, err := store.Get(context.Background(), "ROSE01")
	require.NoError(t, err)
	require.True(t, ok)

	// Eight days later it is gone and stays gone.
	clock = now.Add(8 * 24 * time.Hour)
	_, ok, err = store.Get(context.Background(), "ROSE01")
	require.NoError(t, err)
	require.False(t, ok)

	clock = now.Add(6 * 24 * time.Hour)
	_, ok, err = store.Get(context.Background(), "ROSE01")
	require.NoError(t, err)
	require.False(t, ok, "expired entry must not be resurrected")
}

func TestMemoryStoreSweepsExpiredOnSave(t *testing.T) {
	now := time.Now()
	clock := now
	store := NewMemoryStoreWithClock(func() time.Time { return clock })

	require.NoError(t, store.Save(context.Background(), testEntry("OLD001", now, time.Minute)))
	require.NoError(t, store.Save(context.Background(), testEntry("OLD002", now, time.Minute)))
	require.Equal(t, 2, store.Len())

	clock = now.Add(time.Hour)
	require.NoError(t, store.Save(context.Background(), testEntry("NEW001", clock, time.Hour)))
	require.Equal(t, 1, store.Len(), "save must sweep expired entries")
}
