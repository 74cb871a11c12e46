package storage

import (
	"testing"
	"time"

	"github.com/bridgeops/idscan-backend/internal/scan/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateScanID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateScanID()
		assert.Len(t, id, 32)
		assert.Regexp(t, "^[0-9a-f]{32}$", id)
		assert.False(t, seen[id], "scan IDs must not repeat")
		seen[id] = true
	}
}

func TestStore_PutGet(t *testing.T) {
	store := NewStore(time.Hour)

	scan := &domain.Scan{
		ID:        GenerateScanID(),
		Status:    domain.StatusUploading,
		Attempt:   1,
		Image:     []byte("image bytes"),
		CreatedAt: time.Now().UTC(),
	}
	store.Put(scan)

	got := store.Get(scan.ID)
	require.NotNil(t, got)
	assert.Equal(t, scan.ID, got.ID)
	assert.Equal(t, domain.StatusUploading, got.Status)
	assert.Equal(t, []byte("image bytes"), got.Image)

	assert.Nil(t, store.Get("missing"))
}

func TestStore_GetReturnsSnapshot(t *testing.T) {
	store := NewStore(time.Hour)

	scan := &domain.Scan{
		ID:       GenerateScanID(),
		Status:   domain.StatusParsed,
		Document: &domain.ExtractedDocument{FullName: "Ahmed Al-Rashid"},
	}
	store.Put(scan)

	got := store.Get(scan.ID)
	require.NotNil(t, got)

	// Mutating the snapshot must not leak into the stored record
	got.Status = domain.StatusFailed
	got.Document.FullName = "changed"

	fresh := store.Get(scan.ID)
	assert.Equal(t, domain.StatusParsed, fresh.Status)
	assert.Equal(t, "Ahmed Al-Rashid", fresh.Document.FullName)
}

func TestStore_Update(t *testing.T) {
	store := NewStore(time.Hour)

	scan := &domain.Scan{ID: GenerateScanID(), Status: domain.StatusUploading}
	store.Put(scan)

	before := store.Get(scan.ID).UpdatedAt
	store.Update(scan.ID, func(sc *domain.Scan) {
		sc.Status = domain.StatusRecognizing
		sc.Phase = "preprocessing"
		sc.Progress = 0.1
	})

	got := store.Get(scan.ID)
	assert.Equal(t, domain.StatusRecognizing, got.Status)
	assert.Equal(t, "preprocessing", got.Phase)
	assert.Equal(t, 0.1, got.Progress)
	assert.True(t, got.UpdatedAt.After(before) || got.UpdatedAt.Equal(before))

	// Updating a missing scan is a no-op, not a panic
	store.Update("missing", func(sc *domain.Scan) {
		t.Fatal("update callback must not run for a missing scan")
	})
}

func TestStore_DeleteZeroesImage(t *testing.T) {
	store := NewStore(time.Hour)

	image := []byte("sensitive document bytes")
	scan := &domain.Scan{ID: GenerateScanID(), Image: image}
	store.Put(scan)

	require.True(t, store.Delete(scan.ID))
	assert.Nil(t, store.Get(scan.ID))

	// The original slice is wiped, not just dereferenced
	for i, b := range image {
		assert.Zerof(t, b, "byte %d not zeroed", i)
	}

	assert.False(t, store.Delete(scan.ID), "second delete reports absence")
}

func TestStore_CleanupEvictsExpired(t *testing.T) {
	store := NewStore(time.Hour)

	expiredImage := []byte("old image")
	expired := &domain.Scan{
		ID:        GenerateScanID(),
		Image:     expiredImage,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	fresh := &domain.Scan{
		ID:        GenerateScanID(),
		Image:     []byte("fresh image"),
		CreatedAt: time.Now(),
	}
	store.Put(expired)
	store.Put(fresh)

	store.cleanup()

	assert.Nil(t, store.Get(expired.ID))
	require.NotNil(t, store.Get(fresh.ID))

	for i, b := range expiredImage {
		assert.Zerof(t, b, "byte %d not zeroed", i)
	}
}

func TestStore_CleanupSkipsInFlightSessions(t *testing.T) {
	store := NewStore(time.Hour)

	image := []byte{0xAB, 0xAB, 0xAB, 0xAB}
	inFlight := &domain.Scan{
		ID:        GenerateScanID(),
		Status:    domain.StatusRecognizing,
		Image:     image,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	store.Put(inFlight)

	// The attempt is still reading these bytes; age alone must not
	// evict or wipe them
	store.cleanup()
	require.NotNil(t, store.Get(inFlight.ID))
	assert.Equal(t, []byte{0xAB, 0xAB, 0xAB, 0xAB}, image)

	// Once the session is terminal the next sweep reclaims it
	store.Update(inFlight.ID, func(sc *domain.Scan) {
		sc.Status = domain.StatusFailed
	})
	store.cleanup()
	assert.Nil(t, store.Get(inFlight.ID))
	assert.Equal(t, []byte{0, 0, 0, 0}, image)
}

func TestStore_DeleteIf(t *testing.T) {
	store := NewStore(time.Hour)

	image := []byte("image bytes")
	scan := &domain.Scan{
		ID:     GenerateScanID(),
		Status: domain.StatusRecognizing,
		Image:  image,
	}
	store.Put(scan)

	// A vetoing check leaves the session and its bytes untouched
	deleted, found := store.DeleteIf(scan.ID, func(sc *domain.Scan) bool {
		return sc.Status != domain.StatusRecognizing
	})
	assert.False(t, deleted)
	assert.True(t, found)
	require.NotNil(t, store.Get(scan.ID))
	assert.Equal(t, []byte("image bytes"), image)

	store.Update(scan.ID, func(sc *domain.Scan) {
		sc.Status = domain.StatusParsed
	})

	deleted, found = store.DeleteIf(scan.ID, func(sc *domain.Scan) bool {
		return sc.Status != domain.StatusRecognizing
	})
	assert.True(t, deleted)
	assert.True(t, found)
	assert.Nil(t, store.Get(scan.ID))
	for i, b := range image {
		assert.Zerof(t, b, "byte %d not zeroed", i)
	}

	deleted, found = store.DeleteIf(scan.ID, func(*domain.Scan) bool { return true })
	assert.False(t, deleted)
	assert.False(t, found)
}

func TestZeroBytes(t *testing.T) {
	b := []byte{1, 2, 3}
	ZeroBytes(b)
	assert.Equal(t, []byte{0, 0, 0}, b)

	ZeroBytes(nil)
}
