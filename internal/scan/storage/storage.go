// Package storage keeps scan sessions in memory. Images are processed
// in RAM only: bytes are retained while the session lives so an
// explicit retry can re-submit them, and are overwritten with zeros on
// clear and on TTL eviction.
package storage

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/bridgeops/idscan-backend/internal/scan/domain"
)

// Store provides in-memory storage for scan sessions with TTL eviction
type Store struct {
	mu    sync.RWMutex
	scans map[string]*domain.Scan
	ttl   time.Duration
}

// NewStore creates a new in-memory store with the given session TTL
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		scans: make(map[string]*domain.Scan),
		ttl:   ttl,
	}
	go s.cleanupLoop()
	return s
}

// GenerateScanID creates a cryptographically random scan ID
func GenerateScanID() string {
	b := make([]byte, 16)
	rand.Read(b)
	const hex = "0123456789abcdef"
	id := make([]byte, 32)
	for i, v := range b {
		id[i*2] = hex[v>>4]
		id[i*2+1] = hex[v&0x0f]
	}
	return string(id)
}

// Put stores a scan session
func (s *Store) Put(scan *domain.Scan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans[scan.ID] = scan
}

// Get returns a snapshot of a scan session, or nil if absent. The
// snapshot shares the image bytes but copies everything the caller may
// serialize while recognition mutates the live record.
func (s *Store) Get(scanID string) *domain.Scan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scan, ok := s.scans[scanID]
	if !ok {
		return nil
	}
	snapshot := *scan
	if scan.Document != nil {
		doc := *scan.Document
		snapshot.Document = &doc
	}
	return &snapshot
}

// Update applies a mutation to a stored scan under the store lock.
// No-op if the scan no longer exists.
func (s *Store) Update(scanID string, update func(*domain.Scan)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if scan, ok := s.scans[scanID]; ok {
		update(scan)
		scan.UpdatedAt = time.Now().UTC()
	}
}

// Delete removes a session and zeroes its image bytes
func (s *Store) Delete(scanID string) bool {
	deleted, _ := s.DeleteIf(scanID, func(*domain.Scan) bool { return true })
	return deleted
}

// DeleteIf removes a session when check approves its current state.
// Check runs under the store lock, so the decision and the removal are
// one step. The second return reports whether the session existed.
func (s *Store) DeleteIf(scanID string, check func(*domain.Scan) bool) (deleted, found bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scan, ok := s.scans[scanID]
	if !ok {
		return false, false
	}
	if !check(scan) {
		return false, true
	}
	ZeroBytes(scan.Image)
	scan.Image = nil
	delete(s.scans, scanID)
	return true, true
}

// ZeroBytes overwrites a byte slice with zeros for secure deletion.
// This prevents sensitive image data from lingering in memory.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// cleanupLoop periodically evicts expired sessions
func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()
	for range ticker.C {
		s.cleanup()
	}
}

func (s *Store) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-s.ttl)
	for id, scan := range s.scans {
		// An in-flight attempt still reads the image bytes; leave the
		// session for a later sweep once it reaches a terminal state.
		if scan.Status == domain.StatusUploading || scan.Status == domain.StatusRecognizing {
			continue
		}
		if scan.CreatedAt.Before(cutoff) {
			ZeroBytes(scan.Image)
			scan.Image = nil
			delete(s.scans, id)
		}
	}
}
