package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ocpulse/pkg/contracts/domain"
)

// MemoryStore is an in-process RecordStore used by the batch CLI and tests,
// and as the fallback when no database DSN is configured.
type MemoryStore struct {
	mu        sync.Mutex
	sessions  []domain.Session
	processed map[string][]domain.Requisition
	inProcess map[string][]domain.Requisition
	financial map[string][]domain.FinancialRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		processed: make(map[string][]domain.Requisition),
		inProcess: make(map[string][]domain.Requisition),
		financial: make(map[string][]domain.FinancialRecord),
	}
}

// SaveSession persists the batch counters and returns the session id.
func (s *MemoryStore) SaveSession(_ context.Context, session *domain.Session) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *session
	stored.ID = uuid.New().String()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.sessions = append(s.sessions, stored)
	return stored.ID, nil
}

// SaveRequisitions links the classified requisitions to a session.
func (s *MemoryStore) SaveRequisitions(_ context.Context, sessionID string, processed, inProcess []domain.Requisition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed[sessionID] = append([]domain.Requisition(nil), processed...)
	s.inProcess[sessionID] = append([]domain.Requisition(nil), inProcess...)
	return nil
}

// SaveFinancialRecords replaces the financial records of a session.
func (s *MemoryStore) SaveFinancialRecords(_ context.Context, sessionID string, records []domain.FinancialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.financial[sessionID] = append([]domain.FinancialRecord(nil), records...)
	return nil
}

// LoadLatestSession returns the most recent session with its requisitions.
func (s *MemoryStore) LoadLatestSession(_ context.Context) (*domain.Session, []domain.Requisition, []domain.Requisition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) == 0 {
		return nil, nil, nil, ErrNoSession
	}
	latest := s.sessions[len(s.sessions)-1]
	return &latest, s.processed[latest.ID], s.inProcess[latest.ID], nil
}

// LoadFinancialRecords returns the financial records of a session.
func (s *MemoryStore) LoadFinancialRecords(_ context.Context, sessionID string) ([]domain.FinancialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.financial[sessionID], nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() {}
