// Package store persists classified batches. The engine only ever issues the
// four operations below; schema and storage mechanics stay behind this
// interface.
package store

import (
	"context"
	"errors"

	"ocpulse/pkg/contracts/domain"
)

// ErrNoSession is returned by LoadLatestSession when nothing has been
// persisted yet.
var ErrNoSession = errors.New("no stored session")

// RecordStore is the persistence collaborator of the batch engine.
type RecordStore interface {
	// SaveSession persists the batch counters and returns the session id.
	SaveSession(ctx context.Context, session *domain.Session) (string, error)
	// SaveRequisitions links the classified requisitions to a session.
	SaveRequisitions(ctx context.Context, sessionID string, processed, inProcess []domain.Requisition) error
	// SaveFinancialRecords links reconciled financial records to a session,
	// replacing any previous records of that session.
	SaveFinancialRecords(ctx context.Context, sessionID string, records []domain.FinancialRecord) error
	// LoadLatestSession returns the most recent session with its stored
	// requisitions, or ErrNoSession.
	LoadLatestSession(ctx context.Context) (*domain.Session, []domain.Requisition, []domain.Requisition, error)
	// LoadFinancialRecords returns the financial records of a session.
	LoadFinancialRecords(ctx context.Context, sessionID string) ([]domain.FinancialRecord, error)
	// Close releases the underlying resources.
	Close()
}
