package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocpulse/pkg/contracts/domain"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	_, _, _, err := s.LoadLatestSession(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	id, err := s.SaveSession(ctx, &domain.Session{GrossTotal: 10, Processed: 6, InProcess: 3, Cancelled: 1, Efficiency: 60})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	processed := []domain.Requisition{{ID: "100", PurchaseType: domain.TypeCompraAgil, StatusRaw: "AG-1"}}
	inProcess := []domain.Requisition{{ID: "101", PurchaseType: domain.TypeCompraAgil}}
	require.NoError(t, s.SaveRequisitions(ctx, id, processed, inProcess))

	recs := []domain.FinancialRecord{{OrderCode: "100-5-AB", Amount: 1000, Matched: true}}
	require.NoError(t, s.SaveFinancialRecords(ctx, id, recs))

	session, gotProcessed, gotInProcess, err := s.LoadLatestSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, session.ID)
	assert.False(t, session.CreatedAt.IsZero())
	assert.Equal(t, processed, gotProcessed)
	assert.Equal(t, inProcess, gotInProcess)

	gotRecs, err := s.LoadFinancialRecords(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, recs, gotRecs)
}

func TestMemoryStoreLatestWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first, err := s.SaveSession(ctx, &domain.Session{GrossTotal: 1})
	require.NoError(t, err)
	second, err := s.SaveSession(ctx, &domain.Session{GrossTotal: 2})
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	session, _, _, err := s.LoadLatestSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, session.ID)
	assert.Equal(t, 2, session.GrossTotal)
}
