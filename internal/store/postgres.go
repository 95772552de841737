package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ocpulse/pkg/contracts/domain"
)

// Schema mirrors the original session tables: one row of counters per batch,
// requisitions split by classification, and the reconciled order ledger.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	created_at    TIMESTAMPTZ NOT NULL,
	gross_total   INTEGER NOT NULL,
	processed     INTEGER NOT NULL,
	in_process    INTEGER NOT NULL,
	cancelled     INTEGER NOT NULL,
	unclassified  INTEGER NOT NULL,
	efficiency    DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS requisitions (
	id             BIGSERIAL PRIMARY KEY,
	session_id     TEXT NOT NULL REFERENCES sessions (id) ON DELETE CASCADE,
	kind           TEXT NOT NULL,
	requisition_id TEXT NOT NULL,
	purchase_type  TEXT NOT NULL,
	status_raw     TEXT NOT NULL,
	financing_type TEXT,
	title          TEXT,
	unit           TEXT,
	buyer          TEXT
);
CREATE TABLE IF NOT EXISTS financial_records (
	id             BIGSERIAL PRIMARY KEY,
	session_id     TEXT NOT NULL REFERENCES sessions (id) ON DELETE CASCADE,
	order_code     TEXT NOT NULL,
	status         TEXT,
	amount         DOUBLE PRECISION NOT NULL,
	purchase_type  TEXT,
	unit           TEXT,
	financing_type TEXT,
	requisition_id TEXT,
	title          TEXT,
	matched        BOOLEAN NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_requisitions_session ON requisitions (session_id, kind);
CREATE INDEX IF NOT EXISTS idx_financial_session ON financial_records (session_id);
`

// PostgresStore is the pgx-backed RecordStore.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore connects to the database, bootstraps the schema, and
// returns the store.
func NewPostgresStore(ctx context.Context, dsn string, connectTimeout time.Duration, logger *slog.Logger) (*PostgresStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.New(connectCtx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(connectCtx, schemaDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	logger.InfoContext(ctx, "record store connected", slog.String("backend", "postgres"))
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// SaveSession persists the batch counters and returns the session id.
func (s *PostgresStore) SaveSession(ctx context.Context, session *domain.Session) (string, error) {
	id := uuid.New().String()
	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (id, created_at, gross_total, processed, in_process, cancelled, unclassified, efficiency)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, createdAt, session.GrossTotal, session.Processed, session.InProcess,
		session.Cancelled, session.Unclassified, session.Efficiency)
	if err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}
	return id, nil
}

// SaveRequisitions links the classified requisitions to a session.
func (s *PostgresStore) SaveRequisitions(ctx context.Context, sessionID string, processed, inProcess []domain.Requisition) error {
	batch := &pgx.Batch{}
	queue := func(kind string, reqs []domain.Requisition) {
		for _, r := range reqs {
			batch.Queue(
				`INSERT INTO requisitions (session_id, kind, requisition_id, purchase_type, status_raw, financing_type, title, unit, buyer)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				sessionID, kind, r.ID, r.PurchaseType, r.StatusRaw, r.FinancingType, r.Title, r.Unit, r.Buyer)
		}
	}
	queue(domain.Processed.String(), processed)
	queue(domain.InProcess.String(), inProcess)

	if batch.Len() == 0 {
		return nil
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert requisitions: %w", err)
	}
	return nil
}

// SaveFinancialRecords replaces the financial records of a session.
func (s *PostgresStore) SaveFinancialRecords(ctx context.Context, sessionID string, records []domain.FinancialRecord) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM financial_records WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to clear financial records: %w", err)
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(
			`INSERT INTO financial_records (session_id, order_code, status, amount, purchase_type, unit, financing_type, requisition_id, title, matched)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			sessionID, rec.OrderCode, rec.Status, rec.Amount, rec.PurchaseType,
			rec.Unit, rec.FinancingType, rec.RequisitionID, rec.Title, rec.Matched)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert financial records: %w", err)
	}
	return nil
}

// LoadLatestSession returns the most recent session with its requisitions.
func (s *PostgresStore) LoadLatestSession(ctx context.Context) (*domain.Session, []domain.Requisition, []domain.Requisition, error) {
	var session domain.Session
	err := s.pool.QueryRow(ctx,
		`SELECT id, created_at, gross_total, processed, in_process, cancelled, unclassified, efficiency
		 FROM sessions ORDER BY created_at DESC LIMIT 1`).
		Scan(&session.ID, &session.CreatedAt, &session.GrossTotal, &session.Processed,
			&session.InProcess, &session.Cancelled, &session.Unclassified, &session.Efficiency)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, nil, ErrNoSession
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load latest session: %w", err)
	}

	processed, err := s.loadRequisitions(ctx, session.ID, domain.Processed.String())
	if err != nil {
		return nil, nil, nil, err
	}
	inProcess, err := s.loadRequisitions(ctx, session.ID, domain.InProcess.String())
	if err != nil {
		return nil, nil, nil, err
	}
	return &session, processed, inProcess, nil
}

func (s *PostgresStore) loadRequisitions(ctx context.Context, sessionID, kind string) ([]domain.Requisition, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT requisition_id, purchase_type, status_raw, COALESCE(financing_type, ''), COALESCE(title, ''), COALESCE(unit, ''), COALESCE(buyer, '')
		 FROM requisitions WHERE session_id = $1 AND kind = $2 ORDER BY id`,
		sessionID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s requisitions: %w", kind, err)
	}
	defer rows.Close()

	var reqs []domain.Requisition
	for rows.Next() {
		var r domain.Requisition
		if err := rows.Scan(&r.ID, &r.PurchaseType, &r.StatusRaw, &r.FinancingType, &r.Title, &r.Unit, &r.Buyer); err != nil {
			return nil, fmt.Errorf("failed to scan requisition: %w", err)
		}
		reqs = append(reqs, r)
	}
	return reqs, rows.Err()
}

// LoadFinancialRecords returns the financial records of a session.
func (s *PostgresStore) LoadFinancialRecords(ctx context.Context, sessionID string) ([]domain.FinancialRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT order_code, COALESCE(status, ''), amount, COALESCE(purchase_type, ''), COALESCE(unit, ''), COALESCE(financing_type, ''), COALESCE(requisition_id, ''), COALESCE(title, ''), matched
		 FROM financial_records WHERE session_id = $1 ORDER BY id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load financial records: %w", err)
	}
	defer rows.Close()

	var recs []domain.FinancialRecord
	for rows.Next() {
		var rec domain.FinancialRecord
		if err := rows.Scan(&rec.OrderCode, &rec.Status, &rec.Amount, &rec.PurchaseType,
			&rec.Unit, &rec.FinancingType, &rec.RequisitionID, &rec.Title, &rec.Matched); err != nil {
			return nil, fmt.Errorf("failed to scan financial record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
