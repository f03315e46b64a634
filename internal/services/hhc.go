package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/models"
)

const (
	hhcRetryAttempts = 3
	hhcRetryDelay    = 300 * time.Millisecond
)

// HhcService handles training man-hour records. Writes on this path are
// wrapped in a bounded retry — the training form was the one surface
// where transient connection drops kept losing submissions, so this
// table alone retries.
type HhcService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewHhcService creates a new HHC service
func NewHhcService(db *pgxpool.Pool, logger *zap.SugaredLogger) *HhcService {
	return &HhcService{db: db, logger: logger}
}

// withRetry runs op up to hhcRetryAttempts times with a fixed delay.
func (s *HhcService) withRetry(ctx context.Context, what string, op func() error) error {
	var err error
	for attempt := 1; attempt <= hhcRetryAttempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		s.logger.Warnw("HHC operation failed, retrying",
			"op", what, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(hhcRetryDelay):
		}
	}
	return err
}

func (s *HhcService) EnsureTable(ctx context.Context) ([]MigrationOutcome, error) {
	create := `
		CREATE TABLE IF NOT EXISTS ssoma_hhc (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL DEFAULT '',
			topic TEXT NOT NULL DEFAULT '',
			trainer TEXT NOT NULL DEFAULT '',
			area TEXT NOT NULL DEFAULT '',
			participants INTEGER NOT NULL DEFAULT 0,
			hours DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
			evidence TEXT NOT NULL DEFAULT '[]'
		)
	`
	migrations := []string{
		`ALTER TABLE ssoma_hhc ADD COLUMN total_hours DOUBLE PRECISION NOT NULL DEFAULT 0`,
		`ALTER TABLE ssoma_hhc ALTER COLUMN hours TYPE DOUBLE PRECISION`,
	}

	var outcomes []MigrationOutcome
	err := s.withRetry(ctx, "ensure-table", func() error {
		var e error
		outcomes, e = ensureTable(ctx, s.db, s.logger, create, migrations)
		return e
	})
	return outcomes, err
}

func (s *HhcService) List(ctx context.Context) ([]models.Hhc, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, date, topic, trainer, area, participants, hours, total_hours, evidence
		FROM ssoma_hhc ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list hhc: %w", err)
	}
	defer rows.Close()

	var out []models.Hhc
	for rows.Next() {
		var h models.Hhc
		var evidence string
		if err := rows.Scan(&h.ID, &h.Date, &h.Topic, &h.Trainer, &h.Area,
			&h.Participants, &h.Hours, &h.TotalHours, &evidence); err != nil {
			continue
		}
		h.Evidence = decodeList(evidence, s.logger)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *HhcService) Create(ctx context.Context, h *models.Hhc) (string, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	err := s.withRetry(ctx, "insert", func() error {
		_, e := s.db.Exec(ctx, `
			INSERT INTO ssoma_hhc (id, date, topic, trainer, area, participants, hours, total_hours, evidence)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, h.ID, h.Date, h.Topic, h.Trainer, h.Area, h.Participants, h.Hours, h.TotalHours, encodeList(h.Evidence))
		return e
	})
	if err != nil {
		return "", fmt.Errorf("insert hhc: %w", err)
	}
	return h.ID, nil
}

func (s *HhcService) Update(ctx context.Context, id string, h *models.Hhc) error {
	if id == "" {
		return ErrIDRequired
	}
	err := s.withRetry(ctx, "update", func() error {
		_, e := s.db.Exec(ctx, `
			UPDATE ssoma_hhc
			SET date=$2, topic=$3, trainer=$4, area=$5, participants=$6, hours=$7, total_hours=$8, evidence=$9
			WHERE id=$1
		`, id, h.Date, h.Topic, h.Trainer, h.Area, h.Participants, h.Hours, h.TotalHours, encodeList(h.Evidence))
		return e
	})
	if err != nil {
		return fmt.Errorf("update hhc: %w", err)
	}
	return nil
}

func (s *HhcService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	err := s.withRetry(ctx, "delete", func() error {
		_, e := s.db.Exec(ctx, `DELETE FROM ssoma_hhc WHERE id=$1`, id)
		return e
	})
	if err != nil {
		return fmt.Errorf("delete hhc: %w", err)
	}
	return nil
}

func (s *HhcService) BulkCreate(ctx context.Context, recs []models.Hhc) (int, error) {
	count := 0
	for i := range recs {
		if _, err := s.Create(ctx, &recs[i]); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *HhcService) LegacySync(ctx context.Context, recs []models.Hhc) (int, error) {
	count := 0
	for i := range recs {
		if recs[i].ID != "" {
			continue
		}
		if _, err := s.Create(ctx, &recs[i]); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
