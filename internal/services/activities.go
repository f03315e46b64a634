package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/models"
)

// ActivityService handles generic SSOMA activity evidence records.
type ActivityService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewActivityService creates a new activity service
func NewActivityService(db *pgxpool.Pool, logger *zap.SugaredLogger) *ActivityService {
	return &ActivityService{db: db, logger: logger}
}

// EnsureTable creates the table if needed and applies best-effort
// additive migrations.
func (s *ActivityService) EnsureTable(ctx context.Context) ([]MigrationOutcome, error) {
	create := `
		CREATE TABLE IF NOT EXISTS ssoma_activities (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT '',
			area TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL DEFAULT '',
			responsible TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			evidence TEXT NOT NULL DEFAULT '[]'
		)
	`
	migrations := []string{
		`ALTER TABLE ssoma_activities ADD COLUMN location TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE ssoma_activities ADD COLUMN description TEXT NOT NULL DEFAULT ''`,
	}
	return ensureTable(ctx, s.db, s.logger, create, migrations)
}

// List returns all activities, newest first.
func (s *ActivityService) List(ctx context.Context) ([]models.Activity, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, type, area, date, responsible, location, description, evidence
		FROM ssoma_activities ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []models.Activity
	for rows.Next() {
		var a models.Activity
		var evidence string
		if err := rows.Scan(&a.ID, &a.Title, &a.Type, &a.Area, &a.Date,
			&a.Responsible, &a.Location, &a.Description, &evidence); err != nil {
			continue
		}
		a.Evidence = decodeList(evidence, s.logger)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create inserts one activity record, assigning an id when absent.
func (s *ActivityService) Create(ctx context.Context, a *models.Activity) (string, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO ssoma_activities (id, title, type, area, date, responsible, location, description, evidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.Title, a.Type, a.Area, a.Date, a.Responsible, a.Location, a.Description, encodeList(a.Evidence))
	if err != nil {
		return "", fmt.Errorf("insert activity: %w", err)
	}
	return a.ID, nil
}

// Update rewrites one activity by id.
func (s *ActivityService) Update(ctx context.Context, id string, a *models.Activity) error {
	if id == "" {
		return ErrIDRequired
	}
	_, err := s.db.Exec(ctx, `
		UPDATE ssoma_activities
		SET title=$2, type=$3, area=$4, date=$5, responsible=$6, location=$7, description=$8, evidence=$9
		WHERE id=$1
	`, id, a.Title, a.Type, a.Area, a.Date, a.Responsible, a.Location, a.Description, encodeList(a.Evidence))
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	return nil
}

// Delete removes one activity by id.
func (s *ActivityService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM ssoma_activities WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}

// BulkCreate inserts records sequentially and returns the count.
func (s *ActivityService) BulkCreate(ctx context.Context, recs []models.Activity) (int, error) {
	count := 0
	for i := range recs {
		if _, err := s.Create(ctx, &recs[i]); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// LegacySync is the compatibility path for old clients that sent the
// whole table as a raw array. Only rows without a pre-existing id are
// inserted — append-only, never wipe-and-replace.
func (s *ActivityService) LegacySync(ctx context.Context, recs []models.Activity) (int, error) {
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
