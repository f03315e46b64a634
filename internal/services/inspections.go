package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/models"
)

// InspectionService handles field inspection records.
type InspectionService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewInspectionService creates a new inspection service
func NewInspectionService(db *pgxpool.Pool, logger *zap.SugaredLogger) *InspectionService {
	return &InspectionService{db: db, logger: logger}
}

func (s *InspectionService) EnsureTable(ctx context.Context) ([]MigrationOutcome, error) {
	create := `
		CREATE TABLE IF NOT EXISTS ssoma_inspections (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL DEFAULT '',
			area TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			inspector TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT '',
			findings TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pendiente',
			evidence TEXT NOT NULL DEFAULT '[]'
		)
	`
	migrations := []string{
		`ALTER TABLE ssoma_inspections ADD COLUMN findings TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE ssoma_inspections ADD COLUMN status TEXT NOT NULL DEFAULT 'pendiente'`,
		`ALTER TABLE ssoma_inspections ALTER COLUMN evidence TYPE TEXT`,
	}
	return ensureTable(ctx, s.db, s.logger, create, migrations)
}

func (s *InspectionService) List(ctx context.Context) ([]models.Inspection, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, date, area, location, inspector, type, findings, status, evidence
		FROM ssoma_inspections ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list inspections: %w", err)
	}
	defer rows.Close()

	var out []models.Inspection
	for rows.Next() {
		var in models.Inspection
		var evidence string
		if err := rows.Scan(&in.ID, &in.Date, &in.Area, &in.Location, &in.Inspector,
			&in.Type, &in.Findings, &in.Status, &evidence); err != nil {
			continue
		}
		in.Evidence = decodeList(evidence, s.logger)
		out = append(out, in)
	}
	return out, rows.Err()
}

func (s *InspectionService) Create(ctx context.Context, in *models.Inspection) (string, error) {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO ssoma_inspections (id, date, area, location, inspector, type, findings, status, evidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, in.ID, in.Date, in.Area, in.Location, in.Inspector, in.Type, in.Findings, in.Status, encodeList(in.Evidence))
	if err != nil {
		return "", fmt.Errorf("insert inspection: %w", err)
	}
	return in.ID, nil
}

func (s *InspectionService) Update(ctx context.Context, id string, in *models.Inspection) error {
	if id == "" {
		return ErrIDRequired
	}
	_, err := s.db.Exec(ctx, `
		UPDATE ssoma_inspections
		SET date=$2, area=$3, location=$4, inspector=$5, type=$6, findings=$7, status=$8, evidence=$9
		WHERE id=$1
	`, id, in.Date, in.Area, in.Location, in.Inspector, in.Type, in.Findings, in.Status, encodeList(in.Evidence))
	if err != nil {
		return fmt.Errorf("update inspection: %w", err)
	}
	return nil
}

func (s *InspectionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM ssoma_inspections WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete inspection: %w", err)
	}
	return nil
}

func (s *InspectionService) BulkCreate(ctx context.Context, recs []models.Inspection) (int, error) {
	count := 0
	for i := range recs {
		if _, err := s.Create(ctx, &recs[i]); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *InspectionService) LegacySync(ctx context.Context, recs []models.Inspection) (int, error) {
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
