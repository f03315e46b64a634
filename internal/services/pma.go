package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/models"
)

// PmaService handles environmental-management-plan evidence records.
type PmaService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewPmaService creates a new PMA service
func NewPmaService(db *pgxpool.Pool, logger *zap.SugaredLogger) *PmaService {
	return &PmaService{db: db, logger: logger}
}

func (s *PmaService) EnsureTable(ctx context.Context) ([]MigrationOutcome, error) {
	create := `
		CREATE TABLE IF NOT EXISTS ssoma_pma (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			responsible TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			evidence TEXT NOT NULL DEFAULT '[]'
		)
	`
	migrations := []string{
		`ALTER TABLE ssoma_pma ADD COLUMN description TEXT NOT NULL DEFAULT ''`,
	}
	return ensureTable(ctx, s.db, s.logger, create, migrations)
}

func (s *PmaService) List(ctx context.Context) ([]models.Pma, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, category, date, location, responsible, description, evidence
		FROM ssoma_pma ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list pma: %w", err)
	}
	defer rows.Close()

	var out []models.Pma
	for rows.Next() {
		var p models.Pma
		var evidence string
		if err := rows.Scan(&p.ID, &p.Category, &p.Date, &p.Location,
			&p.Responsible, &p.Description, &evidence); err != nil {
			continue
		}
		p.Evidence = decodeList(evidence, s.logger)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PmaService) Create(ctx context.Context, p *models.Pma) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO ssoma_pma (id, category, date, location, responsible, description, evidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.Category, p.Date, p.Location, p.Responsible, p.Description, encodeList(p.Evidence))
	if err != nil {
		return "", fmt.Errorf("insert pma: %w", err)
	}
	return p.ID, nil
}

func (s *PmaService) Update(ctx context.Context, id string, p *models.Pma) error {
	if id == "" {
		return ErrIDRequired
	}
	_, err := s.db.Exec(ctx, `
		UPDATE ssoma_pma
		SET category=$2, date=$3, location=$4, responsible=$5, description=$6, evidence=$7
		WHERE id=$1
	`, id, p.Category, p.Date, p.Location, p.Responsible, p.Description, encodeList(p.Evidence))
	if err != nil {
		return fmt.Errorf("update pma: %w", err)
	}
	return nil
}

func (s *PmaService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM ssoma_pma WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete pma: %w", err)
	}
	return nil
}

func (s *PmaService) BulkCreate(ctx context.Context, recs []models.Pma) (int, error) {
	count := 0
	for i := range recs {
		if _, err := s.Create(ctx, &recs[i]); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *PmaService) LegacySync(ctx context.Context, recs []models.Pma) (int, error) {
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
