package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/models"
)

// AtsService handles ATS work-permit records.
type AtsService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewAtsService creates a new ATS service
func NewAtsService(db *pgxpool.Pool, logger *zap.SugaredLogger) *AtsService {
	return &AtsService{db: db, logger: logger}
}

func (s *AtsService) EnsureTable(ctx context.Context) ([]MigrationOutcome, error) {
	create := `
		CREATE TABLE IF NOT EXISTS ssoma_ats (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL DEFAULT '',
			area TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			responsible TEXT NOT NULL DEFAULT '',
			activity TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'abierto',
			evidence TEXT NOT NULL DEFAULT '[]'
		)
	`
	migrations := []string{
		`ALTER TABLE ssoma_ats ADD COLUMN code TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE ssoma_ats ADD COLUMN status TEXT NOT NULL DEFAULT 'abierto'`,
	}
	return ensureTable(ctx, s.db, s.logger, create, migrations)
}

func (s *AtsService) List(ctx context.Context) ([]models.Ats, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, code, date, area, location, responsible, activity, status, evidence
		FROM ssoma_ats ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list ats: %w", err)
	}
	defer rows.Close()

	var out []models.Ats
	for rows.Next() {
		var a models.Ats
		var evidence string
		if err := rows.Scan(&a.ID, &a.Code, &a.Date, &a.Area, &a.Location,
			&a.Responsible, &a.Activity, &a.Status, &evidence); err != nil {
			continue
		}
		a.Evidence = decodeList(evidence, s.logger)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *AtsService) Create(ctx context.Context, a *models.Ats) (string, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO ssoma_ats (id, code, date, area, location, responsible, activity, status, evidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.Code, a.Date, a.Area, a.Location, a.Responsible, a.Activity, a.Status, encodeList(a.Evidence))
	if err != nil {
		return "", fmt.Errorf("insert ats: %w", err)
	}
	return a.ID, nil
}

func (s *AtsService) Update(ctx context.Context, id string, a *models.Ats) error {
	if id == "" {
		return ErrIDRequired
	}
	_, err := s.db.Exec(ctx, `
		UPDATE ssoma_ats
		SET code=$2, date=$3, area=$4, location=$5, responsible=$6, activity=$7, status=$8, evidence=$9
		WHERE id=$1
	`, id, a.Code, a.Date, a.Area, a.Location, a.Responsible, a.Activity, a.Status, encodeList(a.Evidence))
	if err != nil {
		return fmt.Errorf("update ats: %w", err)
	}
	return nil
}

func (s *AtsService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM ssoma_ats WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete ats: %w", err)
	}
	return nil
}

func (s *AtsService) BulkCreate(ctx context.Context, recs []models.Ats) (int, error) {
	count := 0
	for i := range recs {
		if _, err := s.Create(ctx, &recs[i]); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *AtsService) LegacySync(ctx context.Context, recs []models.Ats) (int, error) {
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

// PetarService handles PETAR high-risk work-permit records.
type PetarService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewPetarService creates a new PETAR service
func NewPetarService(db *pgxpool.Pool, logger *zap.SugaredLogger) *PetarService {
	return &PetarService{db: db, logger: logger}
}

func (s *PetarService) EnsureTable(ctx context.Context) ([]MigrationOutcome, error) {
	create := `
		CREATE TABLE IF NOT EXISTS ssoma_petar (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL DEFAULT '',
			area TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			responsible TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'abierto',
			evidence TEXT NOT NULL DEFAULT '[]'
		)
	`
	migrations := []string{
		`ALTER TABLE ssoma_petar ADD COLUMN type TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE ssoma_petar ADD COLUMN status TEXT NOT NULL DEFAULT 'abierto'`,
	}
	return ensureTable(ctx, s.db, s.logger, create, migrations)
}

func (s *PetarService) List(ctx context.Context) ([]models.Petar, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, code, type, date, area, location, responsible, status, evidence
		FROM ssoma_petar ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list petar: %w", err)
	}
	defer rows.Close()

	var out []models.Petar
	for rows.Next() {
		var p models.Petar
		var evidence string
		if err := rows.Scan(&p.ID, &p.Code, &p.Type, &p.Date, &p.Area,
			&p.Location, &p.Responsible, &p.Status, &evidence); err != nil {
			continue
		}
		p.Evidence = decodeList(evidence, s.logger)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PetarService) Create(ctx context.Context, p *models.Petar) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO ssoma_petar (id, code, type, date, area, location, responsible, status, evidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.Code, p.Type, p.Date, p.Area, p.Location, p.Responsible, p.Status, encodeList(p.Evidence))
	if err != nil {
		return "", fmt.Errorf("insert petar: %w", err)
	}
	return p.ID, nil
}

func (s *PetarService) Update(ctx context.Context, id string, p *models.Petar) error {
	if id == "" {
		return ErrIDRequired
	}
	_, err := s.db.Exec(ctx, `
		UPDATE ssoma_petar
		SET code=$2, type=$3, date=$4, area=$5, location=$6, responsible=$7, status=$8, evidence=$9
		WHERE id=$1
	`, id, p.Code, p.Type, p.Date, p.Area, p.Location, p.Responsible, p.Status, encodeList(p.Evidence))
	if err != nil {
		return fmt.Errorf("update petar: %w", err)
	}
	return nil
}

func (s *PetarService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM ssoma_petar WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete petar: %w", err)
	}
	return nil
}

func (s *PetarService) BulkCreate(ctx context.Context, recs []models.Petar) (int, error) {
	count := 0
	for i := range recs {
		if _, err := s.Create(ctx, &recs[i]); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *PetarService) LegacySync(ctx context.Context, recs []models.Petar) (int, error) {
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
