package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/models"
)

// MonthlyProgramService handles the month-by-month SSOMA program.
// Unlike the evidence tables, multi-row writes here are transactional:
// a program month is replaced as a unit or not at all, so a failed save
// can never leave a half-replaced program behind.
type MonthlyProgramService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewMonthlyProgramService creates a new monthly program service
func NewMonthlyProgramService(db *pgxpool.Pool, logger *zap.SugaredLogger) *MonthlyProgramService {
	return &MonthlyProgramService{db: db, logger: logger}
}

func (s *MonthlyProgramService) EnsureTable(ctx context.Context) ([]MigrationOutcome, error) {
	create := `
		CREATE TABLE IF NOT EXISTS ssoma_monthly_program (
			id TEXT PRIMARY KEY,
			year INTEGER NOT NULL,
			month INTEGER NOT NULL,
			activity TEXT NOT NULL DEFAULT '',
			area TEXT NOT NULL DEFAULT '',
			responsible TEXT NOT NULL DEFAULT '',
			programmed INTEGER NOT NULL DEFAULT 0,
			executed INTEGER NOT NULL DEFAULT 0,
			date TEXT NOT NULL DEFAULT ''
		)
	`
	migrations := []string{
		`ALTER TABLE ssoma_monthly_program ADD COLUMN executed INTEGER NOT NULL DEFAULT 0`,
	}
	return ensureTable(ctx, s.db, s.logger, create, migrations)
}

// List returns program entries in calendar order.
func (s *MonthlyProgramService) List(ctx context.Context) ([]models.MonthlyProgramEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, year, month, activity, area, responsible, programmed, executed, date
		FROM ssoma_monthly_program ORDER BY year ASC, month ASC, date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list monthly program: %w", err)
	}
	defer rows.Close()

	var out []models.MonthlyProgramEntry
	for rows.Next() {
		var e models.MonthlyProgramEntry
		if err := rows.Scan(&e.ID, &e.Year, &e.Month, &e.Activity, &e.Area,
			&e.Responsible, &e.Programmed, &e.Executed, &e.Date); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *MonthlyProgramService) Create(ctx context.Context, e *models.MonthlyProgramEntry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO ssoma_monthly_program (id, year, month, activity, area, responsible, programmed, executed, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID, e.Year, e.Month, e.Activity, e.Area, e.Responsible, e.Programmed, e.Executed, e.Date)
	if err != nil {
		return "", fmt.Errorf("insert program entry: %w", err)
	}
	return e.ID, nil
}

func (s *MonthlyProgramService) Update(ctx context.Context, id string, e *models.MonthlyProgramEntry) error {
	if id == "" {
		return ErrIDRequired
	}
	_, err := s.db.Exec(ctx, `
		UPDATE ssoma_monthly_program
		SET year=$2, month=$3, activity=$4, area=$5, responsible=$6, programmed=$7, executed=$8, date=$9
		WHERE id=$1
	`, id, e.Year, e.Month, e.Activity, e.Area, e.Responsible, e.Programmed, e.Executed, e.Date)
	if err != nil {
		return fmt.Errorf("update program entry: %w", err)
	}
	return nil
}

func (s *MonthlyProgramService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM ssoma_monthly_program WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete program entry: %w", err)
	}
	return nil
}

// BulkCreate inserts all entries inside one transaction.
func (s *MonthlyProgramService) BulkCreate(ctx context.Context, recs []models.MonthlyProgramEntry) (int, error) {
	count := 0
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		for i := range recs {
			if recs[i].ID == "" {
				recs[i].ID = uuid.NewString()
			}
			e := &recs[i]
			if _, err := tx.Exec(ctx, `
				INSERT INTO ssoma_monthly_program (id, year, month, activity, area, responsible, programmed, executed, date)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, e.ID, e.Year, e.Month, e.Activity, e.Area, e.Responsible, e.Programmed, e.Executed, e.Date); err != nil {
				return fmt.Errorf("insert program entry: %w", err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ReplaceMonth swaps out every entry of one (year, month) for the given
// set, atomically.
func (s *MonthlyProgramService) ReplaceMonth(ctx context.Context, year, month int, recs []models.MonthlyProgramEntry) (int, error) {
	count := 0
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM ssoma_monthly_program WHERE year=$1 AND month=$2`, year, month); err != nil {
			return fmt.Errorf("clear program month: %w", err)
		}
		for i := range recs {
			if recs[i].ID == "" {
				recs[i].ID = uuid.NewString()
			}
			e := &recs[i]
			if _, err := tx.Exec(ctx, `
				INSERT INTO ssoma_monthly_program (id, year, month, activity, area, responsible, programmed, executed, date)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, e.ID, year, month, e.Activity, e.Area, e.Responsible, e.Programmed, e.Executed, e.Date); err != nil {
				return fmt.Errorf("insert program entry: %w", err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// LegacySync inserts only rows without ids, inside one transaction
// (initial-sync path).
func (s *MonthlyProgramService) LegacySync(ctx context.Context, recs []models.MonthlyProgramEntry) (int, error) {
	fresh := make([]models.MonthlyProgramEntry, 0, len(recs))
	for i := range recs {
		if recs[i].ID == "" {
			fresh = append(fresh, recs[i])
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}
	return s.BulkCreate(ctx, fresh)
}

// AnnualProgramService handles the yearly SSOMA program lines.
type AnnualProgramService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewAnnualProgramService creates a new annual program service
func NewAnnualProgramService(db *pgxpool.Pool, logger *zap.SugaredLogger) *AnnualProgramService {
	return &AnnualProgramService{db: db, logger: logger}
}

func (s *AnnualProgramService) EnsureTable(ctx context.Context) ([]MigrationOutcome, error) {
	create := `
		CREATE TABLE IF NOT EXISTS ssoma_annual_program (
			id TEXT PRIMARY KEY,
			year INTEGER NOT NULL,
			objective TEXT NOT NULL DEFAULT '',
			activity TEXT NOT NULL DEFAULT '',
			responsible TEXT NOT NULL DEFAULT '',
			frequency TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL DEFAULT ''
		)
	`
	migrations := []string{
		`ALTER TABLE ssoma_annual_program ADD COLUMN frequency TEXT NOT NULL DEFAULT ''`,
	}
	return ensureTable(ctx, s.db, s.logger, create, migrations)
}

func (s *AnnualProgramService) List(ctx context.Context) ([]models.AnnualProgramEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, year, objective, activity, responsible, frequency, date
		FROM ssoma_annual_program ORDER BY year ASC, date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list annual program: %w", err)
	}
	defer rows.Close()

	var out []models.AnnualProgramEntry
	for rows.Next() {
		var e models.AnnualProgramEntry
		if err := rows.Scan(&e.ID, &e.Year, &e.Objective, &e.Activity,
			&e.Responsible, &e.Frequency, &e.Date); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *AnnualProgramService) Create(ctx context.Context, e *models.AnnualProgramEntry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO ssoma_annual_program (id, year, objective, activity, responsible, frequency, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.Year, e.Objective, e.Activity, e.Responsible, e.Frequency, e.Date)
	if err != nil {
		return "", fmt.Errorf("insert annual entry: %w", err)
	}
	return e.ID, nil
}

func (s *AnnualProgramService) Update(ctx context.Context, id string, e *models.AnnualProgramEntry) error {
	if id == "" {
		return ErrIDRequired
	}
	_, err := s.db.Exec(ctx, `
		UPDATE ssoma_annual_program
		SET year=$2, objective=$3, activity=$4, responsible=$5, frequency=$6, date=$7
		WHERE id=$1
	`, id, e.Year, e.Objective, e.Activity, e.Responsible, e.Frequency, e.Date)
	if err != nil {
		return fmt.Errorf("update annual entry: %w", err)
	}
	return nil
}

func (s *AnnualProgramService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM ssoma_annual_program WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete annual entry: %w", err)
	}
	return nil
}

// BulkCreate inserts all entries inside one transaction, same policy as
// the monthly program.
func (s *AnnualProgramService) BulkCreate(ctx context.Context, recs []models.AnnualProgramEntry) (int, error) {
	count := 0
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		for i := range recs {
			if recs[i].ID == "" {
				recs[i].ID = uuid.NewString()
			}
			e := &recs[i]
			if _, err := tx.Exec(ctx, `
				INSERT INTO ssoma_annual_program (id, year, objective, activity, responsible, frequency, date)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, e.ID, e.Year, e.Objective, e.Activity, e.Responsible, e.Frequency, e.Date); err != nil {
				return fmt.Errorf("insert annual entry: %w", err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *AnnualProgramService) LegacySync(ctx context.Context, recs []models.AnnualProgramEntry) (int, error) {
	fresh := make([]models.AnnualProgramEntry, 0, len(recs))
	for i := range recs {
		if recs[i].ID == "" {
			fresh = append(fresh, recs[i])
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}
	return s.BulkCreate(ctx, fresh)
}
