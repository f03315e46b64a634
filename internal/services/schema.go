// Package services contains business logic layers.
// Services are called by handlers and interact with the database.
// Every record service follows the same shape: EnsureTable, List,
// Create, Update, Delete, BulkCreate, LegacySync over one table.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrIDRequired is returned by Update/Delete calls without an id; they
// must fail loudly rather than silently no-op.
var ErrIDRequired = errors.New("ID required")

// MigrationOutcome classifies what happened to one best-effort additive
// migration. Failures never propagate — a migration can legitimately be
// a no-op when the schema already satisfies it or the dialect does not
// support the statement — but tests can assert on the outcome instead
// of absence-of-exception.
type MigrationOutcome int

const (
	MigrationApplied MigrationOutcome = iota
	MigrationAlreadyApplied
	MigrationUnsupported
)

func (o MigrationOutcome) String() string {
	switch o {
	case MigrationApplied:
		return "applied"
	case MigrationAlreadyApplied:
		return "already-applied"
	default:
		return "unsupported"
	}
}

// ensureTable runs the create statement followed by the additive
// migrations, classifying each migration result and never failing the
// call for a migration.
func ensureTable(ctx context.Context, db *pgxpool.Pool, logger *zap.SugaredLogger, create string, migrations []string) ([]MigrationOutcome, error) {
	if _, err := db.Exec(ctx, create); err != nil {
		return nil, err
	}

	outcomes := make([]MigrationOutcome, 0, len(migrations))
	for _, m := range migrations {
		_, err := db.Exec(ctx, m)
		outcomes = append(outcomes, classifyMigration(err))
		if err != nil {
			logger.Debugw("Migration skipped", "stmt", m, "error", err)
		}
	}
	return outcomes, nil
}

// classifyMigration maps an ALTER error to an outcome. "already exists"
// style errors mean the schema is current; anything else is treated as
// an unsupported statement for this dialect.
func classifyMigration(err error) MigrationOutcome {
	if err == nil {
		return MigrationApplied
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate column") {
		return MigrationAlreadyApplied
	}
	return MigrationUnsupported
}

// encodeList serializes an evidence URL list for a JSON text column.
// A nil list encodes as [] so the column never holds NULL-ish garbage.
func encodeList(list []string) string {
	if list == nil {
		list = []string{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

// decodeList parses a JSON-encoded URL list defensively: corrupt data
// yields an empty list, never an error. The warning is the only trace a
// row was repaired.
func decodeList(raw string, logger *zap.SugaredLogger) []string {
	if raw == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		logger.Warnw("Corrupt evidence list replaced with empty", "raw", truncate(raw, 80), "error", err)
		return []string{}
	}
	if list == nil {
		return []string{}
	}
	return list
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
