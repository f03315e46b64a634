package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/models"
)

// StatsService stores the raw monthly accident counters, one Redis hash
// per year with one field per counter. The dashboard used to keep these
// in client-local storage; moving them server-side makes them shared
// across sessions while keeping the same contract: raw counters only,
// indices recomputed on every read.
type StatsService struct {
	rdb    *redis.Client
	logger *zap.SugaredLogger
}

// NewStatsService creates a new stats service
func NewStatsService(rdb *redis.Client, logger *zap.SugaredLogger) *StatsService {
	return &StatsService{rdb: rdb, logger: logger}
}

func statsKey(year int) string {
	return fmt.Sprintf("ssoma:stats:%d", year)
}

// Save persists the full counter set for a year.
func (s *StatsService) Save(ctx context.Context, year int, c *models.MonthlyCounters) error {
	fields := map[string]interface{}{
		"workers":              encodeCounter(c.Workers[:]),
		"workedHours":          encodeHours(c.WorkedHours[:]),
		"fatal":                encodeCounter(c.Fatal[:]),
		"temporary":            encodeCounter(c.Temporary[:]),
		"partialPermanent":     encodeCounter(c.PartialPermanent[:]),
		"totalPermanent":       encodeCounter(c.TotalPermanent[:]),
		"lostDays":             encodeCounter(c.LostDays[:]),
		"occupationalDiseases": encodeCounter(c.OccupationalDiseases[:]),
	}

	if err := s.rdb.HSet(ctx, statsKey(year), fields).Err(); err != nil {
		return fmt.Errorf("save counters: %w", err)
	}
	s.logger.Infow("Monthly counters saved", "year", year)
	return nil
}

// Load reads the counter set for a year. Missing or corrupt fields
// decode to zeroed counters rather than failing the read — the
// dashboard renders zeros for untracked months.
func (s *StatsService) Load(ctx context.Context, year int) (*models.MonthlyCounters, error) {
	raw, err := s.rdb.HGetAll(ctx, statsKey(year)).Result()
	if err != nil {
		return nil, fmt.Errorf("load counters: %w", err)
	}

	var c models.MonthlyCounters
	s.decodeCounter(raw["workers"], c.Workers[:], year, "workers")
	s.decodeHours(raw["workedHours"], c.WorkedHours[:], year, "workedHours")
	s.decodeCounter(raw["fatal"], c.Fatal[:], year, "fatal")
	s.decodeCounter(raw["temporary"], c.Temporary[:], year, "temporary")
	s.decodeCounter(raw["partialPermanent"], c.PartialPermanent[:], year, "partialPermanent")
	s.decodeCounter(raw["totalPermanent"], c.TotalPermanent[:], year, "totalPermanent")
	s.decodeCounter(raw["lostDays"], c.LostDays[:], year, "lostDays")
	s.decodeCounter(raw["occupationalDiseases"], c.OccupationalDiseases[:], year, "occupationalDiseases")
	return &c, nil
}

// Indices loads the counters for a year and derives the index set.
func (s *StatsService) Indices(ctx context.Context, year int) (models.MonthlyIndices, error) {
	counters, err := s.Load(ctx, year)
	if err != nil {
		return models.MonthlyIndices{}, err
	}
	return ComputeIndices(counters), nil
}

func encodeCounter(vals []int) string {
	raw, _ := json.Marshal(vals)
	return string(raw)
}

func encodeHours(vals []float64) string {
	raw, _ := json.Marshal(vals)
	return string(raw)
}

func (s *StatsService) decodeCounter(raw string, dst []int, year int, name string) {
	if raw == "" {
		return
	}
	var vals []int
	if err := json.Unmarshal([]byte(raw), &vals); err != nil {
		s.logger.Warnw("Corrupt counter field reset to zero", "year", year, "counter", name, "error", err)
		return
	}
	copy(dst, vals)
}

func (s *StatsService) decodeHours(raw string, dst []float64, year int, name string) {
	if raw == "" {
		return
	}
	var vals []float64
	if err := json.Unmarshal([]byte(raw), &vals); err != nil {
		s.logger.Warnw("Corrupt counter field reset to zero", "year", year, "counter", name, "error", err)
		return
	}
	copy(dst, vals)
}
