// Package models defines the data structures used across the application.
// These map to the PostgreSQL schema, one flat row type per record table.
package models

import (
	"encoding/json"
	"time"
)

// Activity is a generic SSOMA activity evidence record (charlas,
// simulacros, campañas and anything without a dedicated table).
type Activity struct {
	ID          string   `json:"id" db:"id"`
	Title       string   `json:"title" db:"title"`
	Type        string   `json:"type" db:"type"`
	Area        string   `json:"area" db:"area"`
	Date        string   `json:"date" db:"date"`
	Responsible string   `json:"responsible" db:"responsible"`
	Location    string   `json:"location" db:"location"`
	Description string   `json:"description,omitempty" db:"description"`
	Evidence    []string `json:"evidence" db:"evidence"`
}

// Inspection is a field inspection record.
type Inspection struct {
	ID        string   `json:"id" db:"id"`
	Date      string   `json:"date" db:"date"`
	Area      string   `json:"area" db:"area"`
	Location  string   `json:"location" db:"location"`
	Inspector string   `json:"inspector" db:"inspector"`
	Type      string   `json:"type" db:"type"`
	Findings  string   `json:"findings,omitempty" db:"findings"`
	Status    string   `json:"status" db:"status"`
	Evidence  []string `json:"evidence" db:"evidence"`
}

// Hhc is a training session record ("Horas Hombre Capacitación").
// TotalHours is derived client-side as participants × hours but stored
// as sent, matching the dashboard contract.
type Hhc struct {
	ID           string   `json:"id" db:"id"`
	Date         string   `json:"date" db:"date"`
	Topic        string   `json:"topic" db:"topic"`
	Trainer      string   `json:"trainer" db:"trainer"`
	Area         string   `json:"area" db:"area"`
	Participants int      `json:"participants" db:"participants"`
	Hours        float64  `json:"hours" db:"hours"`
	TotalHours   float64  `json:"totalHours" db:"total_hours"`
	Evidence     []string `json:"evidence" db:"evidence"`
}

// Ats is an ATS work-permit record.
type Ats struct {
	ID          string   `json:"id" db:"id"`
	Code        string   `json:"code" db:"code"`
	Date        string   `json:"date" db:"date"`
	Area        string   `json:"area" db:"area"`
	Location    string   `json:"location" db:"location"`
	Responsible string   `json:"responsible" db:"responsible"`
	Activity    string   `json:"activity" db:"activity"`
	Status      string   `json:"status" db:"status"`
	Evidence    []string `json:"evidence" db:"evidence"`
}

// Petar is a high-risk work-permit record (trabajos en altura, caliente,
// espacios confinados). Same lifecycle as ATS, separate table.
type Petar struct {
	ID          string   `json:"id" db:"id"`
	Code        string   `json:"code" db:"code"`
	Type        string   `json:"type" db:"type"`
	Date        string   `json:"date" db:"date"`
	Area        string   `json:"area" db:"area"`
	Location    string   `json:"location" db:"location"`
	Responsible string   `json:"responsible" db:"responsible"`
	Status      string   `json:"status" db:"status"`
	Evidence    []string `json:"evidence" db:"evidence"`
}

// Pma is an environmental-management-plan evidence record.
type Pma struct {
	ID          string   `json:"id" db:"id"`
	Category    string   `json:"category" db:"category"`
	Date        string   `json:"date" db:"date"`
	Location    string   `json:"location" db:"location"`
	Responsible string   `json:"responsible" db:"responsible"`
	Description string   `json:"description,omitempty" db:"description"`
	Evidence    []string `json:"evidence" db:"evidence"`
}

// MonthlyProgramEntry is one planned activity inside a month's SSOMA
// program. The whole month is replaced transactionally on save.
type MonthlyProgramEntry struct {
	ID          string `json:"id" db:"id"`
	Year        int    `json:"year" db:"year"`
	Month       int    `json:"month" db:"month"`
	Activity    string `json:"activity" db:"activity"`
	Area        string `json:"area" db:"area"`
	Responsible string `json:"responsible" db:"responsible"`
	Programmed  int    `json:"programmed" db:"programmed"`
	Executed    int    `json:"executed" db:"executed"`
	Date        string `json:"date" db:"date"`
}

// AnnualProgramEntry is one line of the annual SSOMA program.
type AnnualProgramEntry struct {
	ID          string `json:"id" db:"id"`
	Year        int    `json:"year" db:"year"`
	Objective   string `json:"objective" db:"objective"`
	Activity    string `json:"activity" db:"activity"`
	Responsible string `json:"responsible" db:"responsible"`
	Frequency   string `json:"frequency" db:"frequency"`
	Date        string `json:"date" db:"date"`
}

// User is a dashboard account. Passwords are stored as bcrypt hashes;
// the hash never leaves the server.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	Role         string    `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ActionRequest is the closed request envelope every record endpoint
// accepts. Exactly one of the action fields is meaningful per call; the
// legacy Records form is the old wipe-and-replace client contract, now
// treated as append-only sync.
type ActionRequest struct {
	Action  string            `json:"action"` // create | update | delete | bulk-create
	ID      string            `json:"id,omitempty"`
	Data    json.RawMessage   `json:"data,omitempty"`
	Records []json.RawMessage `json:"records,omitempty"`
}

// MonthlyCounters holds the raw twelve-slot accident counters for one
// year. Derived indices are never stored — they are recomputed from
// these on every read.
type MonthlyCounters struct {
	Workers              [12]int     `json:"workers"`
	WorkedHours          [12]float64 `json:"workedHours"`
	Fatal                [12]int     `json:"fatal"`
	Temporary            [12]int     `json:"temporary"`
	PartialPermanent     [12]int     `json:"partialPermanent"`
	TotalPermanent       [12]int     `json:"totalPermanent"`
	LostDays             [12]int     `json:"lostDays"`
	OccupationalDiseases [12]int     `json:"occupationalDiseases"`
}

// IndexValue is a computed statistical index for one period. Defined is
// false when the denominator for the period is zero; the value must then
// be ignored by consumers.
type IndexValue struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// MonthlyIndices are the derived accident indices for one year, one
// slot per month plus the annual figure computed from summed counters.
type MonthlyIndices struct {
	IncapacitatingAccidents [12]int        `json:"incapacitatingAccidents"`
	AccidentsWithLostDays   [12]int        `json:"accidentsWithLostDays"`
	Frequency               [12]IndexValue `json:"frequency"`
	Severity                [12]IndexValue `json:"severity"`
	Accidentability         [12]IndexValue `json:"accidentability"`
	DiseaseIncidence        [12]IndexValue `json:"diseaseIncidence"`
	Annual                  AnnualIndices  `json:"annual"`
}

// AnnualIndices are the year totals. Indices are recomputed from the
// summed counters, not averaged from the monthly indices.
type AnnualIndices struct {
	IncapacitatingAccidents int        `json:"incapacitatingAccidents"`
	AccidentsWithLostDays   int        `json:"accidentsWithLostDays"`
	WorkedHours             float64    `json:"workedHours"`
	LostDays                int        `json:"lostDays"`
	Frequency               IndexValue `json:"frequency"`
	Severity                IndexValue `json:"severity"`
	Accidentability         IndexValue `json:"accidentability"`
	DiseaseIncidence        IndexValue `json:"diseaseIncidence"`
}

// HealthStatus represents the server health check response
type HealthStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
}
