package services

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestClassifyMigration(t *testing.T) {
	cases := []struct {
		err  error
		want MigrationOutcome
	}{
		{nil, MigrationApplied},
		{errors.New(`ERROR: column "status" of relation "ssoma_ats" already exists (SQLSTATE 42701)`), MigrationAlreadyApplied},
		{errors.New("Duplicate column name 'status'"), MigrationAlreadyApplied},
		{errors.New("syntax error at or near ALTER"), MigrationUnsupported},
	}
	for _, tc := range cases {
		if got := classifyMigration(tc.err); got != tc.want {
			t.Errorf("classifyMigration(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

// TestDecodeListRoundTrip: encode→decode is the identity for URL lists
// and corrupt input decodes to an empty list, never an error.
func TestDecodeListRoundTrip(t *testing.T) {
	logger := zap.NewNop().Sugar()

	lists := [][]string{
		nil,
		{},
		{"https://drive.google.com/uc?export=view&id=abc"},
		{"/uploads/SEGURIDAD/a.jpg", "/uploads/SEGURIDAD/b.jpg", "/uploads/SEGURIDAD/c.jpg"},
	}
	for _, list := range lists {
		got := decodeList(encodeList(list), logger)
		if len(got) != len(list) {
			t.Errorf("round trip of %v = %v", list, got)
			continue
		}
		for i := range list {
			if got[i] != list[i] {
				t.Errorf("round trip of %v = %v", list, got)
			}
		}
	}

	for _, garbage := range []string{"", "not json", `{"a":1}`, `[1,2,3]`, "null"} {
		got := decodeList(garbage, logger)
		if got == nil || len(got) != 0 {
			t.Errorf("decodeList(%q) = %v, want []", garbage, got)
		}
	}
}
