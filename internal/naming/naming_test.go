package naming

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// TestFileNameScenario checks a canonical inspection upload end to end.
func TestFileNameScenario(t *testing.T) {
	name := FileName("inspeccion", "2026-02-16", "Jose Luis Cancino", "jpg",
		"Inspección de extintores", "Peaje Hawuay", "seguridad")

	if !strings.HasPrefix(name, "Seg.INSP_") {
		t.Errorf("name = %q, want Seg.INSP_ prefix", name)
	}
	if !strings.Contains(name, "_2026-02-16_JLC") {
		t.Errorf("name = %q, want date and initials segment", name)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("name = %q, want .jpg extension", name)
	}
}

func TestObjectiveFolderScenario(t *testing.T) {
	got := ObjectiveFolder("seguridad", "2026-02-16", "inspeccion", "Peaje Hawuay")
	want := "SEGURIDAD/FEBRERO/INSPECCIONES/PEAJE_HAWUAY"
	if got != want {
		t.Errorf("ObjectiveFolder = %q, want %q", got, want)
	}
}

// TestDeterminism: two calls with identical inputs must produce
// identical strings.
func TestDeterminism(t *testing.T) {
	a := FileName("capacitacion", "2026-03-01", "María Pérez", "pdf", "Uso de EPP", "Km 42", "salud")
	b := FileName("capacitacion", "2026-03-01", "María Pérez", "pdf", "Uso de EPP", "Km 42", "salud")
	if a != b {
		t.Errorf("file name not deterministic: %q vs %q", a, b)
	}

	fa := PmaFolder("residuos", "2026-03-01", "Km 42")
	fb := PmaFolder("residuos", "2026-03-01", "Km 42")
	if fa != fb {
		t.Errorf("folder not deterministic: %q vs %q", fa, fb)
	}
}

// TestFileNameCharset: produced names stay inside [A-Za-z0-9_.\-].
func TestFileNameCharset(t *testing.T) {
	inputs := []struct {
		docType, date, resp, ext, title, location, area string
	}{
		{"inspeccion", "2026-02-16", "Jose Luis Cancino", "jpg", "Extintores (zona 3) ¡urgente!", "Peaje Hawuay", "seguridad"},
		{"charla", "2026-07-01", "Ñusta Quispe", "png", "Señalización vial", "Túnel #2", "medio_ambiente"},
		{"señalizacion", "2026-02-16", "Ángel Paredes", "jpg", "t", "l", "seguridad"},
		{"ñaña", "2026-02-16", "Jose Luis Cancino", "jpg", "t", "l", "seguridad"},
		{"observacion", "2026-02-16", "Ángel Paredes", "jpg", "t", "l", "seguridad"},
		{"otro tipo", "", "", "pdf", "", "", ""},
	}
	for _, in := range inputs {
		name := FileName(in.docType, in.date, in.resp, in.ext, in.title, in.location, in.area)
		if !utf8.ValidString(name) {
			t.Errorf("FileName(%+v) = %q is not valid UTF-8", in, name)
		}
		for _, r := range name {
			ok := r == '_' || r == '.' || r == '-' ||
				(r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
			if !ok {
				t.Errorf("FileName(%+v) = %q contains %q", in, name, r)
			}
		}
		if strings.Contains(name, "__") {
			t.Errorf("FileName(%+v) = %q has a stray delimiter", in, name)
		}
	}
}

func TestInitials(t *testing.T) {
	cases := map[string]string{
		"Jose Luis Cancino": "JLC",
		"maria perez":       "MP",
		"Ana":               "A",
		"Ángel Paredes":     "AP",
		"Ñusta Quispe":      "NQ",
		"":                  "",
	}
	for in, want := range cases {
		if got := Initials(in); got != want {
			t.Errorf("Initials(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTypeCodeFallback(t *testing.T) {
	cases := map[string]string{
		"observacion":  "OBSE",
		"petar":        "PETAR",
		"señalizacion": "SENA", // accent folded, not leaked
		"ñaña":         "NANA", // rune-aware, never cut mid-rune
	}
	for in, want := range cases {
		got := TypeCode(in)
		if got != want {
			t.Errorf("TypeCode(%q) = %q, want %q", in, got, want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("TypeCode(%q) = %q is not valid UTF-8", in, got)
		}
	}
}

func TestAreaPrefixUnknown(t *testing.T) {
	if got := AreaPrefix("logistica"); got != "" {
		t.Errorf("AreaPrefix(logistica) = %q, want empty", got)
	}
}

func TestMonthNameFallback(t *testing.T) {
	if got := MonthName("not-a-date"); got != "General" {
		t.Errorf("MonthName(not-a-date) = %q, want General", got)
	}
	if got := MonthName("2026-12-31"); got != "DICIEMBRE" {
		t.Errorf("MonthName = %q, want DICIEMBRE", got)
	}
}

func TestSanitizeTruncation(t *testing.T) {
	long := strings.Repeat("Inspeccion general ", 5)
	got := Sanitize(long, 30)
	if len(got) > 30 {
		t.Errorf("Sanitize length = %d, want <= 30", len(got))
	}
	if strings.HasSuffix(got, "_") {
		t.Errorf("Sanitize = %q ends with underscore", got)
	}
}

// TestLegacyFolderFallbacks: the legacy path substitutes labels for
// missing segments instead of dropping them.
func TestLegacyFolderFallbacks(t *testing.T) {
	got := LegacyFolder("", "bad-date", "inspeccion", "")
	want := "GENERAL/General/INSPECCIONES/SIN_UBICACION"
	if got != want {
		t.Errorf("LegacyFolder = %q, want %q", got, want)
	}
}

func TestPmaFolderOrdering(t *testing.T) {
	got := PmaFolder("Manejo de Residuos", "2026-05-10", "Campamento Norte")
	want := "MANEJO_DE_RESIDUOS/MAYO/CAMPAMENTO_NORTE"
	if got != want {
		t.Errorf("PmaFolder = %q, want %q", got, want)
	}
}
