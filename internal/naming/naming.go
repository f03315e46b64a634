// Package naming builds the deterministic folder paths and file names
// used by the evidence storage tree. Everything here is pure: identical
// inputs always produce identical outputs, so re-uploads of the same
// logical document land in the same folder. Consumers of the storage
// tree depend on this layout remaining stable.
package naming

import (
	"fmt"
	"strings"
	"time"
)

const (
	maxTitleLen    = 30
	maxLocationLen = 15
)

// areaPrefixes maps an area key to the short prefix that opens every
// file name. Unknown areas get no prefix.
var areaPrefixes = map[string]string{
	"seguridad":      "Seg.",
	"salud":          "Sal.",
	"medio_ambiente": "MA.",
}

// typeCodes maps a document type to its abbreviation. Unknown types
// fall back to the first four characters, upper-cased.
var typeCodes = map[string]string{
	"capacitacion": "CAP",
	"inspeccion":   "INSP",
	"charla":       "CHA",
	"simulacro":    "SIM",
	"ats":          "ATS",
	"petar":        "PETAR",
	"pma":          "PMA",
	"monitoreo":    "MON",
}

// typeFolders maps a document type to its folder segment.
var typeFolders = map[string]string{
	"capacitacion": "CAPACITACIONES",
	"inspeccion":   "INSPECCIONES",
	"charla":       "CHARLAS",
	"simulacro":    "SIMULACROS",
	"ats":          "ATS",
	"petar":        "PETAR",
	"monitoreo":    "MONITOREOS",
}

// months are the Spanish month names, upper-cased as they appear in the
// folder tree.
var months = [12]string{
	"ENERO", "FEBRERO", "MARZO", "ABRIL", "MAYO", "JUNIO",
	"JULIO", "AGOSTO", "SEPTIEMBRE", "OCTUBRE", "NOVIEMBRE", "DICIEMBRE",
}

// AreaPrefix returns the file-name prefix for an area, or "" when the
// area is not in the fixed table.
func AreaPrefix(area string) string {
	return areaPrefixes[normalizeKey(area)]
}

// TypeCode returns the abbreviation for a document type. Unknown types
// yield their first four characters, accent-folded and upper-cased. The
// fallback goes through Sanitize and slices runes, not bytes, so an
// accented type can neither leak a non-ASCII character into the file
// name nor be cut mid-rune.
func TypeCode(docType string) string {
	key := normalizeKey(docType)
	if code, ok := typeCodes[key]; ok {
		return code
	}
	runes := []rune(Sanitize(key, 0))
	if len(runes) > 4 {
		runes = runes[:4]
	}
	return strings.ToUpper(string(runes))
}

// TypeFolder returns the folder segment for a document type. Unknown
// types land in a generic DOCUMENTOS folder.
func TypeFolder(docType string) string {
	if folder, ok := typeFolders[normalizeKey(docType)]; ok {
		return folder
	}
	return "DOCUMENTOS"
}

// Initials condenses a responsible person's name into upper-case
// initials: one character per whitespace-separated token, no separator.
// Accented first letters fold to their ASCII base; anything outside the
// file-name charset is dropped.
func Initials(name string) string {
	var b strings.Builder
	for _, token := range strings.Fields(name) {
		for _, r := range token {
			b.WriteRune(r)
			break
		}
	}
	return strings.ToUpper(Sanitize(b.String(), 0))
}

// MonthName returns the Spanish upper-case month for an ISO date, or
// "General" when the date does not parse. The General bucket keeps
// undated documents out of the month folders instead of failing the
// upload.
func MonthName(isoDate string) string {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return "General"
	}
	return months[t.Month()-1]
}

// Sanitize strips everything outside letters, digits and accented
// vowels, collapses whitespace runs to single underscores and truncates
// to max characters. max <= 0 disables truncation.
func Sanitize(s string, max int) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case isAccented(r):
			b.WriteRune(foldAccent(r))
			lastUnderscore = false
		case r == ' ' || r == '\t' || r == '-' || r == '_':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.TrimRight(b.String(), "_")
	if max > 0 && len(out) > max {
		out = strings.TrimRight(out[:max], "_")
	}
	return out
}

// FileName assembles the canonical evidence file name:
//
//	{areaPrefix}{typeCode}_{title}_{location}_{date}_{initials}.{ext}
//
// Empty optional segments are dropped rather than leaving a stray
// underscore. The date is embedded verbatim so the name stays sortable.
func FileName(docType, isoDate, responsible, ext, title, location, area string) string {
	parts := make([]string, 0, 4)

	head := AreaPrefix(area) + TypeCode(docType)
	if head != "" {
		parts = append(parts, head)
	}
	if t := Sanitize(title, maxTitleLen); t != "" {
		parts = append(parts, t)
	}
	if l := Sanitize(location, maxLocationLen); l != "" {
		parts = append(parts, l)
	}
	if isoDate != "" {
		parts = append(parts, isoDate)
	}
	if ini := Initials(responsible); ini != "" {
		parts = append(parts, ini)
	}

	name := strings.Join(parts, "_")
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return name
	}
	return fmt.Sprintf("%s.%s", name, ext)
}

// ObjectiveFolder builds the folder path for generic objective uploads:
//
//	AREA/MONTH/TYPEFOLDER/LOCATION
//
// Segments with no value are dropped.
func ObjectiveFolder(area, isoDate, docType, location string) string {
	segments := make([]string, 0, 4)
	if a := Sanitize(area, 0); a != "" {
		segments = append(segments, strings.ToUpper(a))
	}
	segments = append(segments, MonthName(isoDate))
	segments = append(segments, TypeFolder(docType))
	if l := Sanitize(location, 0); l != "" {
		segments = append(segments, strings.ToUpper(l))
	}
	return strings.Join(segments, "/")
}

// LegacyFolder builds the folder path used by the inspection/legacy
// upload path. It orders the month before the type folder like
// ObjectiveFolder but substitutes SIN_UBICACION for a missing location
// instead of dropping the segment. The divergence from ObjectiveFolder
// is deliberate: existing trees were written with both layouts and
// unifying them would orphan old folders.
func LegacyFolder(area, isoDate, docType, location string) string {
	a := strings.ToUpper(Sanitize(area, 0))
	if a == "" {
		a = "GENERAL"
	}
	l := strings.ToUpper(Sanitize(location, 0))
	if l == "" {
		l = "SIN_UBICACION"
	}
	return strings.Join([]string{a, MonthName(isoDate), TypeFolder(docType), l}, "/")
}

// PmaFolder builds the folder path for environmental (PMA) evidence:
//
//	CATEGORY/MONTH/LOCATION
func PmaFolder(category, isoDate, location string) string {
	segments := make([]string, 0, 3)
	if c := Sanitize(category, 0); c != "" {
		segments = append(segments, strings.ToUpper(c))
	}
	segments = append(segments, MonthName(isoDate))
	if l := Sanitize(location, 0); l != "" {
		segments = append(segments, strings.ToUpper(l))
	}
	return strings.Join(segments, "/")
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isAccented(r rune) bool {
	switch r {
	case 'á', 'é', 'í', 'ó', 'ú', 'Á', 'É', 'Í', 'Ó', 'Ú', 'ñ', 'Ñ', 'ü', 'Ü':
		return true
	}
	return false
}

func foldAccent(r rune) rune {
	switch r {
	case 'á':
		return 'a'
	case 'é':
		return 'e'
	case 'í':
		return 'i'
	case 'ó':
		return 'o'
	case 'ú', 'ü':
		return 'u'
	case 'Á':
		return 'A'
	case 'É':
		return 'E'
	case 'Í':
		return 'I'
	case 'Ó':
		return 'O'
	case 'Ú', 'Ü':
		return 'U'
	case 'ñ':
		return 'n'
	case 'Ñ':
		return 'N'
	}
	return r
}
