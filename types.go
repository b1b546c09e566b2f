package csvlate

import "fmt"

// Reserved identifier columns that are never translated.
const (
	KeyColumn = "Key"
	IDColumn  = "Id"
)

// DefaultSourceColumn is the header holding the source-language text.
const DefaultSourceColumn = "English(en)"

// SourceLang is the fixed source language sent to the translation service.
const SourceLang = "EN"

// Row maps a column header to its cell value. A missing key is an absent cell.
type Row map[string]string

// Get returns the cell value and whether the cell is present.
func (r Row) Get(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// Table is one loaded localization file.
type Table struct {
	Headers []string // Column order, preserved on output
	Rows    []Row
}

// TargetColumn is a header recognized as a translation target.
type TargetColumn struct {
	Header string // CSV header, e.g. "German(de)"
	Lang   string // Service language code, e.g. "DE"
}

// Schema describes which columns of a table are translated.
type Schema struct {
	Source  string
	Targets []TargetColumn // Detection (header) order
}

// Stats holds per-file translation counters.
type Stats struct {
	Rows                 int `json:"rows"`
	TranslatedCells      int `json:"translated_cells"`
	SkippedExisting      int `json:"skipped_existing"`
	SkippedSourceInvalid int `json:"skipped_source_invalid"`
	Errors               int `json:"errors"`
}

// Add folds other into s.
func (s *Stats) Add(other Stats) {
	s.Rows += other.Rows
	s.TranslatedCells += other.TranslatedCells
	s.SkippedExisting += other.SkippedExisting
	s.SkippedSourceInvalid += other.SkippedSourceInvalid
	s.Errors += other.Errors
}

// Summary holds run-level counters across all processed files.
type Summary struct {
	Files int `json:"files"`
	Stats
}

// Logger receives human-readable progress lines. A nil Logger discards them.
type Logger func(line string)

func (l Logger) log(format string, args ...any) {
	if l == nil {
		return
	}
	if len(args) == 0 {
		l(format)
		return
	}
	l(fmt.Sprintf(format, args...))
}
