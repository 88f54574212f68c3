package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
)

// maxWarnings caps the per-row warnings retained on a Load so a badly
// corrupted file cannot balloon memory.
const maxWarnings = 25

// Load is the result of one dataset acquisition: the normalized records plus
// everything a consumer needs to judge their quality.
type Load struct {
	ID        uuid.UUID
	Name      string
	Kind      Kind
	Records   []PixelRecord
	Rows      int
	Dropped   int
	Warnings  []string
	Synthetic bool
}

// ValidRecords returns the records that passed the shape's sentinel check.
// Every derived view operates on this subset.
func (l *Load) ValidRecords() []PixelRecord {
	out := make([]PixelRecord, 0, len(l.Records))
	for _, r := range l.Records {
		if r.Valid {
			out = append(out, r)
		}
	}
	return out
}

func (l *Load) warn(format string, args ...any) {
	if len(l.Warnings) < maxWarnings {
		l.Warnings = append(l.Warnings, fmt.Sprintf(format, args...))
	} else if len(l.Warnings) == maxWarnings {
		l.Warnings = append(l.Warnings, "further warnings suppressed")
	}
}

// LoadOptions controls CSV ingestion.
type LoadOptions struct {
	// MaxRows limits rows processed; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, inferred from the file extension.
	Delimiter rune
	// YearMin/YearMax override the kind's declared year range when > 0.
	YearMin int
	YearMax int
	// Progress renders an ingest progress bar on stderr.
	Progress bool
	// Debug logs each dropped row to stderr.
	Debug bool
}

// DefaultLoadOptions returns reasonable defaults for interactive use.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{MaxRows: 200000}
}

// Acquire loads a dataset from path, falling back to a deterministic
// synthetic dataset when the source cannot be read (the fallback is flagged
// on the Load so consumers can distinguish it from real data). Per-row
// problems never fail the load; they are dropped and recorded as warnings.
func Acquire(path string, kind Kind, opt LoadOptions) *Load {
	l, err := LoadCSV(path, kind, opt)
	if err == nil {
		return l
	}
	l = Synthesize(kind, opt)
	l.Name = filepath.Base(path)
	l.warn("acquisition failed (%v); serving synthetic data", err)
	return l
}

// LoadCSV reads and normalizes one delimited pixel table.
func LoadCSV(path string, kind Kind, opt LoadOptions) (*Load, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.ReuseRecord = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(h))
	}

	load := &Load{ID: uuid.New(), Name: filepath.Base(path), Kind: kind}
	norm := NewNormalizer(kind, NewIndex())
	if opt.YearMin > 0 {
		norm.YearMin = opt.YearMin
	}
	if opt.YearMax > 0 {
		norm.YearMax = opt.YearMax
	}

	var bar *progressbar.ProgressBar
	if opt.Progress {
		bar = progressbar.Default(-1, "ingesting "+load.Name)
		defer bar.Finish()
	}

	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}

	// One record per (pixelId, year) pair; duplicates are a data-quality
	// problem and the first record wins.
	type pixelYear struct {
		id   int
		year int
	}
	seen := make(map[pixelYear]struct{})

	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", load.Rows+1, err)
		}
		load.Rows++
		if bar != nil {
			bar.Add(1)
		}
		if load.Rows > maxRows {
			load.warn("stopped after %d rows (max-rows)", maxRows)
			break
		}

		row := make(Row, len(cols))
		for i, name := range cols {
			if i >= len(rec) || name == "" {
				continue
			}
			v := strings.TrimSpace(rec[i])
			if v == "" {
				continue
			}
			if x, err := strconv.ParseFloat(v, 64); err == nil {
				row[name] = x
			}
		}

		recs, err := norm.Normalize(row)
		if err != nil {
			load.Dropped++
			load.warn("row %d dropped: %v", load.Rows, err)
			if opt.Debug {
				fmt.Fprintf(os.Stderr, "⚠ row %d dropped: %v\n", load.Rows, err)
			}
			continue
		}
		for _, pr := range recs {
			if pr.Year != 0 {
				key := pixelYear{id: pr.PixelID, year: pr.Year}
				if _, dup := seen[key]; dup {
					load.Dropped++
					load.warn("row %d dropped: duplicate observation for pixel %d year %d", load.Rows, pr.PixelID, pr.Year)
					continue
				}
				seen[key] = struct{}{}
			}
			load.Records = append(load.Records, pr)
		}
	}
	return load, nil
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt") {
		return '\t'
	}
	return ','
}
