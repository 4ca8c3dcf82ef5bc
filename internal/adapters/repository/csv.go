package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/rolematch/internal/domain/model"
)

// CSVSource reads postings from a CSV file with a header row.
//
// When the header has combined_features and target_role those columns are
// used as is. Otherwise combined_features is derived from skills,
// current_role, course_university and language_proficiency. Header names
// match case-insensitively.
type CSVSource struct {
	path  string
	comma rune
}

var _ Source = (*CSVSource)(nil)

// NewCSVSource creates a source for the file at path.
func NewCSVSource(path string, opts ...CSVOption) *CSVSource {
	s := &CSVSource{path: path, comma: ','}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load opens and parses the file.
func (s *CSVSource) Load(ctx context.Context) ([]model.JobPosting, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", s.path, err)
	}
	defer f.Close()

	postings, err := ReadCSV(ctx, f, s.comma)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	return postings, nil
}

// Close is a no-op; the file is closed after each Load.
func (s *CSVSource) Close() error { return nil }

// ReadCSV parses postings from r.
func ReadCSV(ctx context.Context, r io.Reader, comma rune) ([]model.JobPosting, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	build, err := rowBuilder(indexColumns(header))
	if err != nil {
		return nil, err
	}

	var out []model.JobPosting
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, build(rec))
	}
}

func indexColumns(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx
}

// rowBuilder picks the column layout once from the header.
func rowBuilder(idx map[string]int) (func([]string) model.JobPosting, error) {
	target, ok := idx[ColTargetRole]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColTargetRole)
	}
	if combined, ok := idx[ColCombinedFeatures]; ok {
		return func(rec []string) model.JobPosting {
			return model.JobPosting{
				CombinedFeatures: field(rec, combined),
				TargetRole:       strings.TrimSpace(field(rec, target)),
			}
		}, nil
	}

	cols := []string{ColSkills, ColCurrentRole, ColCourseUniversity, ColLanguageProficiency}
	pos := make([]int, len(cols))
	for i, c := range cols {
		p, ok := idx[c]
		if !ok {
			return nil, fmt.Errorf("%w: %s (or %s)", ErrMissingColumn, c, ColCombinedFeatures)
		}
		pos[i] = p
	}
	return func(rec []string) model.JobPosting {
		return model.NewJobPosting(
			field(rec, pos[0]), field(rec, pos[1]), field(rec, pos[2]), field(rec, pos[3]),
			strings.TrimSpace(field(rec, target)),
		)
	}, nil
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
