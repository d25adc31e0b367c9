package usage

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"go.trai.ch/unitstat/internal/core/domain"
	"go.trai.ch/zerr"
)

// CSVHeader is the first line of every exported document.
const CSVHeader = "qualifiedName,loadCount"

const csvFields = 2

// ToCSV returns the header followed by one line per record of the current snapshot.
// A scan error is returned alongside the lines, as with Snapshot.
func (s *Statistics) ToCSV(ctx context.Context) ([]string, error) {
	records, err := s.Snapshot(ctx)
	if records == nil && err != nil {
		return nil, err
	}
	return append([]string{CSVHeader}, EncodeCSV(records)...), err
}

// EncodeCSV formats records as data lines without the header.
func EncodeCSV(records []domain.UnitRecord) []string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = FormatCSVLine(r)
	}
	return lines
}

// FormatCSVLine formats one record. Names containing a comma, a double quote or a line break
// are wrapped in double quotes with inner quotes doubled.
func FormatCSVLine(r domain.UnitRecord) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	// Writing to a strings.Builder cannot fail.
	_ = w.Write([]string{r.Name, strconv.FormatUint(r.LoadCount, 10)})
	w.Flush()
	return strings.TrimSuffix(b.String(), "\n")
}

// ParseCSVLine is the inverse of FormatCSVLine.
// It fails with domain.ErrMalformedRecord on a wrong field count, an empty name or a count
// that is not an unsigned decimal integer.
func ParseCSVLine(line string) (domain.UnitRecord, error) {
	r := newReader(strings.NewReader(line))

	fields, err := r.Read()
	if err != nil {
		return domain.UnitRecord{}, malformed(line, err)
	}
	if _, err := r.Read(); !errors.Is(err, io.EOF) {
		return domain.UnitRecord{}, malformed(line, errors.New("more than one record"))
	}

	return parseFields(line, fields)
}

// ParseCSV reads a whole document. The header line is optional.
// Malformed lines are skipped and reported together in the returned error, so callers can
// choose between aborting and keeping the records that did parse.
func ParseCSV(in io.Reader) ([]domain.UnitRecord, error) {
	r := newReader(in)

	var (
		records []domain.UnitRecord
		errs    error
		first   = true
	)
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return records, zerr.Wrap(err, "failed to read CSV document")
			}
			errs = errors.Join(errs, zerr.With(domain.Cause(domain.ErrMalformedRecord, err), "line", parseErr.Line))
			continue
		}

		if first {
			first = false
			if len(fields) == csvFields && fields[0] == "qualifiedName" && fields[1] == "loadCount" {
				continue
			}
		}

		line, _ := r.FieldPos(0)
		rec, err := parseFields(strings.Join(fields, ","), fields)
		if err != nil {
			errs = errors.Join(errs, zerr.With(err, "line", line))
			continue
		}
		records = append(records, rec)
	}

	return records, errs
}

func newReader(in io.Reader) *csv.Reader {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	return r
}

func parseFields(line string, fields []string) (domain.UnitRecord, error) {
	if len(fields) != csvFields {
		return domain.UnitRecord{}, zerr.With(malformed(line, nil), "fields", len(fields))
	}
	if fields[0] == "" {
		return domain.UnitRecord{}, malformed(line, errors.New("empty qualified name"))
	}
	count, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return domain.UnitRecord{}, malformed(line, err)
	}
	return domain.UnitRecord{Name: fields[0], LoadCount: count}, nil
}

func malformed(line string, cause error) error {
	return zerr.With(domain.Cause(domain.ErrMalformedRecord, cause), "record", line)
}
