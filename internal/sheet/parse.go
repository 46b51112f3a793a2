package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	appLog "eventflow/internal/log"
	"eventflow/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV decodes a CSV document whose first line holds the column names.
//
//   - Every following line becomes one EventRecord, in source order.
//   - Short rows leave the missing columns absent; extra cells are dropped.
//   - When a header name repeats, the right-most column wins.
//   - An empty document or a header-only document yields an empty Agenda.
func ParseCSV(body []byte) (model.Agenda, error) {
	body = bytes.TrimPrefix(body, utf8BOM)
	if len(bytes.TrimSpace(body)) == 0 {
		return model.Agenda{}, nil
	}

	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	r.LazyQuotes = false

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return model.Agenda{}, nil
		}
		return nil, &ParseError{Format: FormatCSV, Err: err}
	}

	agenda := model.Agenda{}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Format: FormatCSV, Err: err}
		}
		agenda = append(agenda, mapRow(header, row))
	}
	return agenda, nil
}

// ParseXLSX decodes the first worksheet of an XLSX workbook using the same
// header rules as ParseCSV.
func ParseXLSX(body []byte) (model.Agenda, error) {
	if len(body) == 0 {
		return model.Agenda{}, nil
	}
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Format: FormatXLSX, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return model.Agenda{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Format: FormatXLSX, Err: err}
	}
	if len(rows) == 0 {
		return model.Agenda{}, nil
	}

	header := rows[0]
	agenda := make(model.Agenda, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		agenda = append(agenda, mapRow(header, row))
	}
	return agenda, nil
}

// Parse dispatches on format; FormatAuto sniffs the content type and the
// ZIP magic number used by XLSX files.
func Parse(format string, res FetchResult) (model.Agenda, error) {
	switch ResolveFormat(format, res) {
	case FormatCSV:
		return ParseCSV(res.Body)
	case FormatXLSX:
		return ParseXLSX(res.Body)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ResolveFormat decides which parser applies to a fetch result.
func ResolveFormat(format string, res FetchResult) string {
	switch strings.ToLower(format) {
	case FormatCSV:
		return FormatCSV
	case FormatXLSX:
		return FormatXLSX
	case "", FormatAuto:
	default:
		return format
	}

	if strings.HasPrefix(res.ContentType, xlsxContentType) {
		return FormatXLSX
	}
	u := strings.ToLower(res.Source.URL)
	if strings.Contains(u, "output=xlsx") || strings.HasSuffix(u, ".xlsx") {
		return FormatXLSX
	}
	if bytes.HasPrefix(res.Body, []byte("PK\x03\x04")) {
		return FormatXLSX
	}
	return FormatCSV
}

// Load fetches src and parses it into an Agenda.
func Load(ctx context.Context, f *Fetcher, src Source) (model.Agenda, error) {
	res, err := f.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	agenda, err := Parse(src.Format, res)
	if err != nil {
		appLog.Error("sheet parse failed", err, "id", src.ID, "url", redactURL(src.URL))
		return nil, err
	}
	appLog.Info("sheet parse completed", "id", src.ID, "rows", len(agenda), "from_cache", res.FromCache)
	return agenda, nil
}

func mapRow(header, row []string) model.EventRecord {
	rec := make(model.EventRecord, len(header))
	for i, key := range header {
		if i >= len(row) {
			break
		}
		rec[key] = row[i]
	}
	return rec
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
