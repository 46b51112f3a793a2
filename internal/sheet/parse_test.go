package sheet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"eventflow/internal/model"
)

func TestParseCSVScenario(t *testing.T) {
	body := []byte("Nome do evento,Data do evento\nShow X,2025-10-01\nShow Y,2025-10-02")

	agenda, err := ParseCSV(body)
	require.NoError(t, err)
	assert.Equal(t, model.Agenda{
		{"Nome do evento": "Show X", "Data do evento": "2025-10-01"},
		{"Nome do evento": "Show Y", "Data do evento": "2025-10-02"},
	}, agenda)
}

func TestParseCSVEmptyInputs(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"whitespace only", " \n\n"},
		{"header only", "Nome do evento,Data do evento\n"},
		{"header only without newline", "Nome do evento,Data do evento"},
		{"bom and header", "\xEF\xBB\xBFnome,data\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agenda, err := ParseCSV([]byte(tt.body))
			require.NoError(t, err)
			assert.NotNil(t, agenda)
			assert.Empty(t, agenda)
		})
	}
}

func TestParseCSVRaggedRows(t *testing.T) {
	body := []byte("nome,data,link\nCurto,2025-01-01\nLongo,2025-01-02,https://x.test,extra\n")

	agenda, err := ParseCSV(body)
	require.NoError(t, err)
	require.Len(t, agenda, 2)

	assert.Equal(t, model.EventRecord{"nome": "Curto", "data": "2025-01-01"}, agenda[0])
	assert.Equal(t, "", agenda[0].Get("link"))
	assert.Equal(t, model.EventRecord{"nome": "Longo", "data": "2025-01-02", "link": "https://x.test"}, agenda[1])
}

func TestParseCSVDuplicateHeaderLastWins(t *testing.T) {
	agenda, err := ParseCSV([]byte("nome,nome\nprimeiro,segundo\n"))
	require.NoError(t, err)
	require.Len(t, agenda, 1)
	assert.Equal(t, "segundo", agenda[0]["nome"])
}

func TestParseCSVQuotedFields(t *testing.T) {
	body := []byte("nome,descrição\n\"Show, com vírgula\",\"linha 1\nlinha 2\"\n")
	agenda, err := ParseCSV(body)
	require.NoError(t, err)
	require.Len(t, agenda, 1)
	assert.Equal(t, "Show, com vírgula", agenda[0]["nome"])
	assert.Equal(t, "linha 1\nlinha 2", agenda[0]["descrição"])
}

func TestParseCSVMalformed(t *testing.T) {
	_, err := ParseCSV([]byte("nome,data\n\"aberto,2025\n"))
	require.Error(t, err)

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, FormatCSV, perr.Format)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheetName, "A1", "Nome do evento"))
	require.NoError(t, f.SetCellValue(sheetName, "B1", "Data do evento"))
	require.NoError(t, f.SetCellValue(sheetName, "A2", "Show X"))
	require.NoError(t, f.SetCellValue(sheetName, "B2", "2025-10-01"))
	require.NoError(t, f.SetCellValue(sheetName, "A4", "Show Y"))
	require.NoError(t, f.SetCellValue(sheetName, "B4", "2025-10-02"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	agenda, err := ParseXLSX(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, agenda, 2, "blank row 3 is skipped")
	assert.Equal(t, "Show X", agenda[0]["Nome do evento"])
	assert.Equal(t, "2025-10-02", agenda[1]["Data do evento"])
}

func TestParseXLSXGarbage(t *testing.T) {
	_, err := ParseXLSX([]byte("definitely not a zip"))
	require.Error(t, err)
}

func TestResolveFormat(t *testing.T) {
	assert.Equal(t, FormatCSV, ResolveFormat("csv", FetchResult{Body: []byte("PK\x03\x04")}))
	assert.Equal(t, FormatXLSX, ResolveFormat("auto", FetchResult{ContentType: xlsxContentType}))
	assert.Equal(t, FormatXLSX, ResolveFormat("", FetchResult{Source: Source{URL: "https://docs.google.com/x/pub?output=xlsx"}}))
	assert.Equal(t, FormatXLSX, ResolveFormat("auto", FetchResult{Body: []byte("PK\x03\x04rest")}))
	assert.Equal(t, FormatCSV, ResolveFormat("auto", FetchResult{Body: []byte("a,b\n")}))

	_, err := Parse("ods", FetchResult{Body: []byte("a,b\n")})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
