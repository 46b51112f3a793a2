package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const agendaCSV = "Nome do Evento,Data,Horário,Link\n" +
	"Show X,01/10/2025,20h,https://tickets.example/x\n" +
	"Show Y,02/10/2025,,https://tickets.example/y\n"

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	base := []string{
		"--config", filepath.Join(dir, "eventflow.yaml"),
		"--env-file", filepath.Join(dir, "missing.env"),
	}

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, base...))
	err := root.Execute()
	return out.String(), err
}

func writeSheet(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agenda.csv")
	require.NoError(t, os.WriteFile(path, []byte(agendaCSV), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "eventflow "+version+"\n", out)
}

func TestFetchPrintsRows(t *testing.T) {
	out, err := runCLI(t, "fetch", "--sheet-url", writeSheet(t))
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Show X", rows[0]["Nome do Evento"])
	assert.Equal(t, "", rows[1]["Horário"])
}

func TestFetchPrintsCards(t *testing.T) {
	out, err := runCLI(t, "fetch", "--cards", "--sheet-url", writeSheet(t))
	require.NoError(t, err)

	var cards []struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &cards))
	require.Len(t, cards, 2)
	assert.Equal(t, "Show Y", cards[1].Name)
	assert.Equal(t, "/static/img/placeholder.svg", cards[1].Image)
}

func TestFetchFailsWithoutURL(t *testing.T) {
	t.Setenv("EVENTFLOW_SHEET_URL", "")
	t.Setenv("VITE_GOOGLE_SHEET_URL", "")
	_, err := runCLI(t, "fetch")
	assert.Error(t, err)
}

func TestExportWritesCalendar(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "agenda.ics")
	_, err := runCLI(t, "export", "--sheet-url", writeSheet(t), "-o", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	body := string(data)
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
}

func TestServeRejectsBadSchedule(t *testing.T) {
	_, err := runCLI(t, "serve", "--listen", "127.0.0.1:0", "--refresh", "not a schedule", "--sheet-url", writeSheet(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid refresh schedule")
}

func TestConfigFileCreatedOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "eventflow.yaml")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"fetch", "--config", cfgPath, "--env-file", "", "--sheet-url", writeSheet(t)})
	require.NoError(t, root.Execute())
	assert.FileExists(t, cfgPath)
}
