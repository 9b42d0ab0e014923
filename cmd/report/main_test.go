package main

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description\n"

func writeData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"netflix_titles.csv":      csvHeader + "s1,Movie,Cidade de Deus,,,Brazil,,2002,,,Dramas,\n",
		"disney_plus_titles.csv":  csvHeader + "s1,TV Show,Loki,,,United States,,2021,,,Action-Adventure,\n",
		"amazon_prime_titles.csv": csvHeader + "s1,Movie,Orphan Black,,,Canada,,2013,,,Science Fiction,\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func configArgs(dir string) []string {
	return []string{
		"--",
		"-data-dir", dir,
		"-genre-map", "builtin",
		"-stylesheet", "builtin",
		"-env-file", filepath.Join(dir, "missing.env"),
		"-log-level", "error",
	}
}

func TestRun_Tables(t *testing.T) {
	dir := writeData(t)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), configArgs(dir), &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "3 títulos selecionados")
	assert.Contains(t, out, "Brazil")
}

func TestRun_JSONWithSelection(t *testing.T) {
	dir := writeData(t)
	var stdout, stderr bytes.Buffer

	args := append([]string{"-platform", "Netflix", "-format", "json"}, configArgs(dir)...)
	require.NoError(t, run(context.Background(), args, &stdout, &stderr), stderr.String())

	var out struct {
		Selection struct {
			Platforms []string `json:"platforms"`
		} `json:"selection"`
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, 1, out.Summary.Total)
	assert.Equal(t, []string{"Netflix"}, out.Selection.Platforms)
}

func TestRun_EmptySelection(t *testing.T) {
	dir := writeData(t)
	var stdout, stderr bytes.Buffer

	args := append([]string{"-type", ""}, configArgs(dir)...)
	require.NoError(t, run(context.Background(), args, &stdout, &stderr), stderr.String())
	assert.Contains(t, stdout.String(), "0 títulos selecionados")
}

func TestRun_Errors(t *testing.T) {
	dir := writeData(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", append([]string{"-format", "xml"}, configArgs(dir)...)},
		{"unknown platform", append([]string{"-platform", "Hulu"}, configArgs(dir)...)},
		{"missing sources", configArgs(t.TempDir())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Error(t, run(context.Background(), tt.args, &stdout, &stderr))
		})
	}
}
