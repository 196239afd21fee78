package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IvanShishkin/logwatch/internal/config"
	"github.com/IvanShishkin/logwatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrompter(input string) (*prompter, *bytes.Buffer) {
	var errOut bytes.Buffer
	return newPrompter(strings.NewReader(input), &bytes.Buffer{}, &errOut), &errOut
}

func TestChooseDirectory_Default(t *testing.T) {
	for _, input := range []string{"\n", "1\n", "1"} {
		p, _ := newTestPrompter(input)
		dir, err := p.chooseDirectory()
		require.NoError(t, err)
		assert.Equal(t, config.DefaultPath, dir)
	}
}

func TestChooseDirectory_Custom(t *testing.T) {
	dir := t.TempDir()
	p, errOut := newTestPrompter("2\n" + dir + "\n")

	got, err := p.chooseDirectory()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.Empty(t, errOut.String())
}

func TestChooseDirectory_RetriesThenSucceeds(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	input := strings.Join([]string{
		"9",
		"2", filepath.Join(dir, "missing"),
		"2", dir,
	}, "\n") + "\n"
	p, errOut := newTestPrompter(input)

	got, err := p.chooseDirectory()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.Contains(t, errOut.String(), "Please enter 1 or 2")
	assert.Contains(t, errOut.String(), "Directory does not exist")
}

func TestChooseDirectory_AttemptsExhausted(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	p, errOut := newTestPrompter("x\n2\n" + file + "\ny\n1\n")

	_, err := p.chooseDirectory()
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput), "error = %v", err)
	assert.Contains(t, errOut.String(), "Path is not a directory")
}

func TestChooseDirectory_EOF(t *testing.T) {
	p, _ := newTestPrompter("")

	_, err := p.chooseDirectory()
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
		wantErr  bool
	}{
		{"Empty means yes", "\n", true, false},
		{"Yes", "y\n", true, false},
		{"Yes uppercase", "YES\n", true, false},
		{"No", "n\n", false, false},
		{"Retry then no", "maybe\nno\n", false, false},
		{"Last line without newline", "y", true, false},
		{"Attempts exhausted", "a\nb\nc\ny\n", false, true},
		{"Closed input", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPrompter(tt.input)
			got, err := p.confirm("Proceed with scanning?")
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCheckDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.NoError(t, checkDirectory(dir))
	assert.ErrorIs(t, checkDirectory(filepath.Join(dir, "missing")), models.ErrNotFound)
	assert.ErrorIs(t, checkDirectory(file), models.ErrInvalidInput)
	assert.ErrorIs(t, checkDirectory(""), models.ErrInvalidInput)
}
