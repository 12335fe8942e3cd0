package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStatement(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestScanCmd_Offline(t *testing.T) {
	path := writeStatement(t, "jan.txt", "3rd Jan\nNETFLIX.COM\nSUBSCRIPTION 15.99\n3rd Jan Virgin Active Membership DD 92.00\n")

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"scan", "--offline", path})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "jan.txt:")
	assert.Contains(t, out.String(), "Netflix")
	assert.Contains(t, out.String(), "15.99")
	assert.Contains(t, out.String(), "Virgin Active Membership")
}

func TestScanCmd_OutputFile(t *testing.T) {
	path := writeStatement(t, "jan.txt", "3rd Jan Virgin Active Membership DD 92.00\n")
	csvPath := filepath.Join(t.TempDir(), "entries.csv")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"scan", "--offline", "-o", csvPath, path})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Virgin Active Membership,other,92.00,unknown,92.00")
}

func TestScanCmd_Errors(t *testing.T) {
	type testCase struct {
		name string
		args []string
	}

	tests := []testCase{
		{name: "No files", args: []string{"scan"}},
		{name: "Missing file", args: []string{"scan", "--offline", filepath.Join(t.TempDir(), "missing.pdf")}},
		{name: "Unknown format", args: []string{"scan", "--offline", writeStatement(t, "jan.doc", "x")}},
		{name: "Offline with confirm", args: []string{"scan", "--offline", "--confirm", writeStatement(t, "a.txt", "x")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)

			assert.Error(t, cmd.Execute())
		})
	}
}

func TestExpandFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.csv", "b.csv", "c.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	files, err := expandFiles([]string{filepath.Join(dir, "*.csv")})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = expandFiles([]string{filepath.Join(dir, "*.ofx")})
	assert.Error(t, err)
}
