package golden

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

// echoRun prints the script itself and fails scripts mentioning fail.
func echoRun(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if bytes.Contains(b, []byte("fail")) {
		return string(b), errors.New("1 of 1 commands failed")
	}
	return string(b), nil
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "a\nb\n", "a\nb"},
		{"ansi", "\x1b[31m✗ boom\x1b[0m\n", "✗ boom"},
		{"trailing blanks", "a  \r\nb\t\n\n\n", "a\nb"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestDiff(t *testing.T) {
	assert.Equal(t, "  a\n- b\n+ B\n  c\n", Diff("a\nb\nc", "a\nB\nc"))
	assert.Equal(t, "  same\n", Diff("same", "same"))
}

func TestRecordThenTest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "greet.egg", "hello\n")
	r := NewRunner(dir, echoRun)

	_, err := r.Test("greet")
	require.Error(t, err, "no recording yet")

	require.NoError(t, r.Record("greet"))
	got, err := os.ReadFile(filepath.Join(dir, "greet.expected"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))

	res, err := r.Test("greet")
	require.NoError(t, err)
	assert.True(t, res.Passed())
	assert.NoError(t, res.RunErr)
}

func TestFailingScriptStillRecords(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.egg", "fail\n")
	r := NewRunner(dir, echoRun)

	require.NoError(t, r.Record("bad"))
	res, err := r.Test("bad")
	require.NoError(t, err)
	assert.True(t, res.Passed())
	assert.Error(t, res.RunErr)
}

func TestMissingScript(t *testing.T) {
	r := NewRunner(t.TempDir(), echoRun)
	_, err := r.Test("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test script not found")
}

func TestRunAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.egg", "one\n")
	writeFile(t, dir, "a.expected", "one\n")
	writeFile(t, dir, "b.egg", "two\n")
	writeFile(t, dir, "b.expected", "deux\n")
	writeFile(t, dir, "notes.txt", "ignored\n")
	r := NewRunner(dir, echoRun)

	names, err := r.Tests()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	var out bytes.Buffer
	err = r.RunAll(&out)
	require.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, err.Error(), "b")
	assert.Equal(t, "PASS a\nFAIL b\n- deux\n+ two\n\nResults: 1 passed, 1 failed\n", out.String())
}
