// Package golden runs batch scripts and compares their output with recorded
// .expected files.
package golden

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/sergi/go-diff/diffmatchpatch"

	"eggshell/internal/logger"
)

const (
	// ScriptExt is the extension of test scripts.
	ScriptExt = ".egg"
	// ExpectedExt is the extension of recorded outputs.
	ExpectedExt = ".expected"
)

// RunFunc executes the script at path and returns everything it printed.
// A script that reports failures still yields its output.
type RunFunc func(path string) (string, error)

// Result is the outcome of one golden test.
type Result struct {
	Name     string
	Expected string
	Actual   string
	// RunErr is the error reported by the script run, if any.
	RunErr error
}

// Passed reports whether the output matched the recording.
func (r Result) Passed() bool {
	return r.Expected == r.Actual
}

// Runner runs the scripts of Dir.
type Runner struct {
	Dir string
	Run RunFunc
}

// NewRunner creates a runner over the scripts in dir.
func NewRunner(dir string, run RunFunc) *Runner {
	return &Runner{Dir: dir, Run: run}
}

// Normalize strips terminal escapes, trailing blanks and trailing newlines so
// outputs compare the same whichever terminal recorded them.
func Normalize(output string) string {
	lines := strings.Split(ansi.Strip(output), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// Tests returns the names of the scripts in the directory, sorted.
func (r *Runner) Tests() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(r.Dir, "*"+ScriptExt))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), ScriptExt))
	}
	sort.Strings(names)
	return names, nil
}

func (r *Runner) scriptPath(name string) string {
	return filepath.Join(r.Dir, name+ScriptExt)
}

func (r *Runner) expectedPath(name string) string {
	return filepath.Join(r.Dir, name+ExpectedExt)
}

func (r *Runner) actual(name string) (string, error) {
	path := r.scriptPath(name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("test script not found: %w", err)
	}
	out, err := r.Run(path)
	return Normalize(out), err
}

// Test runs one script and compares it with its recording.
func (r *Runner) Test(name string) (Result, error) {
	actual, runErr := r.actual(name)
	if runErr != nil && actual == "" {
		return Result{}, runErr
	}
	expected, err := os.ReadFile(r.expectedPath(name))
	if err != nil {
		return Result{}, fmt.Errorf("failed to read expected file: %w", err)
	}
	return Result{
		Name:     name,
		Expected: strings.TrimRight(string(expected), "\n"),
		Actual:   actual,
		RunErr:   runErr,
	}, nil
}

// Record runs one script and saves its output as the recording.
func (r *Runner) Record(name string) error {
	actual, err := r.actual(name)
	if err != nil && actual == "" {
		return err
	}
	if err := os.WriteFile(r.expectedPath(name), []byte(actual+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write expected file: %w", err)
	}
	logger.Debug("Recorded golden output", "test", name)
	return nil
}

// RunAll runs every script, writing PASS or FAIL lines and a diff for each
// failure to w. It returns an error naming the failed tests.
func (r *Runner) RunAll(w io.Writer) error {
	names, err := r.Tests()
	if err != nil {
		return fmt.Errorf("failed to find tests: %w", err)
	}
	var failed []string
	for _, name := range names {
		res, err := r.Test(name)
		switch {
		case err != nil:
			failed = append(failed, name)
			fmt.Fprintf(w, "FAIL %s: %v\n", name, err)
		case !res.Passed():
			failed = append(failed, name)
			fmt.Fprintf(w, "FAIL %s\n%s", name, Diff(res.Expected, res.Actual))
		default:
			fmt.Fprintf(w, "PASS %s\n", name)
		}
	}
	fmt.Fprintf(w, "\nResults: %d passed, %d failed\n", len(names)-len(failed), len(failed))
	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", ErrFailed, strings.Join(failed, ", "))
	}
	return nil
}

// ErrFailed is returned by RunAll when a test does not match its recording.
var ErrFailed = errors.New("golden tests failed")

// Diff renders a line diff of expected and actual: removed lines start with
// "- ", added lines with "+ " and unchanged lines with two spaces.
func Diff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(expected+"\n", actual+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix + line)
		}
	}
	return sb.String()
}
