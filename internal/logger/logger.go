// Package logger holds the process-wide eggshell logger and the component
// loggers derived from it.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// LevelEnv names the environment variable read when no level is given.
const LevelEnv = "EGGSHELL_LOG_LEVEL"

// Logger is the global logger instance used throughout eggshell.
var Logger = newLogger(os.Stderr, log.InfoLevel)

var (
	output  io.Writer = os.Stderr
	logFile *os.File
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{Level: level})
	l.SetTimeFormat("")
	return l
}

// Configure sets the level and destination of the global logger. The level
// comes from logLevel, then LevelEnv, then info. Test mode pins the level to
// info so runs log the same lines whatever the environment says.
func Configure(logLevel string, file string, testMode bool) error {
	level := logLevel
	if level == "" {
		level = os.Getenv(LevelEnv)
	}

	var w io.Writer = os.Stderr
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return err
		}
		w = f
		closeFile()
		logFile = f
	} else {
		closeFile()
	}

	SetOutput(w)
	if testMode {
		Logger.SetLevel(log.InfoLevel)
	} else {
		Logger.SetLevel(ParseLevel(level))
	}
	return nil
}

func closeFile() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// SetOutput points the global logger at w, keeping its level.
func SetOutput(w io.Writer) {
	output = w
	Logger = newLogger(w, Logger.GetLevel())
}

// ParseLevel converts a level name to a log level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// Debug logs at debug level on the global logger.
func Debug(msg interface{}, keyvals ...interface{}) { Logger.Debug(msg, keyvals...) }

// Info logs at info level on the global logger.
func Info(msg interface{}, keyvals ...interface{}) { Logger.Info(msg, keyvals...) }

// Warn logs at warn level on the global logger.
func Warn(msg interface{}, keyvals ...interface{}) { Logger.Warn(msg, keyvals...) }

// Error logs at error level on the global logger.
func Error(msg interface{}, keyvals ...interface{}) { Logger.Error(msg, keyvals...) }

// CommandExecution logs a dispatched command line.
func CommandExecution(key string, argsText string) {
	Debug("Executing command", "command", key, "args", argsText)
}

// StateTransition logs a move between two states of a group.
func StateTransition(group string, from string, to string, runID string) {
	Debug("State transition", "group", group, "from", from, "state", to, "run", runID)
}

var levelColors = []struct {
	level log.Level
	label string
	bg    string
}{
	{log.DebugLevel, "DEBUG", "240"},
	{log.InfoLevel, "INFO", "33"},
	{log.WarnLevel, "WARN", "214"},
	{log.ErrorLevel, "ERROR", "196"},
}

var keyColors = map[string]string{
	"command": "46",
	"group":   "39",
	"state":   "99",
	"class":   "214",
	"error":   "196",
}

// NewStyledLogger creates a logger for one component, such as "Registry",
// "FSM" or "Shell". It writes where the global logger writes, at its level.
func NewStyledLogger(prefix string) *log.Logger {
	styles := log.DefaultStyles()
	for _, lc := range levelColors {
		styles.Levels[lc.level] = lipgloss.NewStyle().
			SetString(lc.label).
			Padding(0, 1).
			Background(lipgloss.Color(lc.bg)).
			Foreground(lipgloss.Color("15"))
	}
	for key, color := range keyColors {
		styles.Keys[key] = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	styles.Values["state"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(keyColors["state"]))
	styles.Values["error"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(keyColors["error"]))

	l := log.NewWithOptions(output, log.Options{Prefix: prefix + " ", Level: Logger.GetLevel()})
	l.SetStyles(styles)
	return l
}
