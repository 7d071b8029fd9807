// Package debug is the process wide logger. It is silent until Enable or
// SetLogger is called.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

var (
	mu        sync.Mutex
	logger    = zap.NewNop()
	file      *os.File
	sometimes = make(map[string]*rate.Sometimes)
)

// DefaultPath is ~/.config/go-mutwo/debug.log.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "go-mutwo", "debug.log")
}

// Enable starts debug logging to path (DefaultPath when empty). The file
// is truncated.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		return nil
	}
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	file = f

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(f), zapcore.DebugLevel)
	logger = zap.New(core)
	logger.Debug("=== debug logging started ===", zap.String("category", "debug"))
	return nil
}

// Disable stops logging and closes the log file.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	_ = logger.Sync()
	if file != nil {
		file.Close()
		file = nil
	}
	logger = zap.NewNop()
}

// SetLogger replaces the logger, e.g. with a stderr logger for the CLI.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Logger returns the current logger.
func Logger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Log writes a debug message.
func Log(category, format string, args ...any) {
	Logger().Debug(fmt.Sprintf(format, args...), zap.String("category", category))
}

// Warn reports a recoverable problem, like a clamped value.
func Warn(category, format string, args ...any) {
	Logger().Warn(fmt.Sprintf(format, args...), zap.String("category", category))
}

// LogEvery logs only the first and then every nth call with the same
// category and format (use for high-frequency events).
func LogEvery(n int, category, format string, args ...any) {
	every(n, "debug:"+category+format, func() { Log(category, format, args...) })
}

// WarnEvery is Warn throttled like LogEvery, for warnings raised once per
// note.
func WarnEvery(n int, category, format string, args ...any) {
	every(n, "warn:"+category+format, func() { Warn(category, format, args...) })
}

func every(n int, key string, fn func()) {
	mu.Lock()
	s, ok := sometimes[key]
	if !ok {
		s = &rate.Sometimes{First: 1, Every: n}
		sometimes[key] = s
	}
	mu.Unlock()

	s.Do(fn)
}
