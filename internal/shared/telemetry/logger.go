package telemetry

import (
	"io"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
)

const contextKey = "logger"

// Logger writes structured JSON log lines. It is created once at startup and
// handed to the components that need it.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger writing to w at the given level name.
func New(w io.Writer, level string) *Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return &Logger{zl: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Open builds the process logger: stdout, plus a rotating file when file is set.
// The returned closer releases the file and must be called on shutdown.
func Open(level, file string) (*Logger, io.Closer) {
	if strings.TrimSpace(file) == "" {
		return New(os.Stdout, level), nopCloser{}
	}
	rotating := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     14, // days
	}
	return New(io.MultiWriter(os.Stdout, rotating), level), rotating
}

// Info writes an info-level log line with the given fields.
func (l *Logger) Info(msg string, fields map[string]any) {
	zl := l.zerolog()
	zl.Info().Fields(fields).Msg(msg)
}

// Warn writes a warn-level log line with the given fields.
func (l *Logger) Warn(msg string, fields map[string]any) {
	zl := l.zerolog()
	zl.Warn().Fields(fields).Msg(msg)
}

// Error writes an error-level log line with the given fields.
func (l *Logger) Error(msg string, fields map[string]any) {
	zl := l.zerolog()
	zl.Error().Fields(fields).Msg(msg)
}

// Zerolog exposes the underlying logger for callers needing the full API.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zerolog()
}

func (l *Logger) zerolog() zerolog.Logger {
	if l == nil {
		return zerolog.Nop()
	}
	return l.zl
}

// WithLogger stores the logger on the request context.
func WithLogger(c *gin.Context, l *Logger) {
	c.Set(contextKey, l)
}

// FromContext returns the request logger, or a no-op logger when none is set.
func FromContext(c *gin.Context) *Logger {
	if c == nil {
		return Nop()
	}
	if v, ok := c.Get(contextKey); ok {
		if l, ok := v.(*Logger); ok && l != nil {
			return l
		}
	}
	return Nop()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
