package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env     string // development -> consola legible; production -> JSON
	Level   string // trace, debug, info, warn, error
	Service string // campo "service" en cada línea; vacío lo omite
}

// Logger envuelve zerolog para inyectarlo en casos de uso e infraestructura.
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger del proceso y lo deja como logger global de zerolog.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}
	}
	l := build(w, cfg.Level, cfg.Service)
	log.Logger = l.zl
	return l
}

// NewWriter logger JSON sobre un writer arbitrario (tests).
func NewWriter(w io.Writer, level string) *Logger {
	return build(w, level, "")
}

// Nop logger que descarta todo.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func build(w io.Writer, level, service string) *Logger {
	ctx := zerolog.New(w).Level(ParseLevel(level)).With().Timestamp()
	if service != "" {
		ctx = ctx.Str("service", service)
	}
	return &Logger{zl: ctx.Logger()}
}

// ParseLevel nivel de zerolog sin distinguir mayúsculas. Vacío o desconocido es info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Component sublogger con el campo "component".
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

// WithStr sublogger con pares clave/valor fijos. Un número impar de argumentos ignora el último.
func (l *Logger) WithStr(kv ...string) *Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(kv); i += 2 {
		ctx = ctx.Str(kv[i], kv[i+1])
	}
	return &Logger{zl: ctx.Logger()}
}
