package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger.
type Config struct {
	Env   string // en development la salida es consola legible; en el resto JSON
	Level string // trace, debug, info, warn, error
}

// Logger envuelve zerolog para poder inyectarlo como dependencia.
// Los métodos de nivel están embebidos del logger interno.
type Logger struct {
	zerolog.Logger
}

// New construye el logger estructurado de la aplicación y lo fija también como
// logger global de zerolog para las librerías que escriben por log.Logger.
func New(cfg Config) *Logger {
	var out io.Writer = os.Stdout
	if cfg.Env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Logger = zl
	return &Logger{Logger: zl}
}

// With crea un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context {
	return l.Logger.With()
}

// Zerolog expone el logger interno para la API directa de zerolog.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.Logger
}
