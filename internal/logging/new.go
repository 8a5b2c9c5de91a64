package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

// New builds a Logger for the given output format:
//
//	json, text        log/slog JSON or text handler
//	zerolog, console  zerolog JSON or human-friendly console writer
//
// Unknown formats fall back to slog JSON. Unknown levels fall back to info.
func New(format, level string, w io.Writer) Logger {
	switch strings.ToLower(format) {
	case "zerolog":
		return NewZerologLogger(zerolog.New(w).Level(zerologLevel(level)).With().Timestamp().Logger())
	case "console":
		cw := zerolog.ConsoleWriter{Out: w, NoColor: true}
		return NewZerologLogger(zerolog.New(cw).Level(zerologLevel(level)).With().Timestamp().Logger())
	case "text":
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel(level)})))
	default:
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel(level)})))
	}
}

func slogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func zerologLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return l
}
