package internallogging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// DefaultFile is the log file written next to the invocation.
const DefaultFile = "swgen.log"

// Options configures the run logger.
type Options struct {
	Level zapcore.Level
	// Console receives human-readable lines (usually the command stderr).
	Console io.Writer
	// File duplicates every line to a log file (empty disables it).
	File string
}

// New builds the logger shared by every component of a run.
//
// The returned function flushes and closes the sinks.
func New(opts Options) (*zap.Logger, func(), error) {
	level := zap.NewAtomicLevelAt(opts.Level)
	cores := []zapcore.Core{}

	if opts.Console != nil {
		enc := zapcore.EncoderConfig{
			MessageKey:  "M",
			LevelKey:    "L",
			EncodeLevel: zapcore.CapitalColorLevelEncoder,
		}
		if !isColorable(opts.Console) {
			enc.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(opts.Console), level))
	}

	closeFile := func() {}
	if opts.File != "" {
		sink, closeSink, err := zap.Open(opts.File)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open log file: %w", err)
		}
		closeFile = closeSink
		enc := zapcore.EncoderConfig{
			TimeKey:        "T",
			NameKey:        "N",
			LevelKey:       "L",
			MessageKey:     "M",
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(enc), sink, level))
	}

	logger := zap.New(zapcore.NewTee(cores...)).Named("swgen")
	cleanup := func() {
		_ = logger.Sync()
		closeFile()
	}

	return logger, cleanup, nil
}

// fder is implemented by *os.File.
type fder interface {
	Fd() uintptr
}

func isColorable(w io.Writer) bool {
	f, ok := w.(fder)

	return ok && term.IsTerminal(int(f.Fd()))
}
