package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init builds a development logger at the requested level and installs it as
// the process-wide logger, so packages can log through zap.L / zap.S.
func Init(logLevel string) {
	cfg := zap.NewDevelopmentConfig()

	switch logLevel {
	case "debug":
		cfg.Level.SetLevel(zap.DebugLevel)
	case "info":
		cfg.Level.SetLevel(zap.InfoLevel)
	case "warn":
		cfg.Level.SetLevel(zap.WarnLevel)
	case "error":
		cfg.Level.SetLevel(zap.ErrorLevel)
	default:
		cfg.Level.SetLevel(zap.InfoLevel)
	}

	lgr, err := cfg.Build()
	if err != nil {
		panic(fmt.Errorf("building logger: %w", err))
	}

	zap.ReplaceGlobals(lgr)
}
