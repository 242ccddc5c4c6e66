// Package main is the entry point for the interactive prop viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/propforge/internal/config"
	"github.com/Faultbox/propforge/internal/logger"
	"github.com/Faultbox/propforge/internal/preview"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== propview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	p, err := preview.New(cfg)
	if err != nil {
		logger.Error("failed to create preview", zap.Error(err))
		os.Exit(1)
	}
	defer p.Close()

	if err := p.Run(); err != nil {
		logger.Error("preview error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("preview closed normally")
}
