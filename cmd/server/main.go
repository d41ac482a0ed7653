package main

import (
	"context"
	"embed"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/LewisGaul/minegauler-sub000/internal/app"
	"github.com/LewisGaul/minegauler-sub000/internal/config"
	"github.com/LewisGaul/minegauler-sub000/internal/game"
	"github.com/LewisGaul/minegauler-sub000/internal/solver"
)

//go:embed migrations/*.sql
var migrations embed.FS

func setupEngineLogging(logger *slog.Logger) {
	level := logrus.InfoLevel
	if config.Development() {
		level = logrus.DebugLevel
	}

	for _, l := range []*logrus.Logger{game.Log, solver.Log} {
		l.SetLevel(level)
		l.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   "logs/engine.log",
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		logger.Warn("unable to create engine log file hook", slog.Any("error", err))
		return
	}
	game.Log.AddHook(hook)
	solver.Log.AddHook(hook)
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer cancel()

	setupEngineLogging(logger)

	a := app.New(logger, migrations)

	if err := a.Start(ctx); err != nil {
		logger.Error("failed to start server", slog.Any("error", err))
		os.Exit(1)
	}
}
