// Package main provides the entry point for the OCR Screen Translator application.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"screen-translator/internal/app"
	"screen-translator/internal/config"
	"screen-translator/internal/version"
	"screen-translator/ui/mainwindow"
)

const appID = "dev.screentranslator.app"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "path", config.DefaultPath(), "error", err)
		os.Exit(1)
	}

	level, _ := config.ParseLogLevel(cfg.Log.Level)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	slog.Info("starting", "version", version.Version, "commit", version.GitCommit)

	session, err := app.NewSession(cfg, app.Dependencies{})
	if err != nil {
		slog.Error("failed to create session", "error", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.Theme{})

	win := mainwindow.New(a, session, fyne.NewSize(cfg.UI.Width, cfg.UI.Height))
	win.SetMaster()

	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig.String())
		fyne.Do(a.Quit)
	}()

	session.Init()
	win.ShowAndRun()

	if err := session.Close(); err != nil {
		slog.Warn("cleanup incomplete", "error", err)
	}
	slog.Info("stopped")
}
