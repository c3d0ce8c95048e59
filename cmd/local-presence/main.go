// Package main implements the local worker-presence simulator for syncdeck.
// It runs the token and WebSocket endpoints locally so the CLI and the
// channel package can be tested without deploying the real service.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/syncdeck/syncdeck/cmd/local-presence/server"
	"github.com/syncdeck/syncdeck/internal/constants"
	"github.com/syncdeck/syncdeck/internal/logger"
)

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	scenarioPath := flag.String("scenario", "", "path to a YAML scenario file (empty for the built-in default)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := logger.Initialize(constants.Development, level)

	scenario, err := server.LoadScenario(*scenarioPath)
	if err != nil {
		log.Error("failed to load scenario", "error", err)
		os.Exit(1)
	}

	srv, err := server.New(scenario, log)
	if err != nil {
		log.Error("failed to initialize simulator", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", *port)
	log.Info("local presence simulator listening",
		"addr", addr,
		"workers", len(scenario.Workers))
	if err := http.ListenAndServe(addr, srv.Routes()); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
