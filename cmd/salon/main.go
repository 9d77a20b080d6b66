// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-salon-keeper/internal/adapter"
	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/handler"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/internal/metrics"
	"github.com/MKhiriev/go-salon-keeper/internal/server"
	"github.com/MKhiriev/go-salon-keeper/internal/service"
	"github.com/MKhiriev/go-salon-keeper/internal/store"
	"github.com/MKhiriev/go-salon-keeper/internal/workers"
	"github.com/MKhiriev/go-salon-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetAppConfig()
	if err != nil {
		logger.NewLogger("salon", "info").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger("salon", cfg.Log.Level)
	log.Debug().Str("http_address", cfg.Server.HTTPAddress).Msg("received configs")

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	provider, err := adapter.NewHTTPIdentityProvider(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating identity provider client")
	}

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	services, err := service.NewServices(storages, provider, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}
	defer services.SessionManager.Close()

	m := metrics.New("salon")
	defer services.SessionManager.OnAuthStateChanged(m.ObserveAuthState)()
	defer services.SessionManager.OnSessionWarning(m.ObserveWarning)()
	defer services.SessionManager.OnSessionExpired(m.ObserveExpiration)()

	if services.SessionManager.Restore(ctx) {
		log.Info().Msg("persisted session restored")
	}

	jobs := workers.NewWorkers(log, services.SessionValidator)
	jobs.Start(ctx)
	defer jobs.Stop()

	handlers, err := handler.NewHandlers(services, m, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
