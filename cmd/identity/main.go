// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/handler"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/internal/metrics"
	"github.com/MKhiriev/go-salon-keeper/internal/server"
	"github.com/MKhiriev/go-salon-keeper/internal/service"
	"github.com/MKhiriev/go-salon-keeper/internal/store"
	"github.com/MKhiriev/go-salon-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetIdentityConfig()
	if err != nil {
		logger.NewLogger("identity", "info").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger("identity", cfg.Log.Level)

	storages, err := store.NewIdentityStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	services, err := service.NewIdentityServices(storages, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewIdentityHandlers(services, metrics.New("identity"), cfg.Server, log)
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
