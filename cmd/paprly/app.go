// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log/slog"

	"github.com/spf13/viper"

	"github.com/paprly/paprly/internal/arxiv"
	"github.com/paprly/paprly/internal/backend"
	"github.com/paprly/paprly/internal/ingest"
	"github.com/paprly/paprly/internal/store"
	"github.com/paprly/paprly/pkg/types"
)

// app holds the wired components a command needs.
type app struct {
	cfg     types.AppConfig
	store   *store.Store
	arxiv   *arxiv.Client
	backend *backend.Client
	ingest  *ingest.Service
}

// openApp loads configuration and wires the clients. The store is opened
// only when withStore is set.
func openApp(withStore bool) (*app, error) {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return nil, err
	}
	logger := slog.Default()

	a := &app{
		cfg:     cfg,
		arxiv:   arxiv.NewClient(nil, cfg.Arxiv, logger),
		backend: backend.NewClient(nil, cfg.Backend, logger),
	}
	if withStore {
		st, err := store.Open(cfg.Store)
		if err != nil {
			return nil, err
		}
		a.store = st
		a.ingest = ingest.NewService(a.arxiv, st, logger)
	}
	return a, nil
}

// Close releases the store, if open.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}
