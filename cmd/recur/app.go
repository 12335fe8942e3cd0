package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/recur/internal/alias"
	aliasStore "github.com/MrJamesThe3rd/recur/internal/alias/store"
	"github.com/MrJamesThe3rd/recur/internal/config"
	"github.com/MrJamesThe3rd/recur/internal/database"
	"github.com/MrJamesThe3rd/recur/internal/item"
	itemStore "github.com/MrJamesThe3rd/recur/internal/item/store"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

// app holds the database-backed services shared by the commands.
type app struct {
	db     *sql.DB
	items  *item.Service
	alias  *alias.Service
	engine *recurring.Engine
}

func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	engine, err := cfg.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("building engine: %w", err)
	}

	db, err := database.Open(ctx, cfg.DatabaseOptions())
	if err != nil {
		return nil, err
	}

	aliasSvc := alias.NewService(aliasStore.New(db))

	return &app{
		db:     db,
		items:  item.NewService(itemStore.New(db), item.WithAliases(aliasSvc)),
		alias:  aliasSvc,
		engine: engine,
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// offlineItems stands in for the item service when scanning without a
// database: nothing is known and nothing is refreshed.
type offlineItems struct{}

func (offlineItems) KnownSet(context.Context) (*recurring.KnownSet, error) {
	return recurring.NewKnownSet(), nil
}

func (offlineItems) Refresh(context.Context, []recurring.ParsedResult) (int, error) {
	return 0, nil
}
