// Package app wires the store, configuration, and rollover policy into
// the service layer consumed by the CLI commands and the TUI.
package app

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/colonyops/burner/internal/core/config"
	"github.com/colonyops/burner/internal/core/logging"
	"github.com/colonyops/burner/internal/store"
)

var (
	// ErrNoMatch is returned when an id prefix matches no item or subtask.
	ErrNoMatch = errors.New("no match for the given id")
	// ErrAmbiguous is returned when an id prefix matches more than one
	// item or subtask.
	ErrAmbiguous = errors.New("id prefix is ambiguous")
)

// App is the application service container handed to commands.
type App struct {
	Store     *store.Store
	Config    *config.Config
	StatePath string

	log zerolog.Logger
}

// New creates the service container.
func New(st *store.Store, cfg *config.Config, statePath string) *App {
	return &App{
		Store:     st,
		Config:    cfg,
		StatePath: statePath,
		log:       logging.Component("app"),
	}
}
