package storage

import (
	"fmt"

	"github.com/julianstephens/tminus/internal/config"
	"github.com/julianstephens/tminus/internal/constants"
)

// Open builds and loads the Provider selected by cfg.
func Open(cfg config.Config) (Provider, error) {
	var p Provider
	switch cfg.Backend {
	case constants.BackendSQLite:
		p = NewSQLiteStore(cfg.StorePath())
	case constants.BackendJSON, "":
		p = NewJSONStore(cfg.StorePath())
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}

	if err := p.Load(); err != nil {
		return nil, err
	}
	return p, nil
}
