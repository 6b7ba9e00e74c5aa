package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/tminus/internal/config"
	"github.com/julianstephens/tminus/internal/constants"
	"github.com/julianstephens/tminus/internal/storage"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if _, err := os.Stat(ctx.ConfigPath); os.IsNotExist(err) {
		if err := config.Save(ctx.ConfigPath, ctx.Config); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		ctx.printf("Wrote config: %s\n", ctx.ConfigPath)
	}

	var store storage.Provider
	if ctx.Config.Backend == constants.BackendSQLite {
		store = storage.NewSQLiteStore(ctx.Config.StorePath())
	} else {
		store = storage.NewJSONStore(ctx.Config.StorePath())
	}
	if err := store.Init(); err != nil {
		return err
	}
	defer store.Close()

	ctx.printf("Initialized tminus storage at: %s\n", store.GetConfigPath())
	return nil
}
