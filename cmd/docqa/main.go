// Command docqa indexes documents and answers questions about them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/logger"
)

// envConfigDir overrides the directory holding config.toml and prompts.
const envConfigDir = "DOCQA_CONFIG_DIR"

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is normal; the environment is used as is.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configDir := os.Getenv(envConfigDir)
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading settings: %v\n", err)
		return 1
	}

	svcs := cli.Services{
		Settings:    settingsService,
		AppSettings: *settings,
	}

	app, err := buildPipeline(ctx, *settings, configDir)
	if err != nil {
		// Settings commands still work so the user can fix the configuration.
		logger.Debug("pipeline unavailable: %v", err)
		svcs.PipelineErr = err
	} else {
		defer app.Close()
		svcs.Documents = app.documents
		svcs.Chat = app.chat
		svcs.Debug = app.debug
		for _, w := range app.warnings {
			logger.Warn("%s", w)
		}
	}

	cli.SetServices(svcs)
	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}
