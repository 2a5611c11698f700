// Package cli implements the docqa command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// errNotConfigured is returned by commands whose service was not wired.
var errNotConfigured = errors.New("not configured")

// Services holds the core services the commands drive.
type Services struct {
	Documents driving.DocumentService
	Chat      driving.ChatService
	Debug     driving.DebugService
	Settings  driving.SettingsService

	// AppSettings are the effective settings the services were built from.
	AppSettings domain.AppSettings

	// PipelineErr explains why the pipeline services are nil, if they are.
	PipelineErr error
}

var (
	documentService driving.DocumentService
	chatService     driving.ChatService
	debugService    driving.DebugService
	settingsService driving.SettingsService
	appSettings     = domain.DefaultAppSettings()
	pipelineErr     error
)

var (
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about your documents",
	Long: `docqa indexes PDF and text documents and answers questions about them
using retrieval-augmented generation.

Upload documents with 'docqa ingest', then ask with 'docqa ask', the
interactive 'docqa tui', or the HTTP API started by 'docqa serve'.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		if noColor {
			logger.SetColor(false)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print pipeline trace logs")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured log output")
}

// SetServices wires the services used by all commands.
func SetServices(s Services) {
	documentService = s.Documents
	chatService = s.Chat
	debugService = s.Debug
	settingsService = s.Settings
	appSettings = s.AppSettings
	pipelineErr = s.PipelineErr
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// notConfigured builds the error for a missing service.
func notConfigured(name string) error {
	if pipelineErr != nil {
		return fmt.Errorf("%s %w: %w", name, errNotConfigured, pipelineErr)
	}
	return fmt.Errorf("%s %w", name, errNotConfigured)
}

func requireDocuments() (driving.DocumentService, error) {
	if documentService == nil {
		return nil, notConfigured("document service")
	}
	return documentService, nil
}

func requireChat() (driving.ChatService, error) {
	if chatService == nil {
		return nil, notConfigured("chat service")
	}
	return chatService, nil
}

func requireDebug() (driving.DebugService, error) {
	if debugService == nil {
		return nil, notConfigured("debug service")
	}
	return debugService, nil
}

func requireSettings() (driving.SettingsService, error) {
	if settingsService == nil {
		return nil, fmt.Errorf("settings service %w", errNotConfigured)
	}
	return settingsService, nil
}

// commandContext returns the command context, falling back to Background
// when the command runs outside ExecuteContext.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
