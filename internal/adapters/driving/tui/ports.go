// Package tui provides an interactive terminal user interface for docqa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat answers questions and keeps the conversation history.
	Chat driving.ChatService

	// Document lists and deletes uploaded documents.
	Document driving.DocumentService

	// Settings manages application settings. Optional; the settings
	// view reports it as unavailable when nil.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	chat driving.ChatService,
	document driving.DocumentService,
	settings driving.SettingsService,
) *Ports {
	return &Ports{
		Chat:     chat,
		Document: document,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}
