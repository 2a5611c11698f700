// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the question input and conversation view.
	ViewChat
	// ViewDocuments lists uploaded documents and the query selection.
	ViewDocuments
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewDocuments:
		return "documents"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// QuestionSubmitted is sent when the user asks a question.
type QuestionSubmitted struct {
	Question    string
	DocumentIDs []string
}

// AnswerReceived carries the result of a question back to the model.
type AnswerReceived struct {
	Question string
	Result   domain.QueryResult
	Err      error
}

// HistoryLoaded carries the recent chat log.
type HistoryLoaded struct {
	Messages []domain.ChatMessage
	Err      error
}

// HistoryCleared signals the chat log was cleared.
type HistoryCleared struct {
	Err error
}

// DocumentsLoaded carries the list of uploaded documents.
type DocumentsLoaded struct {
	Documents []domain.Document
	Err       error
}

// DocumentDeleted signals a document was deleted.
type DocumentDeleted struct {
	DocumentID string
	Err        error
}

// SelectionChanged carries the IDs of the documents selected for querying.
type SelectionChanged struct {
	DocumentIDs []string
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
