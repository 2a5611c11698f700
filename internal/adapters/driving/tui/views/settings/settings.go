// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionEmbedding
	SectionLLM
	SectionChunker
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyTab   = "tab"
)

// overviewItems is the number of rows on the overview.
const overviewItems = 3

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	// Current settings
	settings *domain.AppSettings
	err      error
	notice   string

	// Navigation state
	section      Section
	selected     int // selection within current section
	focusedField int // 0 = provider list, 1 = text field

	// Provider fields. The LLM field holds an API key for cloud providers
	// and the endpoint URL for the remote provider.
	embeddingAPIKeyInput textinput.Model
	llmFieldInput        textinput.Model

	// Chunker fields, focusedField selects which.
	chunkSizeInput    textinput.Model
	chunkOverlapInput textinput.Model

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	embeddingAPIKeyInput := textinput.New()
	embeddingAPIKeyInput.Placeholder = "Enter API key"
	embeddingAPIKeyInput.EchoMode = textinput.EchoPassword
	embeddingAPIKeyInput.CharLimit = 256

	llmFieldInput := textinput.New()
	llmFieldInput.CharLimit = 512

	chunkSizeInput := textinput.New()
	chunkSizeInput.Placeholder = strconv.Itoa(domain.DefaultChunkSize)
	chunkSizeInput.CharLimit = 6

	chunkOverlapInput := textinput.New()
	chunkOverlapInput.Placeholder = strconv.Itoa(domain.DefaultChunkOverlap)
	chunkOverlapInput.CharLimit = 6

	return &View{
		styles:               s,
		settingsService:      settingsService,
		section:              SectionOverview,
		embeddingAPIKeyInput: embeddingAPIKeyInput,
		llmFieldInput:        llmFieldInput,
		chunkSizeInput:       chunkSizeInput,
		chunkOverlapInput:    chunkOverlapInput,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved. Restart running servers to apply."
		v.backToOverview()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses based on current section.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.backToOverview()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionEmbedding:
		return v.handleEmbeddingKeys(msg)
	case SectionLLM:
		return v.handleLLMKeys(msg)
	case SectionChunker:
		return v.handleChunkerKeys(msg)
	}

	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < overviewItems-1 {
			v.selected++
		}
	case keyEnter:
		v.notice = ""
		switch v.selected {
		case 0:
			v.section = SectionEmbedding
			v.selected = v.getEmbeddingProviderIndex()
		case 1:
			v.section = SectionLLM
			v.selected = v.getLLMProviderIndex()
		case 2:
			v.section = SectionChunker
			v.selected = 0
			return v, v.openChunker()
		}
	}
	return v, nil
}

func (v *View) handleEmbeddingKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	providers := domain.AllEmbeddingProviders()

	if v.focusedField == 1 {
		switch msg.String() {
		case keyTab, "shift+tab":
			v.focusedField = 0
			v.embeddingAPIKeyInput.Blur()
			return v, nil
		case keyEnter:
			return v, v.setEmbeddingProvider(providers[v.selected], v.embeddingAPIKeyInput.Value())
		default:
			var cmd tea.Cmd
			v.embeddingAPIKeyInput, cmd = v.embeddingAPIKeyInput.Update(msg)
			return v, cmd
		}
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(providers)-1 {
			v.selected++
		}
	case keyTab, keyEnter:
		provider := providers[v.selected]
		if provider.RequiresAPIKey() {
			v.focusedField = 1
			return v, v.embeddingAPIKeyInput.Focus()
		}
		if msg.String() == keyEnter {
			return v, v.setEmbeddingProvider(provider, "")
		}
	}
	return v, nil
}

func (v *View) handleLLMKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	providers := domain.AllLLMProviders()

	if v.focusedField == 1 {
		switch msg.String() {
		case keyTab, "shift+tab":
			v.focusedField = 0
			v.llmFieldInput.Blur()
			return v, nil
		case keyEnter:
			return v, v.setLLMProvider(providers[v.selected], v.llmFieldInput.Value())
		default:
			var cmd tea.Cmd
			v.llmFieldInput, cmd = v.llmFieldInput.Update(msg)
			return v, cmd
		}
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(providers)-1 {
			v.selected++
		}
	case keyTab, keyEnter:
		provider := providers[v.selected]
		if needsLLMField(provider) {
			v.prepareLLMField(provider)
			v.focusedField = 1
			return v, v.llmFieldInput.Focus()
		}
		if msg.String() == keyEnter {
			return v, v.setLLMProvider(provider, "")
		}
	}
	return v, nil
}

func (v *View) handleChunkerKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyTab, "shift+tab", "up", keyDown:
		if v.focusedField == 0 {
			v.focusedField = 1
			v.chunkSizeInput.Blur()
			return v, v.chunkOverlapInput.Focus()
		}
		v.focusedField = 0
		v.chunkOverlapInput.Blur()
		return v, v.chunkSizeInput.Focus()
	case keyEnter:
		return v, v.setChunker()
	}

	var cmd tea.Cmd
	if v.focusedField == 0 {
		v.chunkSizeInput, cmd = v.chunkSizeInput.Update(msg)
	} else {
		v.chunkOverlapInput, cmd = v.chunkOverlapInput.Update(msg)
	}
	return v, cmd
}

// needsLLMField reports whether a provider needs a typed value before saving.
func needsLLMField(p domain.AIProvider) bool {
	return p.RequiresAPIKey() || p == domain.AIProviderRemote
}

// prepareLLMField configures the text field for the provider.
func (v *View) prepareLLMField(p domain.AIProvider) {
	v.llmFieldInput.SetValue("")
	if p == domain.AIProviderRemote {
		v.llmFieldInput.EchoMode = textinput.EchoNormal
		v.llmFieldInput.Placeholder = domain.DefaultRemoteLLMURL
		if v.settings != nil && v.settings.LLM.Provider == domain.AIProviderRemote {
			v.llmFieldInput.SetValue(v.settings.LLM.BaseURL)
		}
		return
	}
	v.llmFieldInput.EchoMode = textinput.EchoPassword
	v.llmFieldInput.Placeholder = "Enter API key"
}

// openChunker fills the chunker fields from the current settings.
func (v *View) openChunker() tea.Cmd {
	size, overlap := domain.DefaultChunkSize, domain.DefaultChunkOverlap
	if v.settings != nil {
		size, overlap = v.settings.Chunker.ChunkSize, v.settings.Chunker.Overlap
	}
	v.chunkSizeInput.SetValue(strconv.Itoa(size))
	v.chunkOverlapInput.SetValue(strconv.Itoa(overlap))
	v.focusedField = 0
	v.chunkOverlapInput.Blur()
	return v.chunkSizeInput.Focus()
}

// Commands to update settings.

func (v *View) setEmbeddingProvider(provider domain.AIProvider, apiKey string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}
		model := domain.DefaultEmbeddingModels()[provider]
		return messages.SettingsSaved{Err: v.settingsService.SetEmbeddingProvider(provider, model, apiKey)}
	}
}

func (v *View) setLLMProvider(provider domain.AIProvider, field string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}
		model := domain.DefaultLLMModels()[provider]
		var baseURL, apiKey string
		if provider == domain.AIProviderRemote {
			baseURL = strings.TrimSpace(field)
		} else {
			apiKey = field
		}
		return messages.SettingsSaved{Err: v.settingsService.SetLLMProvider(provider, model, baseURL, apiKey)}
	}
}

func (v *View) setChunker() tea.Cmd {
	size, sizeErr := strconv.Atoi(strings.TrimSpace(v.chunkSizeInput.Value()))
	overlap, overlapErr := strconv.Atoi(strings.TrimSpace(v.chunkOverlapInput.Value()))
	return func() tea.Msg {
		if sizeErr != nil || overlapErr != nil {
			return messages.SettingsSaved{Err: fmt.Errorf("%w: chunk size and overlap must be numbers", domain.ErrInvalidInput)}
		}
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}
		return messages.SettingsSaved{Err: v.settingsService.SetChunker(size, overlap)}
	}
}

func (v *View) backToOverview() {
	v.section = SectionOverview
	v.selected = 0
	v.focusedField = 0
	v.embeddingAPIKeyInput.SetValue("")
	v.embeddingAPIKeyInput.Blur()
	v.llmFieldInput.SetValue("")
	v.llmFieldInput.Blur()
	v.chunkSizeInput.Blur()
	v.chunkOverlapInput.Blur()
}

// Helper methods to get current selection indices.

func (v *View) getEmbeddingProviderIndex() int {
	if v.settings == nil {
		return 0
	}
	for i, p := range domain.AllEmbeddingProviders() {
		if p == v.settings.Embedding.Provider {
			return i
		}
	}
	return 0
}

func (v *View) getLLMProviderIndex() int {
	if v.settings == nil {
		return 0
	}
	for i, p := range domain.AllLLMProviders() {
		if p == v.settings.LLM.Provider {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionEmbedding:
		b.WriteString(v.renderProviderSelect(
			"Select Embedding Provider",
			domain.AllEmbeddingProviders(),
			domain.DefaultEmbeddingModels(),
			v.settings.Embedding.Provider,
		))
		if p := domain.AllEmbeddingProviders()[v.selected]; p.RequiresAPIKey() {
			b.WriteString(v.renderField("API Key:", v.embeddingAPIKeyInput))
		}
	case SectionLLM:
		b.WriteString(v.renderProviderSelect(
			"Select LLM Provider",
			domain.AllLLMProviders(),
			domain.DefaultLLMModels(),
			v.settings.LLM.Provider,
		))
		if p := domain.AllLLMProviders()[v.selected]; needsLLMField(p) {
			label := "API Key:"
			if p == domain.AIProviderRemote {
				label = "Endpoint URL:"
			}
			b.WriteString(v.renderField(label, v.llmFieldInput))
		}
	case SectionChunker:
		b.WriteString(v.renderChunker())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	embeddingValue := "Not Set"
	if v.settings.Embedding.Provider != "" {
		embeddingValue = fmt.Sprintf("%s (%s)", v.settings.Embedding.Provider.Description(), v.settings.Embedding.Model)
	}

	llmValue := "Not Set"
	if v.settings.LLM.Provider != "" {
		llmValue = v.settings.LLM.Provider.Description()
		if v.settings.LLM.Model != "" {
			llmValue += fmt.Sprintf(" (%s)", v.settings.LLM.Model)
		} else if v.settings.LLM.BaseURL != "" {
			llmValue += fmt.Sprintf(" (%s)", v.settings.LLM.BaseURL)
		}
	}

	items := []struct {
		label  string
		value  string
		status string
	}{
		{
			label:  "Embedding Provider",
			value:  embeddingValue,
			status: v.statusBadge(v.settings.Embedding.IsConfigured()),
		},
		{
			label:  "LLM Provider",
			value:  llmValue,
			status: v.statusBadge(v.settings.LLM.IsConfigured()),
		},
		{
			label: "Chunking",
			value: fmt.Sprintf("%d chars, %d overlap", v.settings.Chunker.ChunkSize, v.settings.Chunker.Overlap),
		},
	}

	for i, item := range items {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		line := fmt.Sprintf("%s%s: %s", indicator, item.label, item.value)
		if item.status != "" {
			line += " " + item.status
		}

		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}
	if v.settingsService != nil {
		if err := v.settingsService.Validate(); err != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
		} else {
			b.WriteString(v.styles.Success.Render("Configuration is valid"))
		}
	}

	return b.String()
}

func (v *View) statusBadge(configured bool) string {
	if configured {
		return v.styles.Success.Render("[configured]")
	}
	return v.styles.Warning.Render("[incomplete]")
}

func (v *View) renderProviderSelect(
	title string, providers []domain.AIProvider, models map[domain.AIProvider]string, current domain.AIProvider,
) string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n\n")

	for i, provider := range providers {
		highlighted := i == v.selected && v.focusedField == 0
		indicator := "  "
		if highlighted {
			indicator = "> "
		}

		marker := ""
		if provider == current {
			marker = v.styles.Success.Render(" (current)")
		}

		line := fmt.Sprintf("%s%s%s", indicator, provider.Description(), marker)
		if highlighted {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")

		if model, ok := models[provider]; ok {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("    Model: %s", model)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (v *View) renderField(label string, in textinput.Model) string {
	return "\n" + v.styles.Normal.Render(label) + "\n" + in.View() + "\n"
}

func (v *View) renderChunker() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Chunking"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Applies to documents uploaded after saving."))
	b.WriteString("\n")
	b.WriteString(v.renderField("Chunk size (characters):", v.chunkSizeInput))
	b.WriteString(v.renderField("Overlap (characters):", v.chunkOverlapInput))
	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back")
	case SectionChunker:
		return v.styles.Help.Render("[tab] switch field  [enter] save  [esc] back")
	case SectionEmbedding, SectionLLM:
		if v.focusedField == 1 {
			return v.styles.Help.Render("[tab] back to list  [enter] save  [esc] back")
		}
		return v.styles.Help.Render("[j/k] navigate  [tab] edit field  [enter] select  [esc] back")
	default:
		return ""
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.backToOverview()
	v.err = nil
	v.notice = ""
}
