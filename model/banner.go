package model

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/statalabs/stallama/msg"
	"github.com/statalabs/stallama/style"
)

// BannerModel renders the one-line startup banner:
//
//	Stallama v1.0 · llama3.2 · localhost:11434
//
// It is populated from the health check result and is purely static —
// Update handles no messages.
type BannerModel struct {
	version string
	model   string
	host    string
	online  bool
}

// NewBanner returns a zero-value BannerModel with a default version string.
func NewBanner(version string) BannerModel {
	if version == "" {
		version = "dev"
	}
	return BannerModel{version: version}
}

// SetHealth populates the banner from a HealthResult message.
func (m *BannerModel) SetHealth(h msg.HealthResult) {
	m.online = h.Err == nil && h.Status == "healthy"
	if h.Model != "" {
		m.model = h.Model
	}
	if h.OllamaHost != "" {
		m.host = h.OllamaHost
	}
}

// SetModel sets the model name displayed before the health check lands.
func (m *BannerModel) SetModel(name string) {
	m.model = name
}

// Init satisfies tea.Model. The banner requires no I/O on start.
func (m BannerModel) Init() tea.Cmd {
	return nil
}

// Update satisfies tea.Model. The banner is static; all messages pass through.
func (m BannerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the banner line.
func (m BannerModel) View() string {
	muted := lipgloss.NewStyle().Foreground(style.Muted)
	primary := lipgloss.NewStyle().Foreground(style.Primary)

	title := style.BannerTitle.Render(fmt.Sprintf("Stallama %s", m.version))
	sep := muted.Render(" · ")
	modelStr := primary.Render(m.model)

	line := title + sep + modelStr
	if m.host != "" {
		line += sep + style.BannerDetail.Render(m.host)
	}
	if m.online {
		line += sep + style.SuccessText.Render("online")
	} else {
		line += sep + style.ErrorText.Render("offline")
	}
	return line
}
