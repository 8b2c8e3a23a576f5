// Package msg defines the tea.Msg types dispatched within the stallama
// TUI. It has no upstream imports (client, model) to avoid import cycles.
package msg

// HealthResult from the startup health check. A failed check is advisory:
// the app reports it once and stays usable.
type HealthResult struct {
	Status     string
	Model      string
	OllamaHost string
	Version    string
	Err        error
}

// ExportResult from the /export command.
type ExportResult struct {
	Path string
	Err  error
}

// TickMsg drives the elapsed-time display while a generation runs.
type TickMsg struct{}
