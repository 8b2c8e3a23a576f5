package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/statalabs/stallama/app"
	"github.com/statalabs/stallama/client"
	"github.com/statalabs/stallama/config"
	"github.com/statalabs/stallama/style"
)

var version = "dev"

func main() {
	configFlag := flag.String("config", "", "Path to config file (YAML)")
	urlFlag := flag.String("url", "", "Server base URL (overrides config)")
	noColor := flag.Bool("no-color", false, "Disable ANSI colors")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.BoolVar(showVersion, "V", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("stallama %s\n", version)
		os.Exit(0)
	}

	if *noColor {
		lipgloss.SetColorProfile(0)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stallama: %v\n", err)
		os.Exit(1)
	}

	baseURL := cfg.Server.URL
	if *urlFlag != "" {
		baseURL = *urlFlag
	}

	// Auto-detect terminal background unless the config pins a theme.
	theme := cfg.UI.Theme
	if theme == "" {
		theme = "dark"
		if !lipgloss.HasDarkBackground() {
			theme = "light"
		}
	}
	style.SetTheme(theme)

	c := client.New(baseURL)
	m := app.New(c, version)

	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}

	p := tea.NewProgram(m, opts...)

	go func() {
		p.Send(app.ProgramReady{Program: p})
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "stallama: %v\n", err)
		os.Exit(1)
	}
}
