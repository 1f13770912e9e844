package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/tidepool-terminal/internal/app"
	"github.com/ngmaloney/tidepool-terminal/internal/config"
	"github.com/ngmaloney/tidepool-terminal/internal/logging"
	"github.com/ngmaloney/tidepool-terminal/internal/ui"
)

func main() {
	location := flag.String("location", "", "Search for tide stations near a location (zipcode, \"City, ST\", place or \"lat, lon\")")
	stationID := flag.String("station", "", "Load a NOAA tide station directly by ID (e.g., 9413450)")
	configPath := flag.String("config", "", "Path to a config file (defaults to ./config.yaml)")
	flag.Parse()

	if *location != "" && *stationID != "" {
		fmt.Println("Error: use either --location or --station, not both.")
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(filepath.Dir(cfg.Data.DBPath), "tidepool.log")
	}
	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Printf("Error setting up logging: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		fmt.Printf("Error starting application: %v\n", err)
		logCloser.Close()
		os.Exit(1)
	}

	model := ui.NewModel(a.Planner, a.Provisioner, ui.Options{
		Location:  *location,
		StationID: *stationID,
		Filter:    cfg.FilterSettings(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := p.Run()
	if err := a.Close(logCloser); err != nil {
		fmt.Printf("Error shutting down: %v\n", err)
	}
	if runErr != nil {
		fmt.Printf("Error running application: %v\n", runErr)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
