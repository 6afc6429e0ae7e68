package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/unkn0wn-root/numfield/internal/config"
	"github.com/unkn0wn-root/numfield/internal/errdef"
	"github.com/unkn0wn-root/numfield/internal/numeral"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var (
		configPath  string
		profileName string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "path to a numfield settings file (toml/json/yaml)")
	flag.StringVar(&profileName, "profile", "", "profile applied to the free-form field")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, heredoc.Doc(`
			numfield - formatted numeric input playground

			Usage:
			  numfield [flags]

			Each field turns raw keystrokes into grouped numeric display text
			while keeping the caret where you expect it. Tab cycles fields,
			Esc or Ctrl+C quits.

			Flags:
		`))
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("numfield %s (%s, built %s)\n", version, commit, date)
		return
	}

	settings, err := loadSettings(configPath)
	if err != nil {
		log.Fatalf("load settings: %s", errdef.Message(err))
	}

	freeOpts := numeral.Options{}
	if profileName != "" {
		profile, ok := settings.Profiles[profileName]
		if !ok {
			log.Fatalf("profile %q not found in settings", profileName)
		}
		freeOpts, err = profile.Options()
		if err != nil {
			log.Fatalf("profile %q: %s", profileName, errdef.Message(err))
		}
	}

	dark := termenv.HasDarkBackground()
	app := newApp(freeOpts, dark)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func loadSettings(path string) (config.Settings, error) {
	if path != "" {
		settings, _, err := config.LoadSettingsFile(path)
		return settings, err
	}
	settings, _, err := config.LoadSettings()
	return settings, err
}
