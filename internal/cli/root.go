package cli

import (
	"os"
	"strings"

	"downhome-cli/internal/store"
	"downhome-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	DBPath     string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "downhome",
		Short:        "Browse, search and manage downloads (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive browser
  downhome

  # Scriptable commands
  downhome items list
  downhome items add --title "Podcast ep. 12" --category audio
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				path, err := app.resolveDBPath()
				if err != nil {
					return err
				}
				return tui.Run(path)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.DBPath, "db", envOr("DOWNHOME_DB", ""), "Path to the downloads database (default: config dbPath or ~/.downhome/downloads.sqlite)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func (a *App) resolveDBPath() (string, error) {
	if strings.TrimSpace(a.DBPath) != "" {
		return a.DBPath, nil
	}
	return store.DefaultDBPath()
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
