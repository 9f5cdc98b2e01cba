package cli

import (
	"fmt"
	"sort"

	"downhome-cli/internal/docs"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show on-demand documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				topics := docs.Topics()
				sort.Strings(topics)
				return writeJSON(cmd, app, map[string]any{"topics": topics})
			}

			body, ok := docs.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown docs topic: %q (run `downhome docs` to list topics)", args[0])
			}

			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}

			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				_, werr := fmt.Fprint(cmd.OutOrStdout(), body)
				return werr
			}
			out, err := r.Render(body)
			if err != nil {
				out = body
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown")
	return cmd
}
