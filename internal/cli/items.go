package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"downhome-cli/internal/model"
	"downhome-cli/internal/store"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Inspect and edit stored downloads",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsRmCmd(app))
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored downloads as JSON (newest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := openProvider(cmd.Context(), app)
			if err != nil {
				return err
			}
			defer provider.Close()

			items := provider.Items()
			sort.Slice(items, func(a, b int) bool {
				if !items[a].CreatedAt.Equal(items[b].CreatedAt) {
					return items[a].CreatedAt.After(items[b].CreatedAt)
				}
				return items[a].ID < items[b].ID
			})
			return writeJSON(cmd, app, items)
		},
	}
}

func newItemsAddCmd(app *App) *cobra.Command {
	var (
		title     string
		category  string
		state     string
		pageURL   string
		filePath  string
		size      int64
		suggested bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a download",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := openProvider(cmd.Context(), app)
			if err != nil {
				return err
			}
			defer provider.Close()

			now := time.Now()
			it := model.OfflineItem{
				Title:          title,
				Category:       model.Category(category),
				State:          model.State(state),
				IsSuggested:    suggested,
				CreatedAt:      now,
				TotalSizeBytes: size,
				PageURL:        pageURL,
				FilePath:       filePath,
			}
			if it.State == model.StateComplete || it.State == "" {
				it.CompletedAt = &now
			}
			stored, err := provider.Add(cmd.Context(), it)
			if err != nil {
				return err
			}
			return writeJSON(cmd, app, stored)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Display title")
	cmd.Flags().StringVar(&category, "category", string(model.CategoryOther), "Content category (page|image|video|audio|document|other)")
	cmd.Flags().StringVar(&state, "state", string(model.StateComplete), "Download state")
	cmd.Flags().StringVar(&pageURL, "url", "", "Originating page URL")
	cmd.Flags().StringVar(&filePath, "file", "", "Path of the downloaded file")
	cmd.Flags().Int64Var(&size, "size", 0, "Total size in bytes")
	cmd.Flags().BoolVar(&suggested, "suggested", false, "Mark as prefetched/suggested content")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newItemsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a stored download",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := openProvider(cmd.Context(), app)
			if err != nil {
				return err
			}
			defer provider.Close()

			id := args[0]
			if _, ok := provider.Get(id); !ok {
				return fmt.Errorf("unknown item: %s", id)
			}
			provider.RemoveItem(id)
			return writeJSON(cmd, app, map[string]any{"removed": id})
		},
	}
}

func openProvider(ctx context.Context, app *App) (*store.Provider, error) {
	path, err := app.resolveDBPath()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, path)
}

func writeJSON(cmd *cobra.Command, app *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if app.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
