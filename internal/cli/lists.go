package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"zoe/internal/list"
)

func newListsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Scriptable list operations against the backend",
	}
	cmd.AddCommand(newListsShowCmd(app))
	cmd.AddCommand(newListsAddCmd(app))
	cmd.AddCommand(newListsToggleCmd(app))
	cmd.AddCommand(newListsDeleteCmd(app))
	return cmd
}

func newListsShowCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <list-type>",
		Short: "Print a list's items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(app, false)
			if err != nil {
				return err
			}
			defer rt.close()

			items, err := rt.client.GetList(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch %s: %w", args[0], err)
			}
			if asJSON {
				return writeJSON(cmd, app, items)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(empty)")
				return nil
			}
			for _, it := range items {
				box := "[ ]"
				if it.Completed {
					box = "[x]"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d  %s\n", box, it.ID, it.DisplayText())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newListsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <list-type> <text>...",
		Short: "Add an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(app, false)
			if err != nil {
				return err
			}
			defer rt.close()

			it := list.Item{
				ID:   list.NewItemID(time.Now()),
				Text: strings.Join(args[1:], " "),
			}.Normalize()
			if it.Text == "" {
				return fmt.Errorf("empty item text")
			}
			if err := rt.client.AddItem(cmd.Context(), args[0], it); err != nil {
				return fmt.Errorf("add to %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d\n", it.ID)
			return nil
		},
	}
}

func newListsToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <list-type> <item-id>",
		Short: "Flip an item's completion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[1])
			}
			rt, err := newRuntime(app, false)
			if err != nil {
				return err
			}
			defer rt.close()

			items, err := rt.client.GetList(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch %s: %w", args[0], err)
			}
			for _, it := range items {
				if it.ID != id {
					continue
				}
				it.Completed = !it.Completed
				if it.Completed {
					now := time.Now()
					it.CompletedAt = &now
				} else {
					it.CompletedAt = nil
				}
				if err := rt.client.UpdateItem(cmd.Context(), args[0], it); err != nil {
					return fmt.Errorf("update %d: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "toggled %d -> completed=%v\n", id, it.Completed)
				return nil
			}
			return fmt.Errorf("item %d not found in %s", id, args[0])
		},
	}
}

func newListsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <list-type> <item-id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[1])
			}
			rt, err := newRuntime(app, false)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.client.DeleteItem(cmd.Context(), args[0], id); err != nil {
				return fmt.Errorf("delete %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
			return nil
		},
	}
}
