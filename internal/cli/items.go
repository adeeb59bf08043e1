package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todolist/internal/todolist"
	"github.com/idilsaglam/todolist/internal/ui"
)

// view opens the configured backend behind a fresh todolist.View. The
// view logs failures itself; commands only map them to exit codes.
func (app *App) view(cmd *cobra.Command) (*todolist.View, error) {
	coll, err := app.open(cmd.Context(), app.cfg.Backend)
	if err != nil {
		return nil, err
	}
	return todolist.New(coll, todolist.WithLogger(app.logger)), nil
}

func newListCmd(app *App) *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.view(cmd)
			if err != nil {
				return err
			}
			if err := v.Refresh(cmd.Context()); err != nil {
				return failed(fmt.Errorf("fetch: %w", err))
			}

			t := ui.Current()
			lines := ui.ListLines(v.Snapshot().Items, group)
			lines = append(lines, "", ui.C(t.Muted, "Tip: add with `todo add \"Buy milk\"`"))
			ui.Panel(cmd.OutOrStdout(), lines)
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "Group output by pending/done")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name...>",
		Short: "Add a new item (name can be multiple words)",
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			if strings.TrimSpace(name) == "" {
				return usagef("usage: todo add <name...>")
			}
			v, err := app.view(cmd)
			if err != nil {
				return err
			}
			v.SetInput(name)
			if err := v.Create(cmd.Context()); err != nil {
				return failed(fmt.Errorf("add: %w", err))
			}
			ui.OK(cmd.OutOrStdout(), "added")
			return nil
		},
	}
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle the completed flag of an item",
		Args:  idArg("done"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID(args[0])
			v, err := app.view(cmd)
			if err != nil {
				return err
			}
			if err := v.Refresh(cmd.Context()); err != nil {
				return failed(fmt.Errorf("fetch: %w", err))
			}
			it, ok := v.Snapshot().Find(id)
			if !ok {
				return usagef("done: no item with id %d", id)
			}
			if err := v.Toggle(cmd.Context(), it.ID, it.IsCompleted); err != nil {
				return failed(fmt.Errorf("done: %w", err))
			}
			if it.IsCompleted {
				ui.OK(cmd.OutOrStdout(), "reopened")
			} else {
				ui.OK(cmd.OutOrStdout(), "completed")
			}
			return nil
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an item",
		Args:  idArg("rm"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID(args[0])
			v, err := app.view(cmd)
			if err != nil {
				return err
			}
			if err := v.Delete(cmd.Context(), id); err != nil {
				return failed(fmt.Errorf("rm: %w", err))
			}
			ui.OK(cmd.OutOrStdout(), "removed")
			return nil
		},
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("%s: unexpected argument %q", cmd.Name(), args[0])
	}
	return nil
}

func idArg(name string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return usagef("usage: todo %s <id>", name)
		}
		if _, err := parseID(args[0]); err != nil {
			return usagef("%s: not an id: %s", name, args[0])
		}
		return nil
	}
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
