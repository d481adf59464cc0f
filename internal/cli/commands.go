package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	tadaerrors "github.com/idilsaglam/tada/internal/errors"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/schema"
	"github.com/idilsaglam/tada/internal/tui"
	"github.com/idilsaglam/tada/internal/ui"
)

func newAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "add <title...>",
		Short:   "Add a new item (title can be multiple words)",
		Example: `  tada add "Buy milk"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usage("tada add <title...>")
			}
			if err := a.open(); err != nil {
				return err
			}
			t, err := a.store.AddTodo(strings.Join(args, " "))
			if err != nil {
				return err
			}
			a.commit()
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added #%d", t.ID))
			return nil
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	var (
		filter string
		group  bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			a.store.SetVisibility(f)
			ui.Panel(cmd.OutOrStdout(), a.listLines(group || a.cfg.UI.Group))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "visibility filter: all, active or completed")
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func newDoneCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle done for the item with id",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usage("tada done <id>")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			if !a.store.ToggleTodo(id) {
				return tadaerrors.TodoNotFound(id)
			}
			a.commit()
			ui.OK(cmd.OutOrStdout(), "toggled")
			return nil
		},
	}
}

func newToggleAllCommand(a *app) *cobra.Command {
	var active bool
	cmd := &cobra.Command{
		Use:   "toggle-all",
		Short: "Mark every item done (or active with --active)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			a.store.ToggleAll(!active)
			a.commit()
			if active {
				ui.OK(cmd.OutOrStdout(), "all items active")
			} else {
				ui.OK(cmd.OutOrStdout(), "all items done")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&active, "active", false, "mark every item active instead")
	return cmd
}

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove the item with id",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usage("tada rm <id>")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			if !a.store.RemoveTodo(id) {
				return tadaerrors.TodoNotFound(id)
			}
			a.commit()
			ui.OK(cmd.OutOrStdout(), "removed")
			return nil
		},
	}
}

func newEditCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <title...>",
		Short: "Rename the item with id; an empty title removes it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return usage("tada edit <id> <title...>")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			if !a.store.BeginEdit(id) {
				return tadaerrors.TodoNotFound(id)
			}
			a.store.DoneEdit(id, strings.Join(args[1:], " "))
			a.commit()
			if _, still := a.store.Find(id); !still {
				ui.OK(cmd.OutOrStdout(), "removed (empty title)")
				return nil
			}
			ui.OK(cmd.OutOrStdout(), "renamed")
			return nil
		},
	}
}

func newClearCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every completed item",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			n := a.store.RemoveCompleted()
			a.commit()
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("removed %d completed", n))
			return nil
		},
	}
}

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show remaining, done and total created counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			t := ui.Current()
			done, pending := model.Stats(a.store.Todos())
			ui.Panel(cmd.OutOrStdout(), []string{
				t.Title.Render("Stats"),
				fmt.Sprintf("%s %d", t.Pending.Render("remaining:"), a.store.Remaining()),
				fmt.Sprintf("%s %d", t.Success.Render("done:"), done),
				fmt.Sprintf("%s %d", t.Accent.Render("listed:"), done+pending),
				fmt.Sprintf("%s %d", t.Accent.Render("created:"), a.store.TotalCreatedTodos()),
			})
			return nil
		},
	}
}

func newTUICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit items interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return tadaerrors.New(tadaerrors.ErrCodeInvalidInput, "tui needs an interactive terminal")
			}
			if err := a.open(); err != nil {
				return err
			}
			if err := tui.Run(a.store); err != nil {
				return tadaerrors.Wrap(err, tadaerrors.ErrCodeInternal, "tui")
			}
			a.commit()
			return nil
		},
	}
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the stored todo list",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := schema.TodoListDocument()
			if err != nil {
				return tadaerrors.Wrap(err, tadaerrors.ErrCodeInternal, "render schema")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(doc))
			return nil
		},
	}
}

// -------------- rendering helpers --------------

func (a *app) listLines(group bool) []string {
	t := ui.Current()
	all := a.store.Todos()
	d, p := model.Stats(all)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(all),
	)

	lines := []string{
		header,
		t.Muted.Render(ui.ProgressBar(d, d+p, 28)),
		"",
	}
	visible := a.store.FilteredTodos()
	if group {
		lines = append(lines, groupLines(visible)...)
	} else {
		lines = append(lines, flatLines(visible)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render(fmt.Sprintf("%s · showing %s",
		itemsLeft(a.store.Remaining()), a.store.Visibility())))
	return lines
}

func itemsLeft(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}

func flatLines(items []model.Todo) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		idx := fmt.Sprintf("%3d.", it.ID)
		box, style := t.BoxUnchecked, t.Muted
		title := ansi.Truncate(it.Title, 80, "...")
		if it.Completed {
			box, style = t.BoxChecked, t.Success
			title = t.Done.Render(title)
		}
		out = append(out, fmt.Sprintf("%s %s %s", t.Muted.Render(idx), style.Render(box), title))
	}
	return out
}

func groupLines(items []model.Todo) []string {
	t := ui.Current()
	lines := []string{t.Accent.Render("Pending")}
	if pend := model.Active.Apply(items); len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "", t.Accent.Render("Done"))
	if done := model.Completed.Apply(items); len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
