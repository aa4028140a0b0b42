// Package cli implements the crm command line against a local store.
package cli

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/JakTech215/crm-app-sub000/internal/application/task"
	"github.com/JakTech215/crm-app-sub000/internal/calendar"
)

// App holds what the commands run against.
type App struct {
	Tasks *task.Service

	// MigrationVersion reports the schema version of the open store.
	MigrationVersion func(ctx context.Context) (int64, error)

	Out    io.Writer
	Styles Styles
}

// NewRootCmd creates the top-level "crm" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "crm",
		Short:         "Inspect and schedule CRM tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.Out)

	root.AddCommand(
		newMigrateCmd(app),
		newSeriesCmd(app),
		newChainCmd(app),
		newExpandCmd(app),
		newWarningsCmd(app),
		newHintsCmd(app),
		newGanttCmd(app),
	)
	return root
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

// dateFlag reads an optional YYYY-MM-DD flag. Unset yields nil.
func dateFlag(flags *pflag.FlagSet, name string) (*civil.Date, error) {
	raw, err := flags.GetString(name)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &d, nil
}
