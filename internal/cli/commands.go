package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JakTech215/crm-app-sub000/internal/application/task"
	"github.com/JakTech215/crm-app-sub000/internal/gantt"
)

func newMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Opening the store already migrated it.
			v, err := app.MigrationVersion(cmd.Context())
			if err != nil {
				return err
			}
			app.printf("schema version %d\n", v)
			return nil
		},
	}
}

func newSeriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series TASK_ID",
		Short: "Materialize a recurring task into occurrences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := dateFlag(cmd.Flags(), "from")
			if err != nil {
				return err
			}
			until, err := dateFlag(cmd.Flags(), "until")
			if err != nil {
				return err
			}
			if until == nil {
				return errors.New("--until is required")
			}

			res, err := app.Tasks.MaterializeSeries(cmd.Context(), args[0], task.SeriesParams{From: from, Until: *until})
			if err != nil {
				return err
			}

			rows := [][]string{{res.Source.ID, res.Source.Title, formatDate(res.Source.DueDate), app.Styles.Dim("root")}}
			for _, o := range res.Occurrences {
				rows = append(rows, []string{o.ID, o.Title, formatDate(o.DueDate), ""})
			}
			fmt.Fprint(app.Out, app.Styles.Table([]string{"ID", "Title", "Due", ""}, rows))
			app.printf("%d occurrences created\n", len(res.Occurrences))
			return nil
		},
	}
	cmd.Flags().String("from", "", "first occurrence date (YYYY-MM-DD); defaults to the task's due or start date")
	cmd.Flags().String("until", "", "last date to materialize (YYYY-MM-DD)")
	return cmd
}

func newChainCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chain TEMPLATE_ID",
		Short: "Show the workflow chain a template belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := app.Tasks.ResolveChain(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(chain) == 0 {
				app.printf("%s\n", app.Styles.Dim("template is not part of a workflow chain"))
				return nil
			}

			rows := make([][]string, 0, len(chain))
			for i, link := range chain {
				delay := "-"
				if i > 0 {
					delay = "+" + strconv.Itoa(link.DelayDays) + "d"
				}
				name := link.Template.Name
				if link.Template.ID == args[0] {
					name = app.Styles.OK(name)
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), link.Template.ID, name, delay})
			}
			fmt.Fprint(app.Out, app.Styles.Table([]string{"#", "Template", "Name", "Delay"}, rows))
			return nil
		},
	}
}

func newExpandCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expand TEMPLATE_ID",
		Aliases: []string{"preview"},
		Short:   "List the dates a recurring template would produce",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := dateFlag(cmd.Flags(), "start")
			if err != nil {
				return err
			}
			end, err := dateFlag(cmd.Flags(), "end")
			if err != nil {
				return err
			}
			from := app.Tasks.Zone().Today()
			if start != nil {
				from = *start
			}

			dates, err := app.Tasks.PreviewTemplate(cmd.Context(), args[0], from, end)
			if err != nil {
				return err
			}
			for _, d := range dates {
				app.printf("%s\n", d)
			}
			return nil
		},
	}
	cmd.Flags().String("start", "", "first date (YYYY-MM-DD); defaults to today")
	cmd.Flags().String("end", "", "last date (YYYY-MM-DD)")
	return cmd
}

func newWarningsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "warnings",
		Short: "Report workflow authoring problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			warnings, err := app.Tasks.ValidateWorkflow(cmd.Context())
			if err != nil {
				return err
			}
			if len(warnings) == 0 {
				app.printf("%s\n", app.Styles.OK("no workflow problems"))
				return nil
			}
			for _, w := range warnings {
				app.printf("%s %s: %s\n", app.Styles.Warn(string(w.Kind)), w.TemplateID, w.Message)
			}
			return nil
		},
	}
}

func newHintsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "hints TASK_ID",
		Short: "Show the earliest dates each predecessor allows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hints, err := app.Tasks.ScheduleHints(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(hints) == 0 {
				app.printf("%s\n", app.Styles.Dim("no predecessors"))
				return nil
			}

			rows := make([][]string, 0, len(hints))
			for _, h := range hints {
				state := app.Styles.OK("ok")
				if h.Violated {
					state = app.Styles.Bad("violated")
				}
				rows = append(rows, []string{
					h.PredecessorID, string(h.Type), strconv.Itoa(h.LagDays),
					string(h.Field), h.NotBefore.String(), state,
				})
			}
			fmt.Fprint(app.Out, app.Styles.Table([]string{"Predecessor", "Type", "Lag", "Field", "Not before", ""}, rows))
			return nil
		},
	}
}

func newGanttCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gantt",
		Short: "Print the tasks a Gantt window would show, grouped by project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := dateFlag(cmd.Flags(), "start")
			if err != nil {
				return err
			}
			zoom, _ := cmd.Flags().GetString("zoom")
			params := task.GanttParams{Anchor: start, Zoom: zoom}
			if project, _ := cmd.Flags().GetString("project"); project != "" {
				params.ProjectID = &project
			}

			res, err := app.Tasks.Gantt(cmd.Context(), params)
			if err != nil {
				return err
			}

			tl := res.Layout.Timeline
			app.printf("%s %s .. %s (%s)\n", app.Styles.Header("Window"), tl.WindowStart, tl.WindowEnd, tl.Zoom)
			var rows [][]string
			for _, r := range res.Layout.Rows {
				if r.Kind == gantt.RowHeader {
					rows = append(rows, []string{app.Styles.Header(r.Group), "", "", "", ""})
					continue
				}
				t := r.Task
				rows = append(rows, []string{
					"  " + t.Title, formatDate(t.StartDate), formatDate(t.DueDate),
					app.Styles.Status(t.Status), strings.Join(t.AssigneeNames, ", "),
				})
			}
			fmt.Fprint(app.Out, app.Styles.Table([]string{"Task", "Start", "Due", "Status", "Assignees"}, rows))
			app.printf("%d tasks, %d dependency arrows\n", res.Layout.TaskCount, len(res.Layout.Arrows))
			for _, w := range res.Warnings {
				app.printf("%s %s\n", app.Styles.Warn("warning:"), w)
			}
			return nil
		},
	}
	cmd.Flags().String("start", "", "window anchor (YYYY-MM-DD); defaults to today")
	cmd.Flags().String("zoom", string(gantt.ZoomDay), "day, week or month")
	cmd.Flags().String("project", "", "only tasks linked to this project")
	return cmd
}
