package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakTech215/crm-app-sub000/internal/application/task"
	"github.com/JakTech215/crm-app-sub000/internal/calendar"
	"github.com/JakTech215/crm-app-sub000/internal/cli"
	"github.com/JakTech215/crm-app-sub000/internal/domain"
	"github.com/JakTech215/crm-app-sub000/internal/infrastructure/persistence/sqlite"
	"github.com/JakTech215/crm-app-sub000/internal/ptr"
)

// 2025-01-15 09:00 in Chicago.
var now = time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC)

type fixture struct {
	store *sqlite.Store
	svc   *task.Service
	out   *bytes.Buffer
	app   *cli.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.Open(context.Background(), sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	zone := calendar.MustZone(calendar.DefaultTimezone, calendar.FixedClock{T: now})
	svc := task.NewService(store, zone, task.Config{})
	out := &bytes.Buffer{}
	return &fixture{
		store: store,
		svc:   svc,
		out:   out,
		app: &cli.App{
			Tasks: svc,
			MigrationVersion: func(ctx context.Context) (int64, error) {
				return sqlite.MigrationVersion(ctx, store.DB())
			},
			Out:    out,
			Styles: cli.NewStyles(false),
		},
	}
}

func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	f.out.Reset()
	root := cli.NewRootCmd(f.app)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return f.out.String(), err
}

func TestMigrate(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "migrate")
	require.NoError(t, err)
	assert.Regexp(t, `^schema version [1-9]\d*\n$`, out)
}

func TestSeries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	weeks := domain.RecurrenceWeeks
	due := calendar.MustDate("2025-01-06")
	root, err := f.svc.CreateTask(ctx, &domain.Task{
		Title: "Weekly call", DueDate: &due, IsRecurring: true,
		RecurrenceFrequency: ptr.To(1), RecurrenceUnit: &weeks,
	})
	require.NoError(t, err)

	t.Run("until is required", func(t *testing.T) {
		_, err := f.run(t, "series", root.ID)
		assert.ErrorContains(t, err, "--until is required")
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := f.run(t, "series", root.ID, "--until", "next week")
		assert.ErrorContains(t, err, "--until")
	})

	t.Run("materializes occurrences", func(t *testing.T) {
		out, err := f.run(t, "series", root.ID, "--until", "2025-01-20")
		require.NoError(t, err)
		assert.Contains(t, out, "2025-01-13")
		assert.Contains(t, out, "2025-01-20")
		assert.Contains(t, out, "2 occurrences created")
	})

	t.Run("unknown task", func(t *testing.T) {
		_, err := f.run(t, "series", "missing", "--until", "2025-01-20")
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}

func seedTemplates(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	weeks := domain.RecurrenceWeeks
	require.NoError(t, f.store.CreateTemplate(ctx, &domain.TaskTemplate{
		ID: "a", Name: "Kickoff", IsRecurring: true,
		RecurrenceFrequency: ptr.To(1), RecurrenceUnit: &weeks, RecurrenceCount: ptr.To(3), CreatedAt: now,
	}))
	require.NoError(t, f.store.CreateTemplate(ctx, &domain.TaskTemplate{ID: "b", Name: "Review", CreatedAt: now.Add(time.Second)}))
	require.NoError(t, f.store.CreateWorkflowStep(ctx, &domain.TaskWorkflowStep{
		ID: "s1", TemplateID: "a", NextTemplateID: "b", DelayDays: 4, CreatedAt: now,
	}))
}

func TestTemplates(t *testing.T) {
	f := newFixture(t)
	seedTemplates(t, f)

	t.Run("chain", func(t *testing.T) {
		out, err := f.run(t, "chain", "b")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 4)
		assert.Contains(t, lines[2], "Kickoff")
		assert.Contains(t, lines[3], "Review")
		assert.Contains(t, lines[3], "+4d")
	})

	t.Run("expand", func(t *testing.T) {
		out, err := f.run(t, "expand", "a", "--start", "2025-02-03")
		require.NoError(t, err)
		assert.Equal(t, "2025-02-03\n2025-02-10\n2025-02-17\n", out)
	})

	t.Run("expand with end", func(t *testing.T) {
		out, err := f.run(t, "preview", "a", "--start", "2025-02-03", "--end", "2025-02-12")
		require.NoError(t, err)
		assert.Equal(t, "2025-02-03\n2025-02-10\n", out)
	})

	t.Run("no warnings", func(t *testing.T) {
		out, err := f.run(t, "warnings")
		require.NoError(t, err)
		assert.Equal(t, "no workflow problems\n", out)
	})

	t.Run("self step is reported", func(t *testing.T) {
		require.NoError(t, f.store.CreateWorkflowStep(context.Background(), &domain.TaskWorkflowStep{
			ID: "s2", TemplateID: "b", NextTemplateID: "b", CreatedAt: now.Add(time.Minute),
		}))
		out, err := f.run(t, "warnings")
		require.NoError(t, err)
		assert.Contains(t, out, "self_step b:")
	})
}

func TestHints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	predDue := calendar.MustDate("2025-01-10")
	start := calendar.MustDate("2025-01-09")
	pred, err := f.svc.CreateTask(ctx, &domain.Task{Title: "pred", DueDate: &predDue})
	require.NoError(t, err)
	succ, err := f.svc.CreateTask(ctx, &domain.Task{Title: "succ", StartDate: &start})
	require.NoError(t, err)

	out, err := f.run(t, "hints", succ.ID)
	require.NoError(t, err)
	assert.Equal(t, "no predecessors\n", out)

	_, err = f.svc.AddDependency(ctx, task.DependencyInput{TaskID: succ.ID, DependsOnTaskID: pred.ID, LagDays: 1})
	require.NoError(t, err)

	out, err = f.run(t, "hints", succ.ID)
	require.NoError(t, err)
	assert.Contains(t, out, pred.ID)
	assert.Contains(t, out, "2025-01-11")
	assert.Contains(t, out, "violated")
}

func TestGantt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := calendar.MustDate("2025-01-16")
	due := calendar.MustDate("2025-01-20")
	_, err := f.svc.CreateTask(ctx, &domain.Task{Title: "Quarterly review", StartDate: &start, DueDate: &due})
	require.NoError(t, err)

	out, err := f.run(t, "gantt", "--start", "2025-01-15")
	require.NoError(t, err)
	assert.Contains(t, out, "Window 2025-01-15")
	assert.Contains(t, out, "Unassigned")
	assert.Contains(t, out, "Quarterly review")
	assert.Contains(t, out, "1 tasks, 0 dependency arrows")

	_, err = f.run(t, "gantt", "--zoom", "decade")
	assert.ErrorIs(t, err, domain.ErrInvalidZoom)
}

func TestStyles_TableAlignsStyledCells(t *testing.T) {
	for _, color := range []bool{false, true} {
		s := cli.NewStyles(color)
		out := s.Table([]string{"A", "Status"}, [][]string{
			{"long value", s.Status(domain.TaskStatusBlocked)},
			{"x", s.Status(domain.TaskStatusPending)},
		})
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Contains(t, lines[2], "blocked")
	}
}
