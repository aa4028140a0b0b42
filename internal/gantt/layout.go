package gantt

import (
	"fmt"
	"math"
	"sort"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

const (
	// MinBarWidth keeps zero-length and inverted spans visible.
	MinBarWidth = 8.0
	RowHeight   = 36.0
	BarHeight   = 20.0

	UnassignedGroup = "Unassigned"
)

// RowKind distinguishes group headers from task rows.
type RowKind string

const (
	RowHeader RowKind = "header"
	RowTask   RowKind = "task"
)

// Point is a pixel coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CubicCurve is a cubic Bezier segment.
type CubicCurve struct {
	Start Point `json:"start"`
	C1    Point `json:"c1"`
	C2    Point `json:"c2"`
	End   Point `json:"end"`
}

// SVGPath renders the curve as an SVG path "d" attribute.
func (c CubicCurve) SVGPath() string {
	return fmt.Sprintf("M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f",
		c.Start.X, c.Start.Y, c.C1.X, c.C1.Y, c.C2.X, c.C2.Y, c.End.X, c.End.Y)
}

// Bar is a task's horizontal extent on the timeline.
type Bar struct {
	X         float64 `json:"x"`
	Width     float64 `json:"width"`
	Milestone bool    `json:"milestone"`
}

// Right returns the bar's right edge.
func (b Bar) Right() float64 { return b.X + b.Width }

// Row is one horizontal lane. Task rows without both dates have no bar.
type Row struct {
	Kind  RowKind `json:"kind"`
	Group string  `json:"group"`
	// GroupID is the project id; empty for the Unassigned group.
	GroupID string            `json:"group_id,omitempty"`
	Y       float64           `json:"y"`
	Task    *domain.GanttTask `json:"task,omitempty"`
	Bar     *Bar              `json:"bar,omitempty"`
}

// CenterY returns the vertical middle of the row.
func (r Row) CenterY() float64 { return r.Y + RowHeight/2 }

// Arrow connects a predecessor's bar to its dependent's bar.
type Arrow struct {
	DependencyID string                `json:"dependency_id"`
	FromTaskID   string                `json:"from_task_id"`
	ToTaskID     string                `json:"to_task_id"`
	Type         domain.DependencyType `json:"type"`
	Curve        CubicCurve            `json:"curve"`
	Path         string                `json:"path"`
}

// Layout is everything needed to draw a Gantt chart.
type Layout struct {
	Timeline *Timeline `json:"timeline"`
	Rows     []Row     `json:"rows"`
	Arrows   []Arrow   `json:"arrows"`
	Height   float64   `json:"height"`

	// TaskCount counts distinct tasks; rows repeated across groups do not add to it.
	TaskCount int `json:"task_count"`
}

// Build groups tasks by project and positions bars and arrows.
//
// A task in several projects gets a row in each group. Tasks with no project
// form a final Unassigned group. Arrows attach to the first row of each task
// and are skipped when either end has no bar.
func Build(tasks []domain.GanttTask, deps []domain.TaskDependency, tl *Timeline) *Layout {
	out := &Layout{Timeline: tl, Rows: []Row{}, Arrows: []Arrow{}, TaskCount: len(tasks)}

	for _, g := range group(tasks) {
		out.Rows = append(out.Rows, Row{Kind: RowHeader, Group: g.name, GroupID: g.id, Y: out.Height})
		out.Height += RowHeight

		for _, task := range g.tasks {
			out.Rows = append(out.Rows, Row{
				Kind:    RowTask,
				Group:   g.name,
				GroupID: g.id,
				Y:       out.Height,
				Task:    task,
				Bar:     bar(task, tl),
			})
			out.Height += RowHeight
		}
	}

	first := make(map[string]Row, len(tasks))
	for _, r := range out.Rows {
		if r.Kind != RowTask || r.Bar == nil {
			continue
		}
		if _, ok := first[r.Task.ID]; !ok {
			first[r.Task.ID] = r
		}
	}

	for _, d := range deps {
		from, ok := first[d.DependsOnTaskID]
		if !ok {
			continue
		}
		to, ok := first[d.TaskID]
		if !ok {
			continue
		}
		curve := connect(from, to)
		out.Arrows = append(out.Arrows, Arrow{
			DependencyID: d.ID,
			FromTaskID:   d.DependsOnTaskID,
			ToTaskID:     d.TaskID,
			Type:         d.Type,
			Curve:        curve,
			Path:         curve.SVGPath(),
		})
	}
	return out
}

func bar(task *domain.GanttTask, tl *Timeline) *Bar {
	if !task.HasSpan() {
		return nil
	}
	x1 := tl.DateToX(*task.StartDate)
	x2 := tl.DateToX(*task.DueDate)
	left := math.Max(0, x1)
	return &Bar{
		X:         left,
		Width:     math.Max(MinBarWidth, x2-left),
		Milestone: task.IsMilestone,
	}
}

// connect draws from the predecessor's right edge to the dependent's left
// edge. Both control points sit at the horizontal midpoint, each on its own
// row, which bends into an S when the rows differ.
func connect(from, to Row) CubicCurve {
	start := Point{X: from.Bar.Right(), Y: from.CenterY()}
	end := Point{X: to.Bar.X, Y: to.CenterY()}
	midX := (start.X + end.X) / 2
	return CubicCurve{
		Start: start,
		C1:    Point{X: midX, Y: start.Y},
		C2:    Point{X: midX, Y: end.Y},
		End:   end,
	}
}

type taskGroup struct {
	id    string
	name  string
	tasks []*domain.GanttTask
}

// group buckets tasks by project id, ordered by project name then id, with
// Unassigned last. Input order is kept inside each group.
func group(tasks []domain.GanttTask) []taskGroup {
	byID := make(map[string]*taskGroup)
	var unassigned taskGroup
	unassigned.name = UnassignedGroup

	for i := range tasks {
		task := &tasks[i]
		if len(task.Projects) == 0 {
			unassigned.tasks = append(unassigned.tasks, task)
			continue
		}
		seen := make(map[string]bool, len(task.Projects))
		for _, p := range task.Projects {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			g, ok := byID[p.ID]
			if !ok {
				g = &taskGroup{id: p.ID, name: p.Name}
				byID[p.ID] = g
			}
			g.tasks = append(g.tasks, task)
		}
	}

	groups := make([]taskGroup, 0, len(byID)+1)
	for _, g := range byID {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].name != groups[j].name {
			return groups[i].name < groups[j].name
		}
		return groups[i].id < groups[j].id
	})
	if len(unassigned.tasks) > 0 {
		groups = append(groups, unassigned)
	}
	return groups
}
