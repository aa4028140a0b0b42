// Package dependency builds a directed graph over task dependency edges.
//
// An edge TaskID -> DependsOnTaskID reads "TaskID depends on DependsOnTaskID".
// The graph is rebuilt from flat rows wherever it is needed.
package dependency

import (
	"fmt"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

// Validate rejects an edge that can never be stored.
func Validate(dep domain.TaskDependency) error {
	if dep.TaskID == "" || dep.DependsOnTaskID == "" {
		return domain.ErrInvalidID
	}
	if dep.TaskID == dep.DependsOnTaskID {
		return domain.ErrSelfDependency
	}
	if _, err := domain.NewDependencyType(string(dep.Type)); err != nil {
		return err
	}
	return nil
}

// Graph is an adjacency view over dependency rows.
type Graph struct {
	preds map[string][]domain.TaskDependency // task -> edges to what it depends on
	succs map[string][]domain.TaskDependency // task -> edges from tasks depending on it
	nodes []string                           // first-seen order
}

// NewGraph indexes deps. Duplicate edges are kept.
func NewGraph(deps []domain.TaskDependency) *Graph {
	g := &Graph{
		preds: make(map[string][]domain.TaskDependency),
		succs: make(map[string][]domain.TaskDependency),
	}
	seen := make(map[string]bool)
	for _, d := range deps {
		g.preds[d.TaskID] = append(g.preds[d.TaskID], d)
		g.succs[d.DependsOnTaskID] = append(g.succs[d.DependsOnTaskID], d)
		for _, id := range []string{d.TaskID, d.DependsOnTaskID} {
			if !seen[id] {
				seen[id] = true
				g.nodes = append(g.nodes, id)
			}
		}
	}
	return g
}

// Predecessors returns the edges taskID depends on.
func (g *Graph) Predecessors(taskID string) []domain.TaskDependency {
	return g.preds[taskID]
}

// Dependents returns the distinct ids of tasks that depend on taskID.
func (g *Graph) Dependents(taskID string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, d := range g.succs[taskID] {
		if !seen[d.TaskID] {
			seen[d.TaskID] = true
			out = append(out, d.TaskID)
		}
	}
	return out
}

// Edges returns every edge touching taskID on either side.
func (g *Graph) Edges(taskID string) []domain.TaskDependency {
	out := make([]domain.TaskDependency, 0, len(g.preds[taskID])+len(g.succs[taskID]))
	out = append(out, g.preds[taskID]...)
	for _, d := range g.succs[taskID] {
		if d.TaskID != taskID {
			out = append(out, d)
		}
	}
	return out
}

// CycleWith returns the cycle that adding taskID -> dependsOnID would close,
// as a path starting and ending at taskID. Nil means the edge is safe.
func (g *Graph) CycleWith(taskID, dependsOnID string) []string {
	if taskID == dependsOnID {
		return []string{taskID, taskID}
	}

	visited := make(map[string]bool)
	var path []string
	var dfs func(id string) bool
	dfs = func(id string) bool {
		if id == taskID {
			path = append(path, id)
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true
		path = append(path, id)
		for _, d := range g.preds[id] {
			if dfs(d.DependsOnTaskID) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}

	if !dfs(dependsOnID) {
		return nil
	}
	return append([]string{taskID}, path...)
}

// WouldCreateCycle reports whether adding taskID -> dependsOnID closes a cycle.
func (g *Graph) WouldCreateCycle(taskID, dependsOnID string) bool {
	return g.CycleWith(taskID, dependsOnID) != nil
}

const (
	white = iota // unvisited
	gray         // on the current DFS stack
	black        // finished
)

// HasCycle reports whether the stored edges already contain a cycle.
// Rows written before the cycle check existed can still form one.
func (g *Graph) HasCycle() bool {
	color := make(map[string]int, len(g.nodes))

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		for _, d := range g.preds[id] {
			switch color[d.DependsOnTaskID] {
			case gray:
				return true
			case white:
				if visit(d.DependsOnTaskID) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	for _, id := range g.nodes {
		if color[id] == white && visit(id) {
			return true
		}
	}
	return false
}

// CycleError carries the offending path for ErrDependencyCycle.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %v", domain.ErrDependencyCycle, e.Path)
}

func (e *CycleError) Unwrap() error {
	return domain.ErrDependencyCycle
}
