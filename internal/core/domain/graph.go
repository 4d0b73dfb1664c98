// Package domain contains the core domain models of the asset pipeline.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph holds the named tasks of a build and the series that compose them.
type Graph struct {
	tasks map[string]Task
	order []string
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks: make(map[string]Task),
	}
}

// AddTask adds a task to the graph.
// It returns an error if a task with the same name already exists.
func (g *Graph) AddTask(t *Task) error {
	if _, exists := g.tasks[t.Name]; exists {
		return zerr.With(ErrTaskAlreadyExists, "task_name", t.Name)
	}
	g.tasks[t.Name] = *t
	return nil
}

// Task returns the task registered under name.
func (g *Graph) Task(name string) (Task, error) {
	t, ok := g.tasks[name]
	if !ok {
		return Task{}, zerr.With(ErrTaskNotFound, "task", name)
	}
	return t, nil
}

// Validate checks that every series step refers to a known task and that no series
// reaches itself. Tasks are visited in name order so the result of Walk is stable.
func (g *Graph) Validate() error {
	g.order = make([]string, 0, len(g.tasks))
	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: visited
	var path []string

	var visit func(u string) error
	visit = func(u string) error {
		visited[u] = 1
		path = append(path, u)

		task, exists := g.tasks[u]
		if !exists {
			return zerr.With(ErrMissingDependency, "dependency", u)
		}

		for _, step := range task.Steps {
			if visited[step] == 1 {
				return buildCycleError(path, step)
			}
			if visited[step] == 0 {
				if err := visit(step); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.order = append(g.order, u)
		return nil
	}

	names := make([]string, 0, len(g.tasks))
	for name := range g.tasks {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []string, step string) error {
	start := slices.Index(path, step)
	cycle := append(slices.Clone(path[start:]), step)
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(cycle, " -> "))
}

// Walk yields tasks so that every series comes after the tasks it runs.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, name := range g.order {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}

// Expand flattens the task called name into the leaf tasks it runs, in order.
// A leaf reached twice appears twice: nothing is memoized.
func (g *Graph) Expand(name string) ([]Task, error) {
	var leaves []Task
	var expand func(n string, depth int) error
	expand = func(n string, depth int) error {
		if depth > len(g.tasks) {
			return zerr.With(ErrCycleDetected, "task", n)
		}
		t, err := g.Task(n)
		if err != nil {
			return err
		}
		if t.Kind != KindSeries {
			leaves = append(leaves, t)
			return nil
		}
		for _, step := range t.Steps {
			if err := expand(step, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := expand(name, 0); err != nil {
		return nil, err
	}
	return leaves, nil
}
