package domain

// TaskKind distinguishes the three shapes a task can take.
type TaskKind uint8

const (
	// KindChain runs a single transform chain.
	KindChain TaskKind = iota
	// KindSeries runs other tasks one after another.
	KindSeries
	// KindServe enters the serving state.
	KindServe
)

func (k TaskKind) String() string {
	switch k {
	case KindChain:
		return "chain"
	case KindSeries:
		return "series"
	case KindServe:
		return "serve"
	default:
		return "unknown"
	}
}

// Task represents a named unit of work in the build.
type Task struct {
	Name        string
	Kind        TaskKind
	Description string
	// Chain is set for KindChain tasks.
	Chain *Chain
	// Steps lists the task names a KindSeries task runs, in order.
	Steps []string
}
