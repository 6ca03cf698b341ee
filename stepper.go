package astar

// StepSnapshot exposes the per-iteration state of the search
type StepSnapshot[N any] struct {
	Current   N
	Done      bool
	Found     bool
	Exhausted bool // the iteration budget ran out before the search ended
	Path      []N
	StepIndex int
}

// Options defines parameters for the search.
type Options struct {
	MaxIterations int
	BucketWidth   float64
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithMaxIterations bounds the number of pop+expand cycles a Stepper runs
// before it reports Exhausted. Zero means no limit.
func WithMaxIterations(maxIterations int) Option {
	return func(options *Options) { options.MaxIterations = maxIterations }
}

// WithBucketWidth sets the HotQueue bucket width of maps built by this
// package.
func WithBucketWidth(width float64) Option {
	return func(options *Options) { options.BucketWidth = width }
}

func applyOptions(options []Option) Options {
	searchOptions := Options{}
	for _, option := range options {
		option(&searchOptions)
	}
	return searchOptions
}

// Stepper drives a search one node expansion at a time. It is how callers
// bound the running time of a search: the driver itself never yields.
type Stepper[N any, C Cost, M Map[N, C]] struct {
	m         M
	goal      N
	heuristic func(N, N) C
	budget    int

	stepCount int
	done      bool
	found     bool
	path      []N
}

// NewStepper opens start on m and returns a stepper positioned before the
// first expansion.
func NewStepper[N any, C Cost, M Map[N, C]](
	m M,
	startNode N,
	goalNode N,
	heuristic func(N, N) C,
	options ...Option,
) *Stepper[N, C, M] {
	opts := applyOptions(options)
	m.OpenNode(startNode, 0, heuristic(startNode, goalNode), startNode)
	return &Stepper[N, C, M]{
		m:         m,
		goal:      goalNode,
		heuristic: heuristic,
		budget:    opts.MaxIterations,
	}
}

// Step advances the search by one node expansion and returns a snapshot
func (s *Stepper[N, C, M]) Step() StepSnapshot[N] {
	if s.done {
		return StepSnapshot[N]{Done: true, Found: s.found, Path: s.path, StepIndex: s.stepCount}
	}
	if !s.m.OpenNodeAvailable() {
		s.done = true
		return StepSnapshot[N]{Done: true, StepIndex: s.stepCount}
	}
	if s.budget > 0 && s.stepCount >= s.budget {
		return StepSnapshot[N]{Exhausted: true, StepIndex: s.stepCount}
	}

	s.stepCount++
	current, path, found := expand[N, C](s.m, s.goal, s.heuristic)
	if found {
		s.done = true
		s.found = true
		s.path = path
	}
	return StepSnapshot[N]{
		Current:   current,
		Done:      found,
		Found:     found,
		Path:      path,
		StepIndex: s.stepCount,
	}
}

// Run steps until the search ends or the budget runs out. ok is false only
// when the budget ran out; a finished search with no path returns an empty
// path and ok.
func (s *Stepper[N, C, M]) Run() (path []N, ok bool) {
	for {
		snapshot := s.Step()
		if snapshot.Exhausted {
			return nil, false
		}
		if snapshot.Done {
			return snapshot.Path, true
		}
	}
}

// Extend grants n more iterations to an exhausted stepper.
func (s *Stepper[N, C, M]) Extend(n int) {
	if s.budget > 0 {
		s.budget += n
	}
}

// Steps returns the number of expansions performed so far.
func (s *Stepper[N, C, M]) Steps() int { return s.stepCount }
