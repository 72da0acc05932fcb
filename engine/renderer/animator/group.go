package animator

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Updater is anything advanced once per frame by a Group.
type Updater interface {
	Update(deltaTime float32)
}

// group is the implementation of the Group interface.
type group struct {
	members []Updater
	workers int
	queue   int
	pool    worker.DynamicWorkerPool
}

// Group advances many independent animators per frame, fanned out over a worker pool.
//
// Members must not share mutable state. Animators built on one clip qualify: the clip and its
// skeleton are read-only and every animator owns its own palette and scratch buffers.
// Update returns only after every member has been updated.
type Group interface {
	// Add registers members with the group.
	//
	// Parameters:
	//   - members: the updaters to add
	Add(members ...Updater)

	// Len returns the number of members.
	//
	// Returns:
	//   - int: the member count
	Len() int

	// Update advances every member by deltaTime and waits for all of them.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last update in seconds
	Update(deltaTime float32)

	// Close stops the worker pool. Later updates run inline. Calling Close twice is a no-op.
	Close()
}

var _ Group = &group{}

// NewGroup creates an empty Group. The pool is sized to one less than the CPU count unless
// WithWorkers overrides it. With a single worker, members are updated inline in insertion order.
//
// Parameters:
//   - options: functional options to configure the group
//
// Returns:
//   - Group: the group
func NewGroup(options ...GroupBuilderOption) Group {
	g := &group{
		workers: max(runtime.NumCPU()-1, 1),
		queue:   256,
	}
	for _, option := range options {
		option(g)
	}
	if g.workers > 1 {
		g.pool = worker.NewDynamicWorkerPool(g.workers, g.queue, 1*time.Second)
	}
	return g
}

func (g *group) Add(members ...Updater) {
	g.members = append(g.members, members...)
}

func (g *group) Len() int {
	return len(g.members)
}

func (g *group) Update(deltaTime float32) {
	if g.pool == nil || len(g.members) < 2 {
		for _, m := range g.members {
			m.Update(deltaTime)
		}
		return
	}

	var wg sync.WaitGroup
	for i, m := range g.members {
		wg.Add(1)
		member := m // capture for closure
		g.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				member.Update(deltaTime)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (g *group) Close() {
	if g.pool == nil {
		return
	}
	g.pool.Stop()
	g.pool = nil
}

// GroupBuilderOption is a functional option for configuring a Group during construction.
type GroupBuilderOption func(*group)

// WithWorkers sets the number of pool workers. Values below 2 update members inline.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - GroupBuilderOption: functional option to set the worker count
func WithWorkers(n int) GroupBuilderOption {
	return func(g *group) {
		g.workers = n
	}
}

// WithQueueSize sets the pool's task queue capacity.
//
// Parameters:
//   - n: the queue size
//
// Returns:
//   - GroupBuilderOption: functional option to set the queue size
func WithQueueSize(n int) GroupBuilderOption {
	return func(g *group) {
		if n > 0 {
			g.queue = n
		}
	}
}
