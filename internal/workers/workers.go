package workers

// Workers runs a set of background workers as one unit.
type Workers struct {
	workers []Worker
}

// NewWorkers aggregates the given workers. Run starts them in the order
// they are passed here.
func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker in order.
func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
