package relocate

// Event is one item on a run's event stream: ProgressEvent, LogEvent or DoneEvent.
type Event interface {
	isEvent()
}

// ProgressEvent reports position within the run. Current is 1-based; Percent
// is floor(Current*100/Total) and never decreases within a run.
type ProgressEvent struct {
	Current int
	Total   int
	Percent int
	Label   string
}

// LogEvent is a human-readable line for the caller's log view.
type LogEvent struct {
	Message string
}

// DoneEvent is always the last event of a run.
type DoneEvent struct {
	Summary Summary
}

func (ProgressEvent) isEvent() {}
func (LogEvent) isEvent()      {}
func (DoneEvent) isEvent()     {}

// Sink receives engine output. Implementations that also satisfy Canceller
// are polled before every item.
type Sink interface {
	Progress(ProgressEvent)
	Log(message string)
}

// Canceller is the cooperative cancellation check.
type Canceller interface {
	Cancelled() bool
}

// Callbacks adapts three plain functions to Sink and Canceller. Nil fields
// are ignored.
type Callbacks struct {
	OnProgress  func(current, total, percent int, label string)
	OnLog       func(message string)
	IsCancelled func() bool
}

func (c Callbacks) Progress(p ProgressEvent) {
	if c.OnProgress != nil {
		c.OnProgress(p.Current, p.Total, p.Percent, p.Label)
	}
}

func (c Callbacks) Log(message string) {
	if c.OnLog != nil {
		c.OnLog(message)
	}
}

func (c Callbacks) Cancelled() bool {
	return c.IsCancelled != nil && c.IsCancelled()
}

// Drain consumes run events on the calling goroutine, dispatching them to cb,
// until the run finishes. cb.IsCancelled is polled after every event and
// cancels the run once it reports true. The worker may already be several
// items ahead by then; use Relocator.Stream when IsCancelled must stop the run
// before the next item. Returns the run summary.
func Drain(run *Run, cb Callbacks) Summary {
	for ev := range run.Events() {
		switch e := ev.(type) {
		case ProgressEvent:
			cb.Progress(e)
		case LogEvent:
			cb.Log(e.Message)
		}
		if cb.Cancelled() {
			run.Cancel()
		}
	}
	return run.Wait()
}
