package app

import "context"

// EventLoopUntilIdle consumes input events and runs self-scheduled reactions
// until no more work is immediately available, then returns whether the
// application is still alive. This is the quiescence point test drivers
// synchronize on: no sleeps, no timeouts, the loop itself reports convergence.
func (a *Application) EventLoopUntilIdle(input <-chan Input) bool {
	for {
		if !a.alive {
			return false
		}
		if a.runPendingJob() {
			continue
		}
		select {
		case in, ok := <-input:
			if !ok {
				return a.alive
			}
			a.handleInput(in)
		default:
			// queue drained, reactions done: quiescent
			return true
		}
	}
}

// EventLoop consumes input events until the application terminates, the input
// channel closes, or ctx is done. The caller bounds it with a deadline when
// forcing shutdown.
func (a *Application) EventLoop(ctx context.Context, input <-chan Input) error {
	for a.alive {
		if a.runPendingJob() {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in, ok := <-input:
			if !ok {
				return nil
			}
			a.handleInput(in)
		}
	}
	return nil
}

// schedule enqueues an internal reaction to run before the loop next reports
// idle. Reactions may schedule further reactions.
func (a *Application) schedule(job func()) {
	a.jobs = append(a.jobs, job)
}

// runPendingJob runs the oldest scheduled reaction, reporting whether there
// was one.
func (a *Application) runPendingJob() bool {
	if len(a.jobs) == 0 {
		return false
	}
	job := a.jobs[0]
	a.jobs = a.jobs[1:]
	job()
	return true
}

// handleInput routes one input envelope through the current mode's key
// handling. Input-source errors become error status messages.
func (a *Application) handleInput(in Input) {
	if in.Err != nil {
		a.Editor.SetError("input error: " + in.Err.Error())
		return
	}

	switch a.mode {
	case ModeInsert:
		a.handleInsertKey(in.Key)
	case ModeCommand:
		a.handleCommandKey(in.Key)
	default:
		a.handleNormalKey(in.Key)
	}
}
