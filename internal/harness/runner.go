package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quill/internal/app"
	"quill/internal/logger"
	"quill/pkg/keys"
)

// ForceQuitMacro is the key sequence synthesized to terminate an application
// whose scenario does not end in a natural exit: escape any mode, then force
// quit.
const ForceQuitMacro = "<esc>:q!<ret>"

// DefaultShutdownTimeout bounds the forced-shutdown phase. The right value is
// host-performance-dependent, so it is deliberately conservative and can be
// overridden per scenario through Options.
const DefaultShutdownTimeout = 5 * time.Second

// inputQueueSize is the minimum capacity of the synthetic input channel.
const inputQueueSize = 1024

// Options tune a scenario run.
type Options struct {
	// ShutdownTimeout bounds the forced-shutdown phase; zero means
	// DefaultShutdownTimeout. The idle-drain phase is never time-bounded:
	// a hang there is an application defect the harness must not mask.
	ShutdownTimeout time.Duration
}

// Step is one scenario step: an optional key macro to inject, then an optional
// validation run against the live application once the loop has quiesced.
type Step struct {
	Keys     string
	Validate func(*app.Application)
}

// KeySequence runs a single-step scenario. See KeySequences.
func KeySequence(a *app.Application, macro string, validate func(*app.Application), expectExit bool) error {
	return KeySequences(a, []Step{{Keys: macro, Validate: validate}}, expectExit)
}

// KeySequences drives the application through the ordered steps and verifies
// its exit behavior. Only the final step may observe application exit, and on
// that step the observation must match expectExit exactly. The application is
// always closed afterwards, however the scenario ended, and any close errors
// fail the scenario.
func KeySequences(a *app.Application, steps []Step, expectExit bool) error {
	return KeySequencesWith(Options{}, a, steps, expectExit)
}

// KeySequencesWith is KeySequences with explicit options.
func KeySequencesWith(opts Options, a *app.Application, steps []Step, expectExit bool) error {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}

	// The producer half belongs to the harness, the consumer half to the
	// application's event loop, for the lifetime of the scenario.
	input := make(chan app.Input, queueCapacity(steps))

	runErr := driveSteps(opts, a, input, steps, expectExit)

	closeErrs := a.Close()
	var closeErr error
	if len(closeErrs) > 0 {
		for _, err := range closeErrs {
			hlog.Error("Error closing application", "error", err)
		}
		closeErr = fmt.Errorf("%d error(s) closing application", len(closeErrs))
	}

	return errors.Join(runErr, closeErr)
}

var hlog = logger.NewStyledLogger("Harness")

// queueCapacity returns a channel capacity the scenario's injections can never
// fill: every key event consumes at least one rune of its macro, so the total
// macro length bounds the total event count and the producer never blocks.
func queueCapacity(steps []Step) int {
	n := len(ForceQuitMacro)
	for _, step := range steps {
		n += len(step.Keys)
	}
	if n < inputQueueSize {
		n = inputQueueSize
	}
	return n
}

// driveSteps is the injection state machine: per step, enqueue the translated
// key sequence in order, then run the loop until it reports quiescence or
// exit. If no exit is expected by the end, force a clean shutdown under a
// bounded wait.
func driveSteps(opts Options, a *app.Application, input chan app.Input, steps []Step, expectExit bool) error {
	for i, step := range steps {
		hlog.Debug("Executing step with document state", "step", i+1, "state", a.Editor.Snapshot())

		if step.Keys != "" {
			if err := injectMacro(input, step.Keys); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		exited := !a.EventLoopUntilIdle(input)

		if !exited {
			hlog.Debug("Finished step with document state", "step", i+1, "state", a.Editor.Snapshot())
		}

		last := i == len(steps)-1
		if exited && !last {
			return fmt.Errorf("premature exit: application exited on step %d of %d", i+1, len(steps))
		}
		if last && exited != expectExit {
			return fmt.Errorf("exit expectation mismatch: expected exit=%v, observed exit=%v", expectExit, exited)
		}

		if step.Validate != nil {
			step.Validate(a)
		}
	}

	if !expectExit {
		if err := injectMacro(input, ForceQuitMacro); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
		defer cancel()
		if err := a.EventLoop(ctx, input); err != nil {
			return fmt.Errorf("application hung during forced shutdown (waited %s): %w", opts.ShutdownTimeout, err)
		}
	}

	return nil
}

// injectMacro expands a macro string and pushes its key events onto the input
// channel in original order.
func injectMacro(input chan<- app.Input, macro string) error {
	events, err := keys.ParseMacro(macro)
	if err != nil {
		return fmt.Errorf("parsing macro %q: %w", macro, err)
	}
	for _, ev := range events {
		hlog.Debug("Sending key", "key", ev.String())
		input <- app.Input{Key: ev}
	}
	return nil
}
