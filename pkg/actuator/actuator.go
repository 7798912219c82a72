package actuator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/browser"
)

// Logger is the log sink the actuator writes attempt lines to.
type Logger interface {
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

// Actuator runs ActionSpecs against a session.
type Actuator struct {
	logger Logger
}

// New creates an actuator logging to logger.
func New(logger Logger) *Actuator {
	return &Actuator{logger: logger}
}

// Perform tries action's strategies in order and returns on the first one
// that both locates an element and completes the interaction.
//
// Only cancellation of ctx stops the iteration early; every other failure
// moves on to the next strategy.
func (a *Actuator) Perform(ctx context.Context, s *browser.Session, action ActionSpec) (*Result, error) {
	if err := action.Validate(); err != nil {
		return nil, err
	}

	total := len(action.Strategies)
	var last error

	for i, strategy := range action.Strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		result, err := a.attempt(ctx, s, action, strategy)
		if err == nil {
			result.Strategy = strategy
			result.Index = i + 1
			result.Attempts = i + 1
			a.logger.Infof("%s: strategy %d/%d %s succeeded in %s%s",
				action.Name, i+1, total, strategy, time.Since(start).Round(time.Millisecond), a.describe(action))
			return result, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			a.logger.Warnf("%s: strategy %d/%d %s interrupted: %v", action.Name, i+1, total, strategy, ctxErr)
			return nil, ctxErr
		}

		a.logger.Warnf("%s: strategy %d/%d %s %s: %v",
			action.Name, i+1, total, strategy, failureKind(err), err)
		last = err
	}

	return nil, &ActionError{
		ActionName: action.Name,
		Attempted:  total,
		Last:       last,
	}
}

func (a *Actuator) attempt(ctx context.Context, s *browser.Session, action ActionSpec, strategy browser.Locator) (*Result, error) {
	el, err := s.Find(ctx, strategy)
	if err != nil {
		return nil, err
	}

	interactCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	result := &Result{Element: el}
	switch action.Interaction {
	case Click:
		err = el.Click(interactCtx)
		// a click may navigate
		s.URL()
	case TypeText:
		err = el.Fill(interactCtx, action.Text)
	case PressKey:
		err = el.Press(interactCtx, action.Text)
	case ReadText:
		result.Text, err = el.Text(interactCtx)
	}
	if err != nil {
		return nil, fmt.Errorf("%s rejected: %w", action.Interaction, err)
	}
	return result, nil
}

// describe renders the interaction input for the success line.
func (a *Actuator) describe(action ActionSpec) string {
	switch action.Interaction {
	case TypeText:
		if action.Sensitive {
			return " (typed [redacted])"
		}
		return fmt.Sprintf(" (typed %q)", action.Text)
	case PressKey:
		return fmt.Sprintf(" (pressed %s)", action.Text)
	default:
		return ""
	}
}

func failureKind(err error) string {
	if errors.Is(err, browser.ErrNotFound) {
		return "not found"
	}
	return "failed"
}
