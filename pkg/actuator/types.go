package actuator

import (
	"errors"
	"fmt"

	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/browser"
)

// InteractionKind is what to do with the located element.
type InteractionKind string

const (
	// Click clicks the element
	Click InteractionKind = "click"

	// TypeText replaces the element's value with ActionSpec.Text
	TypeText InteractionKind = "type"

	// ReadText reads the element's text content
	ReadText InteractionKind = "read"

	// PressKey presses the key named by ActionSpec.Text while the element has focus
	PressKey InteractionKind = "press"
)

// ActionSpec describes one logical UI action. It is built at call time and
// discarded after use.
type ActionSpec struct {
	// Name identifies the action in logs and errors
	Name string

	// Strategies are tried in this order
	Strategies []browser.Locator

	// Interaction is performed on the first located element
	Interaction InteractionKind

	// Text is typed for TypeText and names the key for PressKey
	Text string

	// Sensitive keeps Text out of log lines
	Sensitive bool

	// Optional marks an action whose exhaustion the caller tolerates.
	// Perform itself ignores it.
	Optional bool
}

// Validate checks the interaction is known and carries the input it needs.
func (a ActionSpec) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("action name is required")
	}
	switch a.Interaction {
	case Click, ReadText:
	case TypeText:
		// typing an empty string clears the field
	case PressKey:
		if a.Text == "" {
			return fmt.Errorf("action %s: key is required for press", a.Name)
		}
	default:
		return fmt.Errorf("action %s: invalid interaction: %q (must be 'click', 'type', 'read', or 'press')", a.Name, a.Interaction)
	}
	return nil
}

// Result is the outcome of a successful Perform.
type Result struct {
	// Element is the handle the interaction was performed on
	Element browser.Element

	// Strategy is the locator that succeeded
	Strategy browser.Locator

	// Index is the 1-based position of Strategy in the action
	Index int

	// Attempts is how many strategies were tried, including the winner
	Attempts int

	// Text holds the element text for ReadText
	Text string
}

// ErrAllStrategiesExhausted is matched by every *ActionError.
var ErrAllStrategiesExhausted = errors.New("all locator strategies exhausted")

// ActionError reports an action whose every strategy failed.
type ActionError struct {
	ActionName string
	Attempted  int

	// Last is the failure of the final strategy, nil when there were none
	Last error
}

func (e *ActionError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("action %q: %s after %d attempts", e.ActionName, ErrAllStrategiesExhausted, e.Attempted)
	}
	return fmt.Sprintf("action %q: %s after %d attempts: last error: %v", e.ActionName, ErrAllStrategiesExhausted, e.Attempted, e.Last)
}

// Is makes errors.Is(err, ErrAllStrategiesExhausted) hold.
func (e *ActionError) Is(target error) bool {
	return target == ErrAllStrategiesExhausted
}

func (e *ActionError) Unwrap() error {
	return e.Last
}
