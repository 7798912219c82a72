package browser

import (
	"fmt"
	"strings"
)

// LocatorKind names a way of finding an element.
type LocatorKind string

const (
	// LocatorXPath matches a structural XPath expression
	LocatorXPath LocatorKind = "xpath"

	// LocatorCSS matches a CSS selector
	LocatorCSS LocatorKind = "css"

	// LocatorID matches the element id attribute
	LocatorID LocatorKind = "id"

	// LocatorText matches visible text (substring, case-insensitive on playwright)
	LocatorText LocatorKind = "text"

	// LocatorAttribute matches "name=value" or the presence of "name"
	LocatorAttribute LocatorKind = "attribute"

	// LocatorTestID matches the data-testid attribute
	LocatorTestID LocatorKind = "testid"
)

var validKinds = map[LocatorKind]bool{
	LocatorXPath:     true,
	LocatorCSS:       true,
	LocatorID:        true,
	LocatorText:      true,
	LocatorAttribute: true,
	LocatorTestID:    true,
}

// Locator is one strategy for finding an element. Locators are values and
// never change once an action is defined.
type Locator struct {
	Kind  LocatorKind `yaml:"kind" json:"kind"`
	Value string      `yaml:"value" json:"value"`
}

// XPath returns an xpath locator.
func XPath(expr string) Locator { return Locator{Kind: LocatorXPath, Value: expr} }

// CSS returns a css locator.
func CSS(selector string) Locator { return Locator{Kind: LocatorCSS, Value: selector} }

// ID returns an id locator.
func ID(id string) Locator { return Locator{Kind: LocatorID, Value: id} }

// Text returns a visible-text locator.
func Text(text string) Locator { return Locator{Kind: LocatorText, Value: text} }

// Attribute returns an attribute locator for name=value.
func Attribute(name, value string) Locator {
	return Locator{Kind: LocatorAttribute, Value: name + "=" + value}
}

// TestID returns a data-testid locator.
func TestID(id string) Locator { return Locator{Kind: LocatorTestID, Value: id} }

// String renders the locator as kind=value, the same form ParseLocator accepts.
func (l Locator) String() string {
	return string(l.Kind) + "=" + l.Value
}

// Validate checks the kind is known and the value is non-empty.
func (l Locator) Validate() error {
	if !validKinds[l.Kind] {
		return fmt.Errorf("invalid locator kind: %q (must be xpath, css, id, text, attribute or testid)", l.Kind)
	}
	if strings.TrimSpace(l.Value) == "" {
		return fmt.Errorf("locator %s has an empty value", l.Kind)
	}
	if l.Kind == LocatorAttribute && strings.HasPrefix(l.Value, "=") {
		return fmt.Errorf("attribute locator %q has no attribute name", l.Value)
	}
	return nil
}

// ParseLocator parses "kind=value". The value may itself contain '='.
func ParseLocator(s string) (Locator, error) {
	kind, value, ok := strings.Cut(s, "=")
	if !ok {
		return Locator{}, fmt.Errorf("locator %q must have the form kind=value", s)
	}
	loc := Locator{Kind: LocatorKind(strings.TrimSpace(kind)), Value: value}
	if err := loc.Validate(); err != nil {
		return Locator{}, err
	}
	return loc, nil
}

// PlaywrightSelector renders the locator in playwright selector syntax.
func (l Locator) PlaywrightSelector() (string, error) {
	if err := l.Validate(); err != nil {
		return "", err
	}
	switch l.Kind {
	case LocatorXPath:
		return "xpath=" + l.Value, nil
	case LocatorText:
		return "text=" + l.Value, nil
	default:
		return "css=" + l.css(), nil
	}
}

// rodQuery renders the locator for rod, which accepts either CSS or XPath.
func (l Locator) rodQuery() (query string, isXPath bool, err error) {
	if err := l.Validate(); err != nil {
		return "", false, err
	}
	switch l.Kind {
	case LocatorXPath:
		return l.Value, true, nil
	case LocatorText:
		return "//*[text()[contains(., " + XPathLiteral(l.Value) + ")]]", true, nil
	default:
		return l.css(), false, nil
	}
}

// css renders every non-xpath, non-text kind as a CSS selector.
func (l Locator) css() string {
	switch l.Kind {
	case LocatorID:
		return `[id="` + cssQuote(l.Value) + `"]`
	case LocatorTestID:
		return `[data-testid="` + cssQuote(l.Value) + `"]`
	case LocatorAttribute:
		name, value, ok := strings.Cut(l.Value, "=")
		if !ok {
			return "[" + name + "]"
		}
		return "[" + name + `="` + cssQuote(value) + `"]`
	default:
		return l.Value
	}
}

func cssQuote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// XPathLiteral quotes s as an XPath 1.0 string literal. Strings holding both
// quote characters are built with concat().
func XPathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	var b strings.Builder
	b.WriteString("concat(")
	for i, p := range parts {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'" + p + "'")
	}
	b.WriteString(")")
	return b.String()
}
