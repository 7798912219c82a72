package provision

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/browser"
)

// Action names. They key the selector overrides in the config file.
const (
	ActionUsername      = "username_input"
	ActionContinue      = "continue_button"
	ActionPassword      = "password_input"
	ActionLogin         = "login_button"
	ActionWorkspace     = "workspace_link"
	ActionInvite        = "invite_button"
	ActionEmail         = "email_input"
	ActionSubmit        = "submit_button"
	ActionSubmitEnter   = "submit_enter"
	ActionVerifyMember  = "verify_member"
	ActionVerifyMessage = "verify_message"
)

// Placeholders expanded in selector overrides. Inside xpath locators they
// become quoted XPath literals; elsewhere the raw value is inserted.
const (
	PlaceholderEmail     = "{email}"
	PlaceholderWorkspace = "{workspace}"
)

// targets are the run values some strategies are generated from
type targets struct {
	Email     string
	Workspace string
}

const (
	upperAlpha = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerAlpha = "abcdefghijklmnopqrstuvwxyz"
)

var catalog = map[string]func(t targets) []browser.Locator{
	ActionUsername: func(targets) []browser.Locator {
		return []browser.Locator{
			browser.ID("username"),
			browser.ID("user"),
			browser.Attribute("name", "username"),
		}
	},
	ActionContinue: func(targets) []browser.Locator {
		return []browser.Locator{
			browser.ID("login-submit"),
			browser.ID("login"),
		}
	},
	ActionPassword: func(targets) []browser.Locator {
		return []browser.Locator{
			browser.ID("password"),
			browser.Attribute("name", "password"),
			browser.CSS(`input[type="password"]`),
		}
	},
	ActionLogin: func(targets) []browser.Locator {
		return []browser.Locator{
			browser.ID("login-submit"),
			browser.CSS(`button[type="submit"]`),
		}
	},
	ActionWorkspace: func(t targets) []browser.Locator {
		lit := browser.XPathLiteral(t.Workspace)
		lower := browser.XPathLiteral(strings.ToLower(t.Workspace))
		return []browser.Locator{
			browser.XPath(fmt.Sprintf("//a[contains(text(), %s)]", lit)),
			browser.XPath(fmt.Sprintf("//div[contains(text(), %s)]", lit)),
			browser.XPath(fmt.Sprintf("//span[contains(text(), %s)]", lit)),
			browser.XPath(fmt.Sprintf("//*[@data-testid='workspace-name'][contains(text(), %s)]", lit)),
			browser.XPath(fmt.Sprintf("//*[contains(@class, 'workspace')]//*[contains(text(), %s)]", lit)),
			browser.XPath(fmt.Sprintf("//span[contains(translate(text(), '%s', '%s'), %s)]", upperAlpha, lowerAlpha, lower)),
		}
	},
	ActionInvite: func(targets) []browser.Locator {
		return []browser.Locator{
			browser.XPath("//button[contains(text(), 'Invite')]"),
			browser.XPath("//button[contains(text(), 'Members')]"),
			browser.XPath("//a[contains(text(), 'Invite')]"),
			browser.TestID("invite-button"),
			browser.TestID("members-button"),
			browser.XPath("//button[contains(@class, 'invite')]"),
			browser.XPath("//button[contains(@title, 'Invite')]"),
			browser.XPath("//*[contains(@class, 'workspace-header')]//*[contains(text(), 'Invite')]"),
		}
	},
	ActionEmail: func(targets) []browser.Locator {
		return []browser.Locator{
			browser.XPath("//input[contains(@placeholder, 'email')]"),
			browser.XPath("//input[contains(@id, 'email')]"),
			browser.XPath("//input[contains(@name, 'email')]"),
			browser.XPath("//input[@type='email']"),
			browser.TestID("invite-email-input"),
			browser.TestID("invite-to-workspace-email-input"),
			browser.XPath("//textarea[contains(@placeholder, 'email')]"),
		}
	},
	// The header Invite button stays on the page behind the dialog, so
	// anything that could match it is scoped to the dialog.
	ActionSubmit: func(targets) []browser.Locator {
		return []browser.Locator{
			browser.XPath("//button[contains(text(), 'Send')]"),
			browser.XPath("//*[@role='dialog']//button[contains(text(), 'Invite')]"),
			browser.XPath("//*[@role='dialog']//button[@type='submit']"),
			browser.TestID("send-invite-button"),
			browser.TestID("invite-to-workspace-submit"),
			browser.XPath("//*[@role='dialog']//input[@type='submit']"),
		}
	},
	// submit_enter has no defaults of its own; it reuses the locator that
	// found the email field.
	ActionSubmitEnter: func(targets) []browser.Locator {
		return nil
	},
	ActionVerifyMember: func(t targets) []browser.Locator {
		lit := browser.XPathLiteral(t.Email)
		return []browser.Locator{
			browser.XPath(fmt.Sprintf("//*[contains(text(), %s)]", lit)),
			browser.XPath(fmt.Sprintf("//span[contains(@title, %s)]", lit)),
			browser.XPath(fmt.Sprintf("//*[@data-testid='member'][contains(., %s)]", lit)),
			browser.XPath(fmt.Sprintf("//*[contains(@class, 'member')][contains(., %s)]", lit)),
		}
	},
	ActionVerifyMessage: func(targets) []browser.Locator {
		return []browser.Locator{
			browser.XPath("//*[contains(text(), 'invited')]"),
			browser.XPath("//*[contains(text(), 'sent')]"),
			browser.XPath("//*[contains(text(), 'added')]"),
			browser.XPath("//*[contains(@class, 'success')]"),
		}
	},
}

// ActionNames lists every action with a strategy catalog entry.
func ActionNames() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultStrategies returns the built-in strategies for action.
func DefaultStrategies(action, email, workspace string) ([]browser.Locator, error) {
	gen, ok := catalog[action]
	if !ok {
		return nil, fmt.Errorf("unknown action: %s", action)
	}
	return gen(targets{Email: email, Workspace: workspace}), nil
}

// expand fills the placeholders of an override locator.
func expand(loc browser.Locator, t targets) browser.Locator {
	email, workspace := t.Email, t.Workspace
	if loc.Kind == browser.LocatorXPath {
		email = browser.XPathLiteral(email)
		workspace = browser.XPathLiteral(workspace)
	}
	r := strings.NewReplacer(PlaceholderEmail, email, PlaceholderWorkspace, workspace)
	return browser.Locator{Kind: loc.Kind, Value: r.Replace(loc.Value)}
}
