// Package provision runs the Trello invitation workflow: log in, open the
// workspace, invite the email address and confirm the invitation.
//
// Every UI interaction is an actuator.ActionSpec whose strategies come from a
// built-in catalog keyed by action name. The config file can replace the
// strategies of any action; {email} and {workspace} placeholders in an
// override are filled in from the run target.
//
// The steps run strictly in order and the first failure ends the run. Apart
// from the actuator's own strategy fallback, the only local recoveries are
// the optional continue button during login, pressing Enter when no submit
// button is found, and the configurable workspace re-attempt from the boards
// page.
package provision
