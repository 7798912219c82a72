// Package actuator performs named UI actions against a browser session by
// trying an ordered list of locator strategies until one locates an element
// and the interaction on it succeeds.
//
// Strategies are evaluated strictly in declared order and the first success
// wins. A strategy that cannot locate its element within the session timeout,
// or whose interaction fails, is a soft failure: the next strategy is tried.
// The same strategy is never tried twice. When every strategy has failed,
// Perform returns an *ActionError that matches ErrAllStrategiesExhausted.
//
// Every attempted strategy produces exactly one log line, so a run log shows
// which selector finally worked for each action.
//
// Retrying a whole action (for example after reloading the page) is left to
// the caller.
package actuator
