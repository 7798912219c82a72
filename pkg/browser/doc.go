// Package browser provides the browser session used by the provisioning run
// and the driver backends that control the browser.
//
// The package is built around three concepts:
//
//  1. Locator: a (kind, value) pair naming one way to find an element
//  2. Driver: a backend that can navigate, find elements and read the page
//  3. Session: the single browser session owned by a run, with its timeout
//     and authenticated flag
//
// # Backends
//
// Two backends implement Driver:
//
//   - playwright: github.com/playwright-community/playwright-go (default)
//   - rod: github.com/go-rod/rod, talking CDP to a locally launched Chromium
//
// Both translate a Locator into their own selector syntax and report a locate
// that runs out of time as ErrNotFound, so callers never need to know which
// backend is active.
//
// # Session Lifecycle
//
//  1. Open: launch the backend and create the page
//  2. Use: Navigate, Find, Content and URL operate on the page
//  3. Close: release the page, context, browser and backend process
//
// # Example Usage
//
//	session, err := browser.Open(browser.SessionOptions{
//	    Driver:   browser.DriverPlaywright,
//	    Headless: true,
//	    Timeout:  10 * time.Second,
//	})
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	err = session.Navigate(ctx, "https://trello.com/login")
//	el, err := session.Find(ctx, browser.ID("username"))
package browser
