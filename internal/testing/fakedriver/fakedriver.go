// Package fakedriver provides a scripted browser.Driver for tests.
//
// Elements are registered under the exact Locator that should find them. Any
// other locator misses immediately with browser.ErrNotFound, and locators
// registered with Block wait for the context deadline before missing.
package fakedriver

import (
	"context"
	"fmt"
	"sync"

	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/browser"
)

// Driver is an in-memory browser.Driver.
type Driver struct {
	mu       sync.Mutex
	url      string
	content  string
	elements map[browser.Locator]*Element
	blocked  map[browser.Locator]bool
	closed   bool

	// Finds records every locator passed to Find, in order
	Finds []browser.Locator

	// Navigations records every URL passed to Navigate, in order
	Navigations []string

	// OnNavigate runs after the URL has been updated
	OnNavigate func(d *Driver, url string)

	// NavigateErr is returned by Navigate when set
	NavigateErr error
}

// New returns an empty driver sitting on about:blank.
func New() *Driver {
	return &Driver{
		url:      "about:blank",
		elements: make(map[browser.Locator]*Element),
		blocked:  make(map[browser.Locator]bool),
	}
}

// Add registers el under loc and returns it.
func (d *Driver) Add(loc browser.Locator, el *Element) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el == nil {
		el = &Element{}
	}
	if el.driver == nil {
		el.driver = d
	}
	d.elements[loc] = el
	return el
}

// Remove unregisters loc.
func (d *Driver) Remove(loc browser.Locator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, loc)
}

// Block makes Find on loc wait until the context is done.
func (d *Driver) Block(loc browser.Locator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.blocked[loc] = true
}

// SetURL sets the current page URL.
func (d *Driver) SetURL(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = url
}

// SetContent sets the HTML returned by Content.
func (d *Driver) SetContent(html string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.content = html
}

// Closed reports whether Close has been called.
func (d *Driver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// FindCount returns how many times loc was looked up.
func (d *Driver) FindCount(loc browser.Locator) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, f := range d.Finds {
		if f == loc {
			n++
		}
	}
	return n
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	if d.NavigateErr != nil {
		d.mu.Unlock()
		return d.NavigateErr
	}
	d.url = url
	d.Navigations = append(d.Navigations, url)
	hook := d.OnNavigate
	d.mu.Unlock()

	if hook != nil {
		hook(d, url)
	}
	return nil
}

func (d *Driver) Find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	d.mu.Lock()
	d.Finds = append(d.Finds, loc)
	el, found := d.elements[loc]
	blocked := d.blocked[loc]
	d.mu.Unlock()

	if blocked {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", browser.ErrNotFound, loc)
	}
	return el, nil
}

func (d *Driver) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url
}

func (d *Driver) Content(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.content, nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Element is a scripted browser.Element.
type Element struct {
	// TextValue is returned by Text
	TextValue string

	// ClickErr, FillErr and PressErr are returned by the matching interaction
	ClickErr error
	FillErr  error
	PressErr error

	// OnClick runs after a successful click, e.g. to change the page URL
	OnClick func(d *Driver)

	Clicks  int
	Filled  []string
	Pressed []string

	driver *Driver
}

func (e *Element) Click(ctx context.Context) error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicks++
	if e.OnClick != nil {
		e.OnClick(e.driver)
	}
	return nil
}

func (e *Element) Fill(ctx context.Context, text string) error {
	if e.FillErr != nil {
		return e.FillErr
	}
	e.Filled = append(e.Filled, text)
	return nil
}

func (e *Element) Press(ctx context.Context, key string) error {
	if e.PressErr != nil {
		return e.PressErr
	}
	e.Pressed = append(e.Pressed, key)
	return nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.TextValue, nil
}
