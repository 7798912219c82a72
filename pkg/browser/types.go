package browser

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Driver.Find when no element matched the locator
// before the deadline.
var ErrNotFound = errors.New("element not found")

// DriverName selects a browser backend.
type DriverName string

const (
	// DriverPlaywright drives Chromium through playwright-go
	DriverPlaywright DriverName = "playwright"

	// DriverRod drives Chromium through rod over CDP
	DriverRod DriverName = "rod"
)

// Driver is the browser-control surface a Session needs.
type Driver interface {
	// Navigate loads url in the current page.
	Navigate(ctx context.Context, url string) error

	// Find waits until an element matching loc is attached to the page or
	// ctx is done. A locate that runs out of time returns an error wrapping
	// ErrNotFound.
	Find(ctx context.Context, loc Locator) (Element, error)

	// URL returns the URL of the current page.
	URL() string

	// Content returns the serialized HTML of the current page.
	Content(ctx context.Context) (string, error)

	// Close releases every resource held by the backend.
	Close() error
}

// Element is a located element handle.
type Element interface {
	Click(ctx context.Context) error
	Fill(ctx context.Context, text string) error
	Press(ctx context.Context, key string) error
	Text(ctx context.Context) (string, error)
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Driver selects the backend (default playwright)
	Driver DriverName

	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout bounds every wait-for-element step
	Timeout time.Duration

	// PageLoadTimeout bounds navigation
	PageLoadTimeout time.Duration

	// UserAgent overrides the browser user agent when set
	UserAgent string

	// InstallBrowsers downloads the playwright driver and browsers before launch
	InstallBrowsers bool
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Default values for session options
const (
	DefaultTimeout         = 10 * time.Second
	DefaultPageLoadTimeout = 30 * time.Second
	DefaultViewportWidth   = 1280
	DefaultViewportHeight  = 720
	DefaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// chromiumArgs mirrors the flags used for unattended Chromium runs.
var chromiumArgs = []string{
	"--no-sandbox",
	"--disable-dev-shm-usage",
	"--disable-gpu",
	"--disable-extensions",
	"--disable-blink-features=AutomationControlled",
}

func (o *SessionOptions) applyDefaults() {
	if o.Driver == "" {
		o.Driver = DriverPlaywright
	}
	if o.Viewport == nil {
		o.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.PageLoadTimeout <= 0 {
		o.PageLoadTimeout = DefaultPageLoadTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
}
