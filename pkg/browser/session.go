package browser

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Session is the one browser session of a provisioning run. It owns the
// driver for its whole lifetime.
type Session struct {
	// Driver is the active browser backend
	Driver Driver

	// Timeout bounds each wait-for-element step
	Timeout time.Duration

	// Authenticated is set once login has been confirmed
	Authenticated bool

	// Headless indicates if the browser is running in headless mode
	Headless bool

	// CreatedAt is the timestamp when the session was created
	CreatedAt time.Time

	// LastUsedAt is the timestamp of the last operation on this session
	LastUsedAt time.Time

	// CurrentURL is the URL of the current page
	CurrentURL string

	closeOnce sync.Once
	closeErr  error
}

// NewSession wraps an already running driver.
func NewSession(driver Driver, opts SessionOptions) *Session {
	opts.applyDefaults()
	now := time.Now()
	return &Session{
		Driver:     driver,
		Timeout:    opts.Timeout,
		Headless:   opts.Headless,
		CreatedAt:  now,
		LastUsedAt: now,
		CurrentURL: "about:blank",
	}
}

// Open launches the backend named in opts and returns a session on a fresh page.
func Open(opts SessionOptions) (*Session, error) {
	opts.applyDefaults()

	var (
		driver Driver
		err    error
	)
	switch opts.Driver {
	case DriverPlaywright:
		driver, err = launchPlaywright(opts)
	case DriverRod:
		driver, err = launchRod(opts)
	default:
		return nil, fmt.Errorf("unsupported driver: %s (must be 'playwright' or 'rod')", opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	return NewSession(driver, opts), nil
}

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.LastUsedAt = time.Now()
}

// Navigate loads url and records the resulting page URL.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.UpdateLastUsed()

	if err := s.Driver.Navigate(ctx, url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	s.CurrentURL = s.Driver.URL()
	return nil
}

// Find locates one element, waiting at most the session timeout. Running out
// of time is reported exactly like an immediate miss: an error wrapping
// ErrNotFound.
func (s *Session) Find(ctx context.Context, loc Locator) (Element, error) {
	s.UpdateLastUsed()

	findCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	el, err := s.Driver.Find(findCtx, loc)
	if err != nil {
		// the parent context ending is not a locate failure
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if findCtx.Err() != nil {
			return nil, fmt.Errorf("%w: %s (waited %s)", ErrNotFound, loc, s.Timeout)
		}
		return nil, err
	}
	return el, nil
}

// URL returns the current page URL and caches it on the session.
func (s *Session) URL() string {
	s.CurrentURL = s.Driver.URL()
	return s.CurrentURL
}

// Content returns the current page HTML.
func (s *Session) Content(ctx context.Context) (string, error) {
	s.UpdateLastUsed()

	html, err := s.Driver.Content(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}

// Close releases the driver. Safe to call multiple times.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.Driver != nil {
			s.closeErr = s.Driver.Close()
		}
	})
	return s.closeErr
}
