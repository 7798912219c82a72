package browser_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhaskaranjappa/SaaS-autopilot/internal/testing/fakedriver"
	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/browser"
)

func TestSession_Defaults(t *testing.T) {
	s := browser.NewSession(fakedriver.New(), browser.SessionOptions{Headless: true})

	assert.Equal(t, browser.DefaultTimeout, s.Timeout)
	assert.True(t, s.Headless)
	assert.False(t, s.Authenticated)
	assert.Equal(t, "about:blank", s.CurrentURL)
}

func TestSession_NavigateRecordsURL(t *testing.T) {
	d := fakedriver.New()
	s := browser.NewSession(d, browser.SessionOptions{})

	require.NoError(t, s.Navigate(context.Background(), "https://trello.com/login"))
	assert.Equal(t, "https://trello.com/login", s.CurrentURL)
	assert.Equal(t, []string{"https://trello.com/login"}, d.Navigations)
}

func TestSession_NavigateError(t *testing.T) {
	d := fakedriver.New()
	d.NavigateErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
	s := browser.NewSession(d, browser.SessionOptions{})

	err := s.Navigate(context.Background(), "https://trello.com/login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "navigation failed")
}

func TestSession_FindFound(t *testing.T) {
	d := fakedriver.New()
	want := d.Add(browser.ID("username"), nil)
	s := browser.NewSession(d, browser.SessionOptions{})

	el, err := s.Find(context.Background(), browser.ID("username"))
	require.NoError(t, err)
	assert.Same(t, want, el)
}

func TestSession_FindTimeoutIsNotFound(t *testing.T) {
	d := fakedriver.New()
	loc := browser.TestID("invite-button")
	d.Block(loc)
	s := browser.NewSession(d, browser.SessionOptions{Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, waitErr := s.Find(context.Background(), loc)
	elapsed := time.Since(start)

	_, missErr := s.Find(context.Background(), browser.TestID("missing"))

	assert.ErrorIs(t, waitErr, browser.ErrNotFound)
	assert.ErrorIs(t, missErr, browser.ErrNotFound)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
}

func TestSession_FindParentCancelled(t *testing.T) {
	d := fakedriver.New()
	loc := browser.CSS("button")
	d.Block(loc)
	s := browser.NewSession(d, browser.SessionOptions{Timeout: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Find(ctx, loc)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, browser.ErrNotFound)
}

func TestSession_CloseOnce(t *testing.T) {
	d := fakedriver.New()
	s := browser.NewSession(d, browser.SessionOptions{})

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, d.Closed())
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := browser.Open(browser.SessionOptions{Driver: "selenium"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}
