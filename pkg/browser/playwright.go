package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"
)

// playwrightDriver drives a single Chromium page through playwright-go.
type playwrightDriver struct {
	pw              *playwright.Playwright
	browser         playwright.Browser
	context         playwright.BrowserContext
	page            playwright.Page
	pageLoadTimeout time.Duration
}

func launchPlaywright(opts SessionOptions) (*playwrightDriver, error) {
	// Discard driver output so it does not interleave with the run log
	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if opts.InstallBrowsers {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
		Args:     chromiumArgs,
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
		UserAgent: &opts.UserAgent,
	})
	if err != nil {
		browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(millis(opts.Timeout))
	page.SetDefaultNavigationTimeout(millis(opts.PageLoadTimeout))

	return &playwrightDriver{
		pw:              pw,
		browser:         browser,
		context:         context,
		page:            page,
		pageLoadTimeout: opts.PageLoadTimeout,
	}, nil
}

func (d *playwrightDriver) Navigate(ctx context.Context, url string) error {
	waitUntil := playwright.WaitUntilState("domcontentloaded")
	timeout := remainingMillis(ctx, d.pageLoadTimeout)

	if _, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: &waitUntil,
		Timeout:   &timeout,
	}); err != nil {
		return err
	}
	return nil
}

func (d *playwrightDriver) Find(ctx context.Context, loc Locator) (Element, error) {
	selector, err := loc.PlaywrightSelector()
	if err != nil {
		return nil, err
	}

	locator := d.page.Locator(selector).First()
	state := playwright.WaitForSelectorState("attached")
	timeout := remainingMillis(ctx, DefaultTimeout)

	if err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   &state,
		Timeout: &timeout,
	}); err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
		}
		return nil, err
	}

	return &playwrightElement{locator: locator}, nil
}

func (d *playwrightDriver) URL() string {
	return d.page.URL()
}

func (d *playwrightDriver) Content(ctx context.Context) (string, error) {
	return d.page.Content()
}

func (d *playwrightDriver) Close() error {
	var errs []error
	if err := d.page.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := d.context.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := d.browser.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := d.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

type playwrightElement struct {
	locator playwright.Locator
}

// Click clicks the element, falling back to a DOM click when the pointer
// event is intercepted by an overlay.
func (e *playwrightElement) Click(ctx context.Context) error {
	timeout := remainingMillis(ctx, DefaultTimeout)
	err := e.locator.Click(playwright.LocatorClickOptions{Timeout: &timeout})
	if err == nil {
		return nil
	}
	if _, evalErr := e.locator.Evaluate("el => el.click()", nil); evalErr != nil {
		return fmt.Errorf("click failed: %w", errors.Join(err, evalErr))
	}
	return nil
}

func (e *playwrightElement) Fill(ctx context.Context, text string) error {
	timeout := remainingMillis(ctx, DefaultTimeout)
	if err := e.locator.Fill(text, playwright.LocatorFillOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (e *playwrightElement) Press(ctx context.Context, key string) error {
	timeout := remainingMillis(ctx, DefaultTimeout)
	if err := e.locator.Press(key, playwright.LocatorPressOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("press %s failed: %w", key, err)
	}
	return nil
}

func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	timeout := remainingMillis(ctx, DefaultTimeout)
	text, err := e.locator.TextContent(playwright.LocatorTextContentOptions{Timeout: &timeout})
	if err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	return text, nil
}

func millis(d time.Duration) float64 {
	return float64(d / time.Millisecond)
}

// remainingMillis converts the time left on ctx into a playwright timeout,
// using fallback when ctx has no deadline.
func remainingMillis(ctx context.Context, fallback time.Duration) float64 {
	deadline, ok := ctx.Deadline()
	if !ok {
		return millis(fallback)
	}
	left := time.Until(deadline)
	if left < time.Millisecond {
		// playwright treats 0 as "no timeout"
		return 1
	}
	return millis(left)
}
