package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// rodDriver drives a locally launched Chromium over CDP.
type rodDriver struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	opts     SessionOptions
}

func launchRod(opts SessionOptions) (*rodDriver, error) {
	l := launcher.New().
		Leakless(true).
		Headless(opts.Headless).
		Set("user-agent", opts.UserAgent)
	for _, arg := range chromiumArgs {
		name, value := launcherFlag(arg)
		if value == "" {
			l = l.Set(name)
			continue
		}
		l = l.Set(name, value)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Viewport.Width,
		Height:            opts.Viewport.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	return &rodDriver{
		launcher: l,
		browser:  browser,
		page:     page,
		opts:     opts,
	}, nil
}

// launcherFlag splits "--name=value" into the pieces launcher.Set expects.
func launcherFlag(arg string) (flags.Flag, string) {
	name, value, _ := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
	return flags.Flag(name), value
}

func (d *rodDriver) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, d.opts.PageLoadTimeout)
	defer cancel()

	page := d.page.Context(navCtx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (d *rodDriver) Find(ctx context.Context, loc Locator) (Element, error) {
	query, isXPath, err := loc.rodQuery()
	if err != nil {
		return nil, err
	}

	page := d.page.Context(ctx)
	var el *rod.Element
	if isXPath {
		el, err = page.ElementX(query)
	} else {
		el, err = page.Element(query)
	}
	if err != nil {
		var notFound *rod.ElementNotFoundError
		if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
		}
		return nil, err
	}

	return &rodElement{el: el}, nil
}

func (d *rodDriver) URL() string {
	info, err := d.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (d *rodDriver) Content(ctx context.Context) (string, error) {
	return d.page.Context(ctx).HTML()
}

func (d *rodDriver) Close() error {
	err := d.browser.Close()
	d.launcher.Cleanup()
	return err
}

type rodElement struct {
	el *rod.Element
}

// Click falls back to a DOM click when another element covers the target,
// the same as the playwright backend. rod's own Click would wait for the
// cover to go away until ctx expires.
func (e *rodElement) Click(ctx context.Context) error {
	el := e.el.Context(ctx)
	if err := el.ScrollIntoView(); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}

	_, err := el.Interactable()
	var covered *rod.CoveredError
	if !errors.As(err, &covered) {
		err = el.Click(proto.InputMouseButtonLeft, 1)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("click failed: %w", err)
		}
	}

	if _, evalErr := el.Eval(`() => this.click()`); evalErr != nil {
		return fmt.Errorf("click failed: %w", errors.Join(err, evalErr))
	}
	return nil
}

func (e *rodElement) Fill(ctx context.Context, text string) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

var rodKeys = map[string]input.Key{
	"Enter":  input.Enter,
	"Tab":    input.Tab,
	"Escape": input.Escape,
}

func (e *rodElement) Press(ctx context.Context, key string) error {
	k, ok := rodKeys[key]
	if !ok {
		return fmt.Errorf("unsupported key: %s", key)
	}
	if err := e.el.Context(ctx).Type(k); err != nil {
		return fmt.Errorf("press %s failed: %w", key, err)
	}
	return nil
}

func (e *rodElement) Text(ctx context.Context) (string, error) {
	text, err := e.el.Context(ctx).Text()
	if err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	return text, nil
}
