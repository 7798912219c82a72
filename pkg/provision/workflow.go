package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/actuator"
	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/browser"
	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/challenge"
	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/config"
	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/logging"
	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/report"
)

// Step names as they appear in logs and the run report.
const (
	StepAuthenticate    = "authenticate"
	StepLocateWorkspace = "locate_workspace"
	StepOpenInvite      = "open_invite"
	StepEnterEmail      = "enter_email"
	StepSubmit          = "submit"
	StepVerify          = "verify"
)

const defaultPollInterval = 250 * time.Millisecond

// ChallengeResolver hands a detected challenge to a human and returns once
// they are done. An error aborts the run.
type ChallengeResolver interface {
	Resolve(ctx context.Context, finding *challenge.Finding) error
}

// Options tune a Workflow beyond the run config.
type Options struct {
	// Resolver handles challenges in visible mode. Nil fails on any challenge.
	Resolver ChallengeResolver

	// PollInterval is how often the post-login URL is checked
	PollInterval time.Duration

	// RunID identifies the run in the report; defaults to logging.RunID()
	RunID string
}

// Workflow runs the provisioning steps against one browser session.
type Workflow struct {
	session  *browser.Session
	actuator *actuator.Actuator
	config   *config.Config
	creds    config.Credentials
	matcher  *URLMatcher
	logger   *logging.Logger
	opts     Options
	targets  targets

	// emailStrategy is the locator that found the invite email field
	emailStrategy browser.Locator
}

// ValidateConfig checks the parts of cfg only this package understands: the
// auth URL patterns and the action names keying selector overrides. It needs
// no browser, so callers can run it before launching one.
func ValidateConfig(cfg *config.Config) error {
	if _, err := NewURLMatcher(cfg.Auth.SuccessPatterns, cfg.Auth.LoginPatterns); err != nil {
		return fmt.Errorf("invalid auth patterns: %w", err)
	}

	for action := range cfg.Selectors {
		if _, ok := catalog[action]; !ok {
			return fmt.Errorf("unknown action in selectors: %s (known: %v)", action, ActionNames())
		}
	}
	return nil
}

// New creates a workflow. The config must already be validated.
func New(s *browser.Session, cfg *config.Config, creds config.Credentials, logger *logging.Logger, opts Options) (*Workflow, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	matcher, err := NewURLMatcher(cfg.Auth.SuccessPatterns, cfg.Auth.LoginPatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid auth patterns: %w", err)
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.RunID == "" {
		opts.RunID = logging.RunID()
	}

	return &Workflow{
		session:  s,
		actuator: actuator.New(logger.Component("actuator")),
		config:   cfg,
		creds:    creds,
		matcher:  matcher,
		logger:   logger.Component("workflow"),
		opts:     opts,
		targets:  targets{Email: cfg.Email, Workspace: cfg.Workspace},
	}, nil
}

// tally accumulates the actuator outcomes of one step.
type tally struct {
	attempts int
	strategy string
}

func (t *tally) record(res *actuator.Result, err error) {
	if res != nil {
		t.attempts += res.Attempts
		t.strategy = res.Strategy.String()
		return
	}
	var ae *actuator.ActionError
	if errors.As(err, &ae) {
		t.attempts += ae.Attempted
	}
}

type step struct {
	name string
	run  func(ctx context.Context, t *tally) error
}

// Run executes every step in order and stops at the first failure. The
// report is returned in both cases.
func (w *Workflow) Run(ctx context.Context) (*report.Report, error) {
	rep := report.New(w.opts.RunID, w.config.Email, w.config.Workspace)
	rep.Driver = string(w.config.Browser.Driver)
	rep.Headless = w.session.Headless
	rep.LogPath = w.logger.LogPath()

	w.logger.Banner(fmt.Sprintf("Provisioning run %s: invite %s to %q", w.opts.RunID, w.config.Email, w.config.Workspace))

	steps := []step{
		{StepAuthenticate, w.authenticate},
		{StepLocateWorkspace, w.locateWorkspace},
		{StepOpenInvite, w.openInvite},
		{StepEnterEmail, w.enterEmail},
		{StepSubmit, w.submit},
		{StepVerify, w.verify},
	}

	var runErr error
	for i, st := range steps {
		if runErr != nil {
			rep.AddStep(report.StepResult{Name: st.name, Status: report.StatusSkipped})
			continue
		}

		w.logger.Infof("Step %d/%d: %s", i+1, len(steps), st.name)
		var t tally
		start := time.Now()
		err := st.run(ctx, &t)

		result := report.StepResult{
			Name:     st.name,
			Status:   report.StatusSuccess,
			Strategy: t.strategy,
			Attempts: t.attempts,
			Duration: time.Since(start),
		}
		if err != nil {
			result.Status = report.StatusFailed
			result.Error = err.Error()
			runErr = fmt.Errorf("%s: %w", st.name, err)
			w.logger.Errorf("Step %s failed: %v", st.name, err)
		}
		rep.AddStep(result)
	}

	rep.Finish(runErr)
	if runErr != nil {
		return rep, runErr
	}

	w.logger.Banner("PROVISIONING COMPLETED SUCCESSFULLY!")
	w.logger.Infof("User '%s' has been invited to workspace '%s'", w.config.Email, w.config.Workspace)
	return rep, nil
}

// strategies returns the locators for action, preferring config overrides.
func (w *Workflow) strategies(action string) ([]browser.Locator, error) {
	override, ok, err := w.config.Locators(action)
	if err != nil {
		return nil, err
	}
	if ok {
		locs := make([]browser.Locator, len(override))
		for i, loc := range override {
			locs[i] = expand(loc, w.targets)
		}
		return locs, nil
	}
	return catalog[action](w.targets), nil
}

// perform builds the named action and runs it through the actuator.
func (w *Workflow) perform(ctx context.Context, t *tally, spec actuator.ActionSpec) (*actuator.Result, error) {
	if spec.Strategies == nil {
		locs, err := w.strategies(spec.Name)
		if err != nil {
			return nil, err
		}
		spec.Strategies = locs
	}

	res, err := w.actuator.Perform(ctx, w.session, spec)
	t.record(res, err)
	if err != nil && spec.Optional && errors.Is(err, actuator.ErrAllStrategiesExhausted) {
		w.logger.Infof("Optional action %s not present, skipping", spec.Name)
		return nil, nil
	}
	return res, err
}

// checkChallenge fails with ErrChallengeDetected when the page shows a
// challenge. In visible mode with a resolver the operator gets one chance to
// clear it.
func (w *Workflow) checkChallenge(ctx context.Context, where string) error {
	finding, err := challenge.Check(ctx, w.session)
	if err == nil {
		return nil
	}
	if !errors.Is(err, challenge.ErrChallengeDetected) {
		return err
	}

	w.logger.Warnf("Challenge detected %s: %s", where, finding)
	if w.opts.Resolver == nil || w.session.Headless {
		return err
	}

	w.logger.Infof("Waiting for the operator to solve the challenge")
	if resolveErr := w.opts.Resolver.Resolve(ctx, finding); resolveErr != nil {
		return fmt.Errorf("challenge not resolved: %w", resolveErr)
	}

	if _, err := challenge.Check(ctx, w.session); err != nil {
		return err
	}
	w.logger.Infof("Challenge cleared, continuing")
	return nil
}

func (w *Workflow) authenticate(ctx context.Context, t *tally) error {
	w.logger.Infof("Navigating to %s", w.config.LoginURL)
	if err := w.session.Navigate(ctx, w.config.LoginURL); err != nil {
		return err
	}

	if err := w.checkChallenge(ctx, "before login"); err != nil {
		return err
	}

	if _, err := w.perform(ctx, t, actuator.ActionSpec{
		Name:        ActionUsername,
		Interaction: actuator.TypeText,
		Text:        w.creds.Username,
	}); err != nil {
		return loginError(ctx, err)
	}

	// two-page login forms need a continue click before the password shows
	if _, err := w.perform(ctx, t, actuator.ActionSpec{
		Name:        ActionContinue,
		Interaction: actuator.Click,
		Optional:    true,
	}); err != nil {
		return err
	}

	if _, err := w.perform(ctx, t, actuator.ActionSpec{
		Name:        ActionPassword,
		Interaction: actuator.TypeText,
		Text:        w.creds.Password,
		Sensitive:   true,
	}); err != nil {
		return loginError(ctx, err)
	}

	if err := w.checkChallenge(ctx, "before submitting login"); err != nil {
		return err
	}

	if _, err := w.perform(ctx, t, actuator.ActionSpec{
		Name:        ActionLogin,
		Interaction: actuator.Click,
	}); err != nil {
		return loginError(ctx, err)
	}

	if err := w.waitForLogin(ctx); err != nil {
		return err
	}

	w.session.Authenticated = true
	return nil
}

// loginError tags a failed login action, leaving cancellation untouched.
func loginError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
}

// waitForLogin polls the page URL until it matches a success pattern or the
// session timeout passes. At the deadline only a URL still matching a login
// pattern is a failure.
func (w *Workflow) waitForLogin(ctx context.Context) error {
	deadline := time.NewTimer(w.session.Timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		url := w.session.URL()
		if w.matcher.IsAuthenticated(url) {
			w.logger.Infof("Login successful, landed on %s", url)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			continue
		case <-deadline.C:
		}

		url = w.session.URL()
		if w.matcher.IsLogin(url) {
			return fmt.Errorf("%w: still on login page %s after %s", ErrAuthenticationFailed, url, w.session.Timeout)
		}
		w.logger.Infof("Login appears successful, page changed to %s", url)
		return nil
	}
}

func (w *Workflow) locateWorkspace(ctx context.Context, t *tally) error {
	spec := actuator.ActionSpec{
		Name:        ActionWorkspace,
		Interaction: actuator.Click,
	}

	_, err := w.perform(ctx, t, spec)
	for i := 1; err != nil && ctx.Err() == nil && i <= w.config.WorkspaceReattempts; i++ {
		w.logger.Warnf("Workspace %q not on this page, retrying from %s (%d/%d)",
			w.config.Workspace, w.config.BoardsURL, i, w.config.WorkspaceReattempts)
		if navErr := w.session.Navigate(ctx, w.config.BoardsURL); navErr != nil {
			return navErr
		}
		_, err = w.perform(ctx, t, spec)
	}

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %q: %w", ErrWorkspaceNotFound, w.config.Workspace, err)
	}

	w.logger.Infof("Opened workspace %q", w.config.Workspace)
	return nil
}

func (w *Workflow) openInvite(ctx context.Context, t *tally) error {
	_, err := w.perform(ctx, t, actuator.ActionSpec{
		Name:        ActionInvite,
		Interaction: actuator.Click,
	})
	return err
}

func (w *Workflow) enterEmail(ctx context.Context, t *tally) error {
	res, err := w.perform(ctx, t, actuator.ActionSpec{
		Name:        ActionEmail,
		Interaction: actuator.TypeText,
		Text:        w.config.Email,
	})
	if err != nil {
		return err
	}
	w.emailStrategy = res.Strategy
	return nil
}

// submit clicks a send button, falling back to Enter in the email field.
func (w *Workflow) submit(ctx context.Context, t *tally) error {
	_, err := w.perform(ctx, t, actuator.ActionSpec{
		Name:        ActionSubmit,
		Interaction: actuator.Click,
	})
	if err == nil || ctx.Err() != nil {
		return err
	}

	w.logger.Warnf("No submit button found, pressing Enter in the email field")

	enter, overrideErr := w.strategies(ActionSubmitEnter)
	if overrideErr != nil {
		return overrideErr
	}
	if len(enter) == 0 {
		enter = []browser.Locator{w.emailStrategy}
	}

	if _, enterErr := w.perform(ctx, t, actuator.ActionSpec{
		Name:        ActionSubmitEnter,
		Strategies:  enter,
		Interaction: actuator.PressKey,
		Text:        "Enter",
	}); enterErr != nil {
		return fmt.Errorf("could not send invitation: %w", errors.Join(err, enterErr))
	}
	return nil
}

// verify looks for the email on the page, then for a success message.
func (w *Workflow) verify(ctx context.Context, t *tally) error {
	res, memberErr := w.perform(ctx, t, actuator.ActionSpec{
		Name:        ActionVerifyMember,
		Interaction: actuator.ReadText,
	})
	if memberErr == nil {
		w.logger.Infof("User '%s' verified via %s", w.config.Email, res.Strategy)
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	res, msgErr := w.perform(ctx, t, actuator.ActionSpec{
		Name:        ActionVerifyMessage,
		Interaction: actuator.ReadText,
	})
	if msgErr == nil {
		w.logger.Infof("Success message found: %q", res.Text)
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return fmt.Errorf("%w: %s not found in member list and no success message", ErrVerificationFailed, w.config.Email)
}
