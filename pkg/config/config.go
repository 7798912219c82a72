// Package config holds the run configuration for a provisioning run: target,
// browser, timeouts, URL patterns, selector overrides and logging. Values come
// from DefaultConfig, then an optional YAML file, then command-line flags.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/browser"
	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/logging"
)

// Config represents the configuration for one provisioning run
type Config struct {
	// Target
	Email     string `yaml:"email" json:"email"`
	Workspace string `yaml:"workspace" json:"workspace"`

	// Trello endpoints
	LoginURL  string `yaml:"login_url" json:"login_url"`
	BoardsURL string `yaml:"boards_url" json:"boards_url"`

	// Browser configuration
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Authentication URL patterns
	Auth AuthConfig `yaml:"auth" json:"auth"`

	// Selectors overrides the locator strategies of named actions.
	// Each entry is "kind=value", e.g. "testid=invite-button".
	Selectors map[string][]string `yaml:"selectors" json:"selectors"`

	// WorkspaceReattempts is how many times the workspace lookup is repeated
	// after navigating to BoardsURL. Zero disables the re-attempt.
	WorkspaceReattempts int `yaml:"workspace_reattempts" json:"workspace_reattempts"`

	// ManualChallenge hands a detected challenge to the operator in visible mode
	ManualChallenge bool `yaml:"manual_challenge" json:"manual_challenge"`

	// ReportPath is where the JSON run report is written; empty disables it
	ReportPath string `yaml:"report_path" json:"report_path"`

	// EnvFile is loaded into the environment before credentials are read
	EnvFile string `yaml:"env_file" json:"env_file"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// ConfigFilePath is the file the configuration was loaded from
	ConfigFilePath string `yaml:"-" json:"-"`
}

// BrowserConfig defines how the browser session is launched
type BrowserConfig struct {
	Driver          browser.DriverName `yaml:"driver" json:"driver"`
	Headless        bool               `yaml:"headless" json:"headless"`
	Timeout         time.Duration      `yaml:"timeout" json:"timeout"`
	PageLoadTimeout time.Duration      `yaml:"page_load_timeout" json:"page_load_timeout"`
	UserAgent       string             `yaml:"user_agent" json:"user_agent"`
	InstallBrowsers bool               `yaml:"install_browsers" json:"install_browsers"`
}

// AuthConfig defines the glob patterns used to judge the post-login URL
type AuthConfig struct {
	// SuccessPatterns match URLs only reachable once logged in
	SuccessPatterns []string `yaml:"success_patterns" json:"success_patterns"`

	// LoginPatterns match URLs that mean the login form is still showing
	LoginPatterns []string `yaml:"login_patterns" json:"login_patterns"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	File         string `yaml:"file" json:"file"`
	Level        string `yaml:"level" json:"level"`
	ConsoleLevel string `yaml:"console_level" json:"console_level"`
}

// DefaultConfig returns a default configuration suitable for most use cases
func DefaultConfig() *Config {
	return &Config{
		Email:     "newuser@example.com",
		Workspace: "Project X",
		LoginURL:  "https://trello.com/login",
		BoardsURL: "https://trello.com/boards",
		Browser: BrowserConfig{
			Driver:          browser.DriverPlaywright,
			Headless:        true,
			Timeout:         10 * time.Second,
			PageLoadTimeout: 30 * time.Second,
			UserAgent:       browser.DefaultUserAgent,
			InstallBrowsers: true,
		},
		Auth: AuthConfig{
			SuccessPatterns: []string{
				"https://trello.com/*boards*",
				"https://trello.com/*home*",
				"https://trello.com/u/**",
				"https://trello.com/w/**",
			},
			LoginPatterns: []string{
				"https://trello.com/login*",
				"https://id.atlassian.com/login*",
			},
		},
		Selectors: map[string][]string{},
		EnvFile:   ".env",
		Logging: LoggingConfig{
			File:         "automation.log",
			Level:        "debug",
			ConsoleLevel: "info",
		},
	}
}

// LoadFile reads a YAML configuration on top of DefaultConfig.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ConfigFilePath = path
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Email == "" {
		return fmt.Errorf("email is required")
	}

	if c.Workspace == "" {
		return fmt.Errorf("workspace is required")
	}

	if c.LoginURL == "" {
		return fmt.Errorf("login_url is required")
	}

	if c.Browser.Driver != browser.DriverPlaywright && c.Browser.Driver != browser.DriverRod {
		return fmt.Errorf("invalid driver: %s (must be 'playwright' or 'rod')", c.Browser.Driver)
	}

	if c.Browser.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.Browser.PageLoadTimeout < 0 {
		return fmt.Errorf("page_load_timeout cannot be negative")
	}

	if c.WorkspaceReattempts < 0 {
		return fmt.Errorf("workspace_reattempts cannot be negative")
	}

	if c.WorkspaceReattempts > 0 && c.BoardsURL == "" {
		return fmt.Errorf("workspace_reattempts requires boards_url")
	}

	if len(c.Auth.SuccessPatterns) == 0 {
		return fmt.Errorf("auth.success_patterns must not be empty")
	}

	for action, raw := range c.Selectors {
		if len(raw) == 0 {
			return fmt.Errorf("selectors.%s must list at least one locator", action)
		}
		for _, s := range raw {
			if _, err := browser.ParseLocator(s); err != nil {
				return fmt.Errorf("selectors.%s: %w", action, err)
			}
		}
	}

	for _, level := range []string{c.Logging.Level, c.Logging.ConsoleLevel} {
		if _, err := logging.ParseLevel(level); err != nil {
			return err
		}
	}

	return nil
}

// Locators returns the configured override for action, if any.
func (c *Config) Locators(action string) ([]browser.Locator, bool, error) {
	raw, ok := c.Selectors[action]
	if !ok {
		return nil, false, nil
	}

	locs := make([]browser.Locator, 0, len(raw))
	for _, s := range raw {
		loc, err := browser.ParseLocator(s)
		if err != nil {
			return nil, true, fmt.Errorf("selectors.%s: %w", action, err)
		}
		locs = append(locs, loc)
	}
	return locs, true, nil
}

// SessionOptions converts the browser section into browser.SessionOptions.
func (c *Config) SessionOptions() browser.SessionOptions {
	return browser.SessionOptions{
		Driver:          c.Browser.Driver,
		Headless:        c.Browser.Headless,
		Timeout:         c.Browser.Timeout,
		PageLoadTimeout: c.Browser.PageLoadTimeout,
		UserAgent:       c.Browser.UserAgent,
		InstallBrowsers: c.Browser.InstallBrowsers,
	}
}
