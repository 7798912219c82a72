package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/browser"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "newuser@example.com", cfg.Email)
	assert.Equal(t, "Project X", cfg.Workspace)
	assert.Equal(t, browser.DriverPlaywright, cfg.Browser.Driver)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 10*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, 0, cfg.WorkspaceReattempts)
	assert.Equal(t, "automation.log", cfg.Logging.File)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "provision.yaml")
	content := `
email: john.doe@company.com
workspace: Marketing Team
browser:
  driver: rod
  headless: false
  timeout: 15s
workspace_reattempts: 1
selectors:
  invite_button:
    - testid=invite-button
    - "xpath=//button[contains(text(), 'Invite')]"
logging:
  level: info
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "john.doe@company.com", cfg.Email)
	assert.Equal(t, "Marketing Team", cfg.Workspace)
	assert.Equal(t, browser.DriverRod, cfg.Browser.Driver)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 15*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, 1, cfg.WorkspaceReattempts)
	assert.Equal(t, path, cfg.ConfigFilePath)

	// untouched keys keep their defaults
	assert.Equal(t, "https://trello.com/login", cfg.LoginURL)
	assert.Equal(t, 30*time.Second, cfg.Browser.PageLoadTimeout)
	assert.Equal(t, "automation.log", cfg.Logging.File)

	locs, ok, err := cfg.Locators("invite_button")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []browser.Locator{
		browser.TestID("invite-button"),
		browser.XPath("//button[contains(text(), 'Invite')]"),
	}, locs)

	_, ok, err = cfg.Locators("email_input")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cfg.Validate())
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser: [unterminated"), 0600))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"missing email", func(c *Config) { c.Email = "" }, "email is required"},
		{"missing workspace", func(c *Config) { c.Workspace = "" }, "workspace is required"},
		{"unknown driver", func(c *Config) { c.Browser.Driver = "selenium" }, "invalid driver"},
		{"zero timeout", func(c *Config) { c.Browser.Timeout = 0 }, "timeout must be positive"},
		{"negative reattempts", func(c *Config) { c.WorkspaceReattempts = -1 }, "cannot be negative"},
		{"reattempts without boards url", func(c *Config) {
			c.WorkspaceReattempts = 1
			c.BoardsURL = ""
		}, "requires boards_url"},
		{"no success patterns", func(c *Config) { c.Auth.SuccessPatterns = nil }, "success_patterns"},
		{"empty selector list", func(c *Config) { c.Selectors["invite_button"] = nil }, "at least one locator"},
		{"malformed selector", func(c *Config) { c.Selectors["invite_button"] = []string{"button.invite"} }, "kind=value"},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSessionOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Browser.Headless = false
	cfg.Browser.Timeout = 5 * time.Second

	opts := cfg.SessionOptions()
	assert.Equal(t, browser.DriverPlaywright, opts.Driver)
	assert.False(t, opts.Headless)
	assert.Equal(t, 5*time.Second, opts.Timeout)
}

func TestLoadFile_Example(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("..", "..", "examples", "provision.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Marketing Team", cfg.Workspace)
	assert.Equal(t, 10*time.Second, cfg.Browser.Timeout)

	locs, ok, err := cfg.Locators("invite_button")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, browser.TestID("invite-to-workspace-button"), locs[0])
}
