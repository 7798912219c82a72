// Package main provides trello-provision, which logs into Trello in a real
// browser and invites one email address to one workspace.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/browser"
	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/config"
	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/logging"
	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/prompt"
	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/provision"
	"github.com/bhaskaranjappa/SaaS-autopilot/pkg/report"
)

const version = "0.1.0"

// openBrowser launches the browser session; replaced in tests
var openBrowser = browser.Open

// CLIConfig holds command-line configuration
type CLIConfig struct {
	Email           string
	Workspace       string
	Headless        bool
	NoHeadless      bool
	TimeoutSeconds  int
	ConfigFile      string
	Driver          string
	LogFile         string
	ReportFile      string
	EnvFile         string
	ManualChallenge bool
	ShowVersion     bool

	// set records the flags given explicitly on the command line
	set map[string]bool
}

func main() {
	cliConfig, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(1)
	}

	if cliConfig.ShowVersion {
		fmt.Printf("trello-provision v%s\n", version)
		return
	}

	// Create context with signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, closing the browser...")
		cancel()
	}()

	if err := run(ctx, cliConfig, os.Stdout); err != nil {
		cancel()
		log.Printf("Provisioning failed: %v", err)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags(args []string, output io.Writer) (*CLIConfig, error) {
	defaults := config.DefaultConfig()
	cliConfig := &CLIConfig{set: make(map[string]bool)}

	fs := flag.NewFlagSet("trello-provision", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cliConfig.Email, "email", defaults.Email, "Email address to invite")
	fs.StringVar(&cliConfig.Workspace, "workspace", defaults.Workspace, "Name of the Trello workspace")
	fs.BoolVar(&cliConfig.Headless, "headless", defaults.Browser.Headless, "Run the browser without a window")
	fs.BoolVar(&cliConfig.NoHeadless, "no-headless", false, "Run the browser with a visible window")
	fs.IntVar(&cliConfig.TimeoutSeconds, "timeout", int(defaults.Browser.Timeout/time.Second), "Seconds to wait for each element")
	fs.StringVar(&cliConfig.ConfigFile, "config", "", "Path to configuration file (YAML)")
	fs.StringVar(&cliConfig.Driver, "driver", string(defaults.Browser.Driver), "Browser driver: playwright or rod")
	fs.StringVar(&cliConfig.LogFile, "log-file", defaults.Logging.File, "Append-only log file")
	fs.StringVar(&cliConfig.ReportFile, "report", "", "Write a JSON run report to this path")
	fs.StringVar(&cliConfig.EnvFile, "env-file", defaults.EnvFile, "Dotenv file holding TRELLO_USERNAME and TRELLO_PASSWORD")
	fs.BoolVar(&cliConfig.ManualChallenge, "manual-challenge", false, "Let the operator solve a CAPTCHA in visible mode")
	fs.BoolVar(&cliConfig.ShowVersion, "version", false, "Show version and exit")

	fs.Usage = func() {
		fmt.Fprintf(output, "trello-provision - invite a user to a Trello workspace\n\n")
		fmt.Fprintf(output, "Usage: trello-provision [options]\n\n")
		fmt.Fprintf(output, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nEnvironment:\n")
		fmt.Fprintf(output, "  %s, %s  Trello login (required)\n", config.EnvUsername, config.EnvPassword)
		fmt.Fprintf(output, "\nExamples:\n")
		fmt.Fprintf(output, "  trello-provision -email john.doe@company.com -workspace \"Marketing Team\"\n\n")
		fmt.Fprintf(output, "  # Watch the browser and solve a CAPTCHA by hand if one appears\n")
		fmt.Fprintf(output, "  trello-provision -no-headless -manual-challenge -timeout 20\n\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		cliConfig.set[f.Name] = true
	})

	if cliConfig.set["headless"] && cliConfig.set["no-headless"] {
		err := fmt.Errorf("-headless and -no-headless cannot be used together")
		fmt.Fprintln(output, err)
		return nil, err
	}

	return cliConfig, nil
}

// buildConfig loads the config file, if any, and applies the flags given on
// the command line on top of it.
func buildConfig(cliConfig *CLIConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if cliConfig.ConfigFile != "" {
		loaded, err := config.LoadFile(cliConfig.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	set := cliConfig.set
	if set["email"] {
		cfg.Email = cliConfig.Email
	}
	if set["workspace"] {
		cfg.Workspace = cliConfig.Workspace
	}
	if set["headless"] {
		cfg.Browser.Headless = cliConfig.Headless
	}
	if set["no-headless"] {
		cfg.Browser.Headless = !cliConfig.NoHeadless
	}
	if set["timeout"] {
		cfg.Browser.Timeout = time.Duration(cliConfig.TimeoutSeconds) * time.Second
	}
	if set["driver"] {
		cfg.Browser.Driver = browser.DriverName(cliConfig.Driver)
	}
	if set["log-file"] {
		cfg.Logging.File = cliConfig.LogFile
	}
	if set["report"] {
		cfg.ReportPath = cliConfig.ReportFile
	}
	if set["env-file"] {
		cfg.EnvFile = cliConfig.EnvFile
	}
	if set["manual-challenge"] {
		cfg.ManualChallenge = cliConfig.ManualChallenge
	}

	return cfg, nil
}

// run executes one provisioning run
func run(ctx context.Context, cliConfig *CLIConfig, stdout io.Writer) error {
	cfg, err := buildConfig(cliConfig)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if validationErr := cfg.Validate(); validationErr != nil {
		return fmt.Errorf("invalid configuration: %w", validationErr)
	}
	if validationErr := provision.ValidateConfig(cfg); validationErr != nil {
		return fmt.Errorf("invalid configuration: %w", validationErr)
	}

	// Validate has already checked both levels
	fileLevel, _ := logging.ParseLevel(cfg.Logging.Level)
	consoleLevel, _ := logging.ParseLevel(cfg.Logging.ConsoleLevel)

	// On error the logger falls back to stderr and says so itself
	logger, _ := logging.New(logging.Options{
		Path:         cfg.Logging.File,
		Component:    "main",
		Level:        fileLevel,
		Console:      os.Stderr,
		ConsoleLevel: consoleLevel,
	})
	defer logger.Close()

	logger.Infof("trello-provision v%s starting, run %s", version, logging.RunID())
	if cfg.ConfigFilePath != "" {
		logger.Infof("Loaded configuration from %s", cfg.ConfigFilePath)
	}

	creds, err := config.LoadCredentials(cfg.EnvFile)
	if err != nil {
		logger.Errorf("%v", err)
		return err
	}
	logger.Debugf("Using %s", creds)

	logger.Infof("Launching %s browser (headless=%v, timeout=%s)", cfg.Browser.Driver, cfg.Browser.Headless, cfg.Browser.Timeout)
	session, err := openBrowser(cfg.SessionOptions())
	if err != nil {
		logger.Errorf("Failed to start browser: %v", err)
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logger.Warnf("Failed to close browser: %v", closeErr)
		}
		logger.Infof("Browser closed")
	}()

	var resolver provision.ChallengeResolver
	if cfg.ManualChallenge {
		if cfg.Browser.Headless {
			logger.Warnf("manual_challenge has no effect in headless mode")
		} else {
			resolver = prompt.NewResolver(os.Stdin, os.Stderr)
		}
	}

	workflow, err := provision.New(session, cfg, creds, logger, provision.Options{Resolver: resolver})
	if err != nil {
		return fmt.Errorf("failed to create workflow: %w", err)
	}

	rep, runErr := workflow.Run(ctx)

	fmt.Fprintln(stdout, report.Render(rep))

	if cfg.ReportPath != "" {
		if writeErr := report.NewWriter(cfg.ReportPath).WriteJSON(rep); writeErr != nil {
			logger.Errorf("%v", writeErr)
			if runErr == nil {
				return writeErr
			}
		} else {
			logger.Infof("Run report written to %s", cfg.ReportPath)
		}
	}

	return runErr
}
