package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/runnerr0/retrace/internal/browser"
	"github.com/runnerr0/retrace/internal/config"
	"github.com/runnerr0/retrace/internal/locate"
)

// loadConfig resolves the --config flag or falls back to the default
// config path, creating it with defaults on first run.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.LoadOrCreateAt(globals.Config)
	}
	return config.LoadOrCreate()
}

// newLogger builds the stderr logger. --verbose forces debug; otherwise
// the configured level applies.
func newLogger(globals *GlobalFlags, cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		switch strings.ToLower(cfg.Logging.Level) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	if globals != nil && globals.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newLocator applies config overrides on top of the OS defaults.
func newLocator(cfg *config.Config) *locate.Locator {
	loc := locate.New()
	if cfg == nil {
		return loc
	}
	if cfg.Locator.ChromeDir != "" {
		loc.ChromeDir = cfg.Locator.ChromeDir
	}
	if cfg.Locator.FirefoxDir != "" {
		loc.FirefoxDir = cfg.Locator.FirefoxDir
	}
	if cfg.Locator.SafariDB != "" {
		loc.SafariDB = cfg.Locator.SafariDB
	}
	return loc
}

// selectVendors resolves the --browser flags against the config's
// enabled vendor set. No flags means "everything enabled in config".
func selectVendors(flags []string, cfg *config.Config) ([]browser.Vendor, error) {
	if len(flags) == 0 {
		if cfg != nil {
			return cfg.Vendors.Enabled(), nil
		}
		return browser.Vendors(), nil
	}

	var out []browser.Vendor
	for _, f := range flags {
		v, err := parseVendor(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// parseVendor maps a flag value onto a vendor tag.
func parseVendor(s string) (browser.Vendor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chrome":
		return browser.Chrome, nil
	case "firefox":
		return browser.Firefox, nil
	case "safari":
		return browser.Safari, nil
	default:
		return "", fmt.Errorf("unknown browser %q (expected chrome, firefox, or safari)", s)
	}
}

// formatNumber formats an int with comma separators.
func formatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
		if len(s) > remainder {
			result.WriteString(",")
		}
	}
	for i := remainder; i < len(s); i += 3 {
		if i > remainder {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
