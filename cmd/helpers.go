package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jirahour/config"
	"jirahour/internal/timeutil"
	"jirahour/jira"
	"jirahour/rea"
)

// parseDayRange validates --from/--to values. Both are required; the range is
// inclusive at day granularity.
func parseDayRange(fromValue, toValue string) (time.Time, time.Time, error) {
	if strings.TrimSpace(fromValue) == "" || strings.TrimSpace(toValue) == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("both --from and --to are required (format: 2006-01-02)")
	}
	from, err := timeutil.ParseDay(fromValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := timeutil.ParseDay(toValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", toValue, fromValue)
	}
	return from, to, nil
}

func jiraLogin(ctx context.Context, cfg *config.Config, userAgent string) (*jira.HTTPClient, error) {
	if cfg.Jira.Email == "" || cfg.Jira.APIToken == "" {
		return nil, fmt.Errorf("jira.email and jira.api_token must be configured (or set JIRAHOUR_JIRA_EMAIL / JIRAHOUR_JIRA_API_TOKEN)")
	}

	client, err := jira.NewClient(jira.ClientConfig{
		BaseURL:   cfg.Jira.URL,
		UserAgent: userAgent,
	})
	if err != nil {
		return nil, err
	}
	if err := client.Login(ctx, cfg.Jira.Email, cfg.Jira.APIToken); err != nil {
		return nil, fmt.Errorf("jira login: %w", err)
	}
	return client, nil
}

func reaLogin(ctx context.Context, cfg *config.Config, userAgent string) (*rea.HTTPClient, error) {
	if cfg.Rea.Username == "" || cfg.Rea.Password == "" {
		return nil, fmt.Errorf("rea.username and rea.password must be configured (or set JIRAHOUR_REA_USERNAME / JIRAHOUR_REA_PASSWORD)")
	}

	client, err := rea.NewClient(rea.ClientConfig{
		BaseURL:   cfg.Rea.URL,
		UserAgent: userAgent,
	})
	if err != nil {
		return nil, err
	}
	if err := client.Login(ctx, cfg.Rea.Username, cfg.Rea.Password); err != nil {
		return nil, fmt.Errorf("rea login: %w", err)
	}
	return client, nil
}

// resolveReaUserID prefers the explicit value and falls back to the portal
// profile of the authenticated user.
func resolveReaUserID(ctx context.Context, client *rea.HTTPClient, configured string) (string, error) {
	if trimmed := strings.TrimSpace(configured); trimmed != "" {
		return trimmed, nil
	}
	profile, err := client.GetUserProfile(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve rea user id: %w", err)
	}
	return profile.UserID, nil
}

func resolveConfigPath(configFileFlag, configFileUsed string) (string, error) {
	if strings.TrimSpace(configFileFlag) != "" {
		return configFileFlag, nil
	}
	if strings.TrimSpace(configFileUsed) != "" {
		return configFileUsed, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".jirahour.yaml"), nil
}

func ensureConfigFileWithTemplate(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("creating example config failed: %w", err)
	}

	return true, nil
}
