package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultServerURL = "http://localhost:8080"
	defaultAPIPrefix = "/api"
)

// CLIConfig is the client-side settings file. An empty field falls back to
// the built-in default; APIPrefix "/" means the API is mounted at the root.
type CLIConfig struct {
	ServerURL string `yaml:"server_url,omitempty"`
	APIPrefix string `yaml:"api_prefix,omitempty"`
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "cb", "config.yaml"), nil
}

// loadConfig reads the settings file. A missing file yields the zero value.
func loadConfig() (CLIConfig, error) {
	path, err := configPath()
	if err != nil {
		return CLIConfig{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return CLIConfig{}, nil
	}
	if err != nil {
		return CLIConfig{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func saveConfig(cfg CLIConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// normalizeServerURL accepts an http(s) origin with an optional base path
// and strips any trailing slash.
func normalizeServerURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid server URL: %q", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("server URL must not carry a query or fragment: %q", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// normalizeAPIPrefix returns the prefix as "/segment[/segment...]", or "/"
// for the root. Segments may not contain whitespace, '?' or '#'.
func normalizeAPIPrefix(raw string) (string, error) {
	p := strings.Trim(strings.TrimSpace(raw), "/")
	if p == "" {
		return "/", nil
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, " \t\n?#") {
			return "", fmt.Errorf("invalid API prefix: %q", raw)
		}
	}
	return "/" + p, nil
}

// getServerURL resolves the server URL: CB_SERVER_URL, then the settings
// file, then the default. Invalid values are skipped.
func getServerURL() string {
	if u, err := normalizeServerURL(os.Getenv("CB_SERVER_URL")); err == nil {
		return u
	}
	cfg, err := loadConfig()
	if err == nil && cfg.ServerURL != "" {
		if u, err := normalizeServerURL(cfg.ServerURL); err == nil {
			return u
		}
	}
	return defaultServerURL
}

// getAPIPrefix resolves the API prefix the same way as getServerURL.
func getAPIPrefix() string {
	if v := os.Getenv("CB_API_PREFIX"); v != "" {
		if p, err := normalizeAPIPrefix(v); err == nil {
			return p
		}
	}
	cfg, err := loadConfig()
	if err == nil && cfg.APIPrefix != "" {
		if p, err := normalizeAPIPrefix(cfg.APIPrefix); err == nil {
			return p
		}
	}
	return defaultAPIPrefix
}
