package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigSaveAndLoad(t *testing.T) {
	// Use a temp dir as home
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg := CLIConfig{
		ServerURL: "http://myhost:9090",
		APIPrefix: "/v1",
	}

	if err := saveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Verify file exists
	path := filepath.Join(tmp, ".config", "cb", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not found: %v", err)
	}

	loaded, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != cfg {
		t.Errorf("loaded = %+v, want %+v", loaded, cfg)
	}
}

func TestConfigLoadMissing(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if cfg.ServerURL != "" || cfg.APIPrefix != "" {
		t.Error("expected zero-value config for missing file")
	}
}

func TestConfigLoadCorrupt(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	path := filepath.Join(tmp, ".config", "cb", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("server_url: [\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := loadConfig(); err == nil {
		t.Error("expected parse error")
	}
	if got := getServerURL(); got != "http://localhost:8080" {
		t.Errorf("url = %q, want default on corrupt config", got)
	}
}

func TestGetServerURLFromEnv(t *testing.T) {
	t.Setenv("CB_SERVER_URL", "http://custom:1234")
	t.Setenv("HOME", t.TempDir())

	url := getServerURL()
	if url != "http://custom:1234" {
		t.Errorf("url = %q, want %q", url, "http://custom:1234")
	}
}

func TestGetServerURLFromConfig(t *testing.T) {
	t.Setenv("CB_SERVER_URL", "")
	t.Setenv("CB_API_PREFIX", "")
	t.Setenv("HOME", t.TempDir())

	if err := saveConfig(CLIConfig{ServerURL: "http://saved:8000", APIPrefix: "/board"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if got := getServerURL(); got != "http://saved:8000" {
		t.Errorf("url = %q", got)
	}
	if got := getAPIPrefix(); got != "/board" {
		t.Errorf("prefix = %q", got)
	}
}

func TestGetDefaults(t *testing.T) {
	t.Setenv("CB_SERVER_URL", "")
	t.Setenv("CB_API_PREFIX", "")
	t.Setenv("HOME", t.TempDir())

	if got := getServerURL(); got != "http://localhost:8080" {
		t.Errorf("url = %q", got)
	}
	if got := getAPIPrefix(); got != "/api" {
		t.Errorf("prefix = %q", got)
	}
}

func TestConfigSetServer(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("CB_SERVER_URL", "")
	t.Setenv("CB_API_PREFIX", "")

	out, err := executeCommand("config", "set-server", "https://comments.example.com", "/v2")
	if err != nil {
		t.Fatalf("set-server: %v", err)
	}
	if !strings.Contains(out, "https://comments.example.com") {
		t.Errorf("output = %q", out)
	}

	out, err = executeCommand("config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, "Server: https://comments.example.com") || !strings.Contains(out, "Prefix: /v2") {
		t.Errorf("output = %q", out)
	}
}

func TestConfigSetServerRejectsBadURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	for _, u := range []string{"not a url", "ftp://host", "http://"} {
		if _, err := executeCommand("config", "set-server", u); err == nil {
			t.Errorf("expected error for %q", u)
		}
	}
}

func TestNormalizeAPIPrefix(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "/api", want: "/api"},
		{in: "api/", want: "/api"},
		{in: " /v1/board/ ", want: "/v1/board"},
		{in: "", want: "/"},
		{in: "/", want: "/"},
		{in: "/a//b", wantErr: true},
		{in: "/../etc", wantErr: true},
		{in: "/api?x=1", wantErr: true},
		{in: "/my api", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeAPIPrefix(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("normalizeAPIPrefix(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeAPIPrefix(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("normalizeAPIPrefix(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeServerURL(t *testing.T) {
	got, err := normalizeServerURL("https://comments.example.com/")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != "https://comments.example.com" {
		t.Errorf("url = %q", got)
	}

	for _, bad := range []string{"", "comments.example.com", "http://host/?a=1", "http://host/#top"} {
		if _, err := normalizeServerURL(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestGetAPIPrefixSkipsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CB_SERVER_URL", "")
	t.Setenv("CB_API_PREFIX", "/bad prefix")

	if got := getAPIPrefix(); got != "/api" {
		t.Errorf("prefix = %q, want default for invalid env value", got)
	}

	if err := saveConfig(CLIConfig{APIPrefix: "board/"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := getAPIPrefix(); got != "/board" {
		t.Errorf("prefix = %q, want normalized saved value /board", got)
	}
}

func TestConfigSetServerRejectsBadPrefix(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CB_API_PREFIX", "")

	if _, err := executeCommand("config", "set-server", "http://localhost:8080", "/a?b"); err == nil {
		t.Fatal("expected error for invalid prefix")
	}
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerURL != "" {
		t.Errorf("server url saved despite invalid prefix: %q", cfg.ServerURL)
	}
}
