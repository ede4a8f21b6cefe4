package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Database.Path == "" {
		t.Error("default database path is empty")
	}
	if config.Migration.FallbackAuthorID == 0 {
		t.Error("default fallback author id is zero")
	}
	if config.Migration.PageDelaySeconds == 0 {
		t.Error("default page delay is zero")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		content := `
[remote]
url = "http://remote.test"
key = "abc"

[migration]
fallback_author_id = 7
posts_per_page = 5
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if config.Remote.URL != "http://remote.test" {
			t.Errorf("remote url = %q", config.Remote.URL)
		}
		if config.Migration.FallbackAuthorID != 7 {
			t.Errorf("fallback author = %d, want 7", config.Migration.FallbackAuthorID)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bad.toml")
		if err := os.WriteFile(path, []byte("[remote\nbroken"), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for malformed TOML")
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("CreateConfigFile() error = %v", err)
	}
	if _, err := LoadConfig(path); err != nil {
		t.Errorf("created config does not parse: %v", err)
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("expected error when the file already exists")
	}
}

func TestPerPage(t *testing.T) {
	config := MigrationConfig{UsersPerPage: 25, PostsPerPage: 5}

	tests := []struct {
		kind string
		want int
	}{
		{kind: "user", want: 25},
		{kind: "post", want: 5},
		{kind: "term", want: 10},
		{kind: "media", want: 10},
		{kind: "unknown", want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			if got := config.PerPage(tt.kind); got != tt.want {
				t.Errorf("PerPage(%q) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

func TestServerConfigURLs(t *testing.T) {
	config := ServerConfig{Host: "127.0.0.1", Port: 8390}

	if config.Addr() != "127.0.0.1:8390" {
		t.Errorf("Addr() = %q", config.Addr())
	}
	if config.BaseURL() != "http://127.0.0.1:8390" {
		t.Errorf("BaseURL() = %q", config.BaseURL())
	}

	config.URL = "https://example.com/"
	if config.BaseURL() != "https://example.com" {
		t.Errorf("BaseURL() = %q, want trailing slash trimmed", config.BaseURL())
	}
}
