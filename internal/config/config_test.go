package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing file must not fail: %v", err)
	}
	if cfg.Storage.Path != nil || cfg.Review.Subject != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[storage]
path = "/tmp/book.db"

[review]
subject = "Math"
difficulty = 4

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Storage.Path == nil || *cfg.Storage.Path != "/tmp/book.db" {
		t.Fatalf("unexpected storage path: %v", cfg.Storage.Path)
	}
	if cfg.Review.Subject == nil || *cfg.Review.Subject != "Math" {
		t.Fatalf("unexpected subject: %v", cfg.Review.Subject)
	}
	if cfg.Review.Difficulty == nil || *cfg.Review.Difficulty != 4 {
		t.Fatalf("unexpected difficulty: %v", cfg.Review.Difficulty)
	}
	if cfg.Review.Tag != nil || cfg.Review.Type != nil {
		t.Fatalf("unset keys must stay nil: %+v", cfg.Review)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[review]\nsubjekt = \"Math\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "review.subjekt") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	created, err := EnsureConfig(path)
	if err != nil {
		t.Fatalf("ensure config: %v", err)
	}
	if !created {
		t.Fatalf("expected config to be created")
	}
	created, err = EnsureConfig(path)
	if err != nil || created {
		t.Fatalf("second ensure must keep the file: created=%v err=%v", created, err)
	}
	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("template must decode: %v", err)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "mistakebook", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "mistakebook", "mistakebook.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/state", "mistakebook", "mistakebook.log") {
		t.Fatalf("unexpected log path: %s", got)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/learner")
	if got := ExpandHome("~/notes/book.db"); got != filepath.Join("/home/learner", "notes", "book.db") {
		t.Fatalf("unexpected expansion: %s", got)
	}
	if got := ExpandHome("/abs/book.db"); got != "/abs/book.db" {
		t.Fatalf("absolute paths must be kept: %s", got)
	}
	if got := ExpandHome("~other/book.db"); got != "~other/book.db" {
		t.Fatalf("other users' homes are not expanded: %s", got)
	}
}
