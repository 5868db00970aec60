package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFrom_MissingFile_ReturnsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	cfg, err := LoadFrom(filepath.Join(tmpDir, "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadFrom() returned nil config")
	}
	if cfg.Server.Fallback != "127.0.0.1:7177" {
		t.Errorf("Fallback = %q, want \"127.0.0.1:7177\"", cfg.Server.Fallback)
	}
	if cfg.Server.Port != 7177 {
		t.Errorf("Port = %d, want 7177", cfg.Server.Port)
	}
	if cfg.Server.RefreshMs != 2000 {
		t.Errorf("RefreshMs = %d, want 2000", cfg.Server.RefreshMs)
	}
}

func TestLoadFrom_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := []byte("server:\n  host: dash.example.com\n  fallback: 10.0.0.5:7177\neditor: nano\n")
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.Host != "dash.example.com" {
		t.Errorf("Host = %q, want \"dash.example.com\"", cfg.Server.Host)
	}
	if cfg.Server.Fallback != "10.0.0.5:7177" {
		t.Errorf("Fallback = %q, want \"10.0.0.5:7177\"", cfg.Server.Fallback)
	}
	if cfg.Editor != "nano" {
		t.Errorf("Editor = %q, want \"nano\"", cfg.Editor)
	}
}

func TestLoadFrom_EditorEnvExpansion(t *testing.T) {
	t.Setenv("EDITOR", "nvim")
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("editor: $EDITOR\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Editor != "nvim" {
		t.Errorf("Editor = %q, want \"nvim\"", cfg.Editor)
	}
}

func TestLoadFrom_EditorFallback(t *testing.T) {
	t.Setenv("EDITOR", "")
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("server:\n  port: 9000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Editor != "vim" {
		t.Errorf("Editor = %q, want \"vim\"", cfg.Editor)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	original := &Config{
		Server: Server{Host: "localhost:3000", Fallback: "example.com", Port: 8080, RefreshMs: 500},
		Editor: "code",
	}

	if err := SaveTo(original, configPath); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if loaded.Server.Host != original.Server.Host {
		t.Errorf("Host = %q, want %q", loaded.Server.Host, original.Server.Host)
	}
	if loaded.Server.Fallback != original.Server.Fallback {
		t.Errorf("Fallback = %q, want %q", loaded.Server.Fallback, original.Server.Fallback)
	}
	if loaded.Editor != original.Editor {
		t.Errorf("Editor = %q, want %q", loaded.Editor, original.Editor)
	}
}

func TestConfigPath_UnderHostlinkDir(t *testing.T) {
	path := ConfigPath()
	if !strings.HasSuffix(path, filepath.Join(".hostlink", "config.yaml")) {
		t.Errorf("ConfigPath() = %q, want suffix .hostlink/config.yaml", path)
	}
}
