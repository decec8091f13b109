package config

import (
	"os"
	"path/filepath"
	"testing"

	"repkit/internal/policy"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Mode != policy.ModeAnalysis {
		t.Errorf("Mode = %q, want %q", cfg.Mode, policy.ModeAnalysis)
	}
	if cfg.ExportDir != "outputs" {
		t.Errorf("ExportDir = %q, want %q", cfg.ExportDir, "outputs")
	}
	if cfg.CacheDir != filepath.Join(".repkit", "cache") {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.Logging.Format != "human" || cfg.Logging.Level != "info" {
		t.Errorf("Logging = %+v, want human/info", cfg.Logging)
	}
	// Overrides start fully unset.
	if cfg.Overrides.Outputs != nil || cfg.Overrides.Prompt != nil ||
		cfg.Overrides.Overwrite != nil || cfg.Overrides.Backup != nil ||
		cfg.Overrides.Compare != nil {
		t.Error("default overrides must all be unset")
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Mode != policy.ModeAnalysis {
		t.Errorf("Mode = %q, want default %q", cfg.Mode, policy.ModeAnalysis)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".repkit")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := `{
  "version": 1,
  "mode": "export_backup",
  "exportDir": "figures",
  "hints": {"width": 8, "dpi": 150},
  "overrides": {"compare": false}
}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Mode != "export_backup" {
		t.Errorf("Mode = %q, want export_backup", cfg.Mode)
	}
	if cfg.ExportDir != "figures" {
		t.Errorf("ExportDir = %q, want figures", cfg.ExportDir)
	}
	if cfg.Hints.Width != 8 || cfg.Hints.DPI != 150 {
		t.Errorf("Hints = %+v, want width=8 dpi=150", cfg.Hints)
	}
	if cfg.Overrides.Compare == nil || *cfg.Overrides.Compare {
		t.Error("overrides.compare should be explicitly false")
	}
	if cfg.Overrides.Backup != nil {
		t.Error("overrides.backup should remain unset")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REPKIT_MODE", "export_overwrite")
	t.Setenv("REPKIT_OUTPUTS", "true")
	t.Setenv("REPKIT_BACKUP", "false")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Mode != "export_overwrite" {
		t.Errorf("Mode = %q, want env value", cfg.Mode)
	}
	if cfg.Overrides.Outputs == nil || !*cfg.Overrides.Outputs {
		t.Error("REPKIT_OUTPUTS=true should set the outputs override")
	}
	if cfg.Overrides.Backup == nil || *cfg.Overrides.Backup {
		t.Error("REPKIT_BACKUP=false should set the backup override")
	}
	if cfg.Overrides.Prompt != nil {
		t.Error("unset env var must leave the override nil")
	}
}

func TestEnvOverrideMalformed(t *testing.T) {
	t.Setenv("REPKIT_OVERWRITE", "yes please")

	_, err := LoadConfig(t.TempDir())
	if err == nil {
		t.Fatal("malformed boolean override should be a fatal configuration error")
	}
	cfgErr, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("error type = %T, want *ConfigError", err)
	}
	if cfgErr.Field != "REPKIT_OVERWRITE" {
		t.Errorf("Field = %q, want REPKIT_OVERWRITE", cfgErr.Field)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"bad version", func(c *Config) { c.Version = 2 }, true},
		{"empty mode", func(c *Config) { c.Mode = "  " }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Mode = "interactive"

	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Mode != "interactive" {
		t.Errorf("Mode = %q, want interactive", loaded.Mode)
	}
}
