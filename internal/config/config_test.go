package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// validConfigYAML is a complete valid configuration.
const validConfigYAML = `
source:
  url: "http://example.com/uf.html"
series:
  label: "Unidad de fomento"
  exclude_columns: ["Serie", "Sel."]
output:
  path: "./out/uf.json"
http:
  timeout_sec: 10
  buffer_size_kb: 512
logging:
  level: "debug"
  format: "json"
`

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config is invalid: %v", err)
	}

	if cfg.Source.URL != DefaultURL {
		t.Errorf("Expected default URL, got '%s'", cfg.Source.URL)
	}

	if cfg.Output.Path != "data/uf.json" {
		t.Errorf("Expected output 'data/uf.json', got '%s'", cfg.Output.Path)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Series.Label != "Unidad de fomento" {
		t.Errorf("Expected default label, got '%s'", cfg.Series.Label)
	}
}

func TestLoad_Valid(t *testing.T) {
	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Source.URL != "http://example.com/uf.html" {
		t.Errorf("Expected URL from file, got '%s'", cfg.Source.URL)
	}

	if cfg.HTTP.BufferSizeKb != 512 {
		t.Errorf("Expected buffer 512, got %d", cfg.HTTP.BufferSizeKb)
	}

	if cfg.HTTP.GetTimeout().Seconds() != 10 {
		t.Errorf("Expected 10s timeout, got %v", cfg.HTTP.GetTimeout())
	}

	if cfg.Logging.Format != "json" {
		t.Errorf("Expected json format, got '%s'", cfg.Logging.Format)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	configPath := createTempConfigFile(t, "output:\n  path: /tmp/uf.json\n")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output.Path != "/tmp/uf.json" {
		t.Errorf("Expected output from file, got '%s'", cfg.Output.Path)
	}

	if cfg.HTTP.TimeoutSec != 30 {
		t.Errorf("Expected default timeout 30, got %d", cfg.HTTP.TimeoutSec)
	}

	if len(cfg.Series.ExcludeColumns) != 2 {
		t.Errorf("Expected default exclude columns, got %v", cfg.Series.ExcludeColumns)
	}
}

func TestLoad_LocalFileReplacesDefaultURL(t *testing.T) {
	configPath := createTempConfigFile(t, "source:\n  file: testdata/raw.html\n")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Source.IsLocalFile() {
		t.Fatal("Expected local file source")
	}

	if cfg.Source.URL != "" {
		t.Errorf("Expected URL cleared, got '%s'", cfg.Source.URL)
	}

	if cfg.Source.GetSource() != "testdata/raw.html" {
		t.Errorf("Expected file source, got '%s'", cfg.Source.GetSource())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	configPath := createTempConfigFile(t, validConfigYAML)

	t.Setenv("UF_SERIES_LABEL", "Dólar observado")
	t.Setenv("UF_OUTPUT_PATH", "/srv/www/data/uf.json")
	t.Setenv("UF_HTTP_TIMEOUT_SEC", "5")
	t.Setenv("UF_SERIES_EXCLUDE_COLUMNS", "Serie,Sel.,Unidad")
	t.Setenv("UF_LOGGING_LEVEL", "warn")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Series.Label != "Dólar observado" {
		t.Errorf("Expected label from env, got '%s'", cfg.Series.Label)
	}

	if cfg.Output.Path != "/srv/www/data/uf.json" {
		t.Errorf("Expected output from env, got '%s'", cfg.Output.Path)
	}

	if cfg.HTTP.TimeoutSec != 5 {
		t.Errorf("Expected timeout 5, got %d", cfg.HTTP.TimeoutSec)
	}

	if len(cfg.Series.ExcludeColumns) != 3 || cfg.Series.ExcludeColumns[2] != "Unidad" {
		t.Errorf("Expected 3 exclude columns, got %v", cfg.Series.ExcludeColumns)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected level warn, got '%s'", cfg.Logging.Level)
	}
}

func TestLoad_EnvLocalFile(t *testing.T) {
	t.Setenv("UF_SOURCE_FILE", "/tmp/raw.html")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Source.URL != "" || cfg.Source.File != "/tmp/raw.html" {
		t.Errorf("Expected file source only, got %+v", cfg.Source)
	}
}

func TestLoad_BareEnvNamesIgnored(t *testing.T) {
	t.Setenv("LEVEL", "bogus")
	t.Setenv("FORMAT", "bogus")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output.Path != "data/uf.json" {
		t.Errorf("Expected default output, got '%s'", cfg.Output.Path)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "invalid: yaml: content: [}")

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestConfig_Validate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"no source", func(c *Config) { c.Source = SourceConfig{} }, ErrSourceMissingURLOrFile},
		{"both sources", func(c *Config) { c.Source.File = "raw.html" }, ErrSourceBothURLAndFile},
		{"relative url", func(c *Config) { c.Source.URL = "raw.html" }, ErrInvalidSourceURL},
		{"ftp url", func(c *Config) { c.Source.URL = "ftp://example.com/uf" }, ErrInvalidSourceURL},
		{"blank label", func(c *Config) { c.Series.Label = "  " }, ErrMissingSeriesLabel},
		{"no output", func(c *Config) { c.Output.Path = "" }, ErrMissingOutputPath},
		{"zero timeout", func(c *Config) { c.HTTP.TimeoutSec = 0 }, ErrInvalidTimeout},
		{"zero buffer", func(c *Config) { c.HTTP.BufferSizeKb = 0 }, ErrInvalidBufferSize},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, ErrInvalidLogLevel},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_SetSource(t *testing.T) {
	cfg := Default()

	cfg.SetSource("", "raw.html")
	if cfg.Source.URL != "" || cfg.Source.File != "raw.html" {
		t.Errorf("Expected file source, got %+v", cfg.Source)
	}

	cfg.SetSource("https://example.com/uf", "")
	if cfg.Source.URL != "https://example.com/uf" || cfg.Source.File != "" {
		t.Errorf("Expected URL source, got %+v", cfg.Source)
	}

	cfg.SetSource("", "")
	if cfg.Source.URL != "https://example.com/uf" {
		t.Errorf("Expected source unchanged, got %+v", cfg.Source)
	}
}

func TestConfig_SaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")

	cfg := Default()
	cfg.Series.Label = "UF"

	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Series.Label != "UF" {
		t.Errorf("Expected label 'UF', got '%s'", loaded.Series.Label)
	}
}

func TestConfig_String(t *testing.T) {
	want := `Config{Source: ` + DefaultURL + `, Series: "Unidad de fomento", Output: data/uf.json}`
	if got := Default().String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
