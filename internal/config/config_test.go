package config

import (
	"os"
	"path/filepath"
	"testing"

	"agendavel/internal/models"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
app:
  name: "agendavel"
database:
  path: "test.db"
api:
  enabled: true
scheduling:
  max_booking_days: 60
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Database.Path != "test.db" {
		t.Errorf("expected database path test.db, got %s", cfg.Database.Path)
	}
	if cfg.Scheduling.MaxBookingDays != 60 {
		t.Errorf("expected max_booking_days 60, got %d", cfg.Scheduling.MaxBookingDays)
	}
	if !cfg.API.HTTP.Enabled {
		t.Errorf("expected http enabled when api is enabled")
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("TEST_DB_PATH", "env.db")

	yamlContent := `
database:
  path: "${TEST_DB_PATH}"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Database.Path != "env.db" {
		t.Errorf("expected expanded path env.db, got %s", cfg.Database.Path)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
			},
			wantErr: false,
		},
		{
			name:    "missing database path",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name: "bot token without staff chat",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Telegram: TelegramConfig{BotToken: "token"},
			},
			wantErr: true,
		},
		{
			name: "bot token with staff chat",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Telegram: TelegramConfig{BotToken: "token", StaffChatID: 42},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.API.HTTP.Port != 8080 {
		t.Errorf("expected default http port 8080, got %d", cfg.API.HTTP.Port)
	}
	if cfg.API.Auth.HeaderAPIKey != "x-api-key" {
		t.Errorf("expected default api key header, got %s", cfg.API.Auth.HeaderAPIKey)
	}
	if cfg.Scheduling.MaxBookingDays != 365 {
		t.Errorf("expected default max booking days 365, got %d", cfg.Scheduling.MaxBookingDays)
	}
	if cfg.Scheduling.SlotCacheTTLSeconds != models.SlotCacheTTL {
		t.Errorf("expected default slot cache ttl %d, got %d", models.SlotCacheTTL, cfg.Scheduling.SlotCacheTTLSeconds)
	}
	if cfg.Exports.Path != "exports" {
		t.Errorf("expected default exports path, got %s", cfg.Exports.Path)
	}
}

func TestValidateLocations(t *testing.T) {
	tests := []struct {
		name      string
		locations []models.Location
		wantErr   bool
	}{
		{
			name: "Valid locations",
			locations: []models.Location{
				{Name: "São Paulo"},
				{Name: "Campinas"},
			},
			wantErr: false,
		},
		{
			name: "Duplicate name",
			locations: []models.Location{
				{Name: "Santos"},
				{Name: "Santos"},
			},
			wantErr: true,
		},
		{
			name: "Empty name",
			locations: []models.Location{
				{Name: ""},
			},
			wantErr: true,
		},
		{
			name: "Accent variants collapse to one key",
			locations: []models.Location{
				{Name: "São Paulo"},
				{Name: "Sao Paulo"},
			},
			wantErr: true,
		},
		{
			name: "Case variants collapse to one key",
			locations: []models.Location{
				{Name: "Ribeirão Preto"},
				{Name: "RIBEIRÃO PRETO"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLocations(tt.locations)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLocations() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
