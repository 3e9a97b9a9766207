package app

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var configEnvKeys = []string{
	"STATUS_SOURCE",
	"SITE_OUTPUT_DIR",
	"LISTEN_ADDR",
	"REFRESH_INTERVAL",
	"SITE_BASE_URL",
	"DEPLOY_URL",
	"DEPLOY_KEY_FILE",
}

// clearConfigEnv unsets every config variable and restores them when the test ends
func clearConfigEnv(t *testing.T) {
	t.Helper()
	original := make(map[string]string, len(configEnvKeys))
	for _, key := range configEnvKeys {
		original[key] = os.Getenv(key)
		os.Unsetenv(key)
	}
	t.Cleanup(func() {
		for key, value := range original {
			setOrUnset(key, value)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("ValidConfiguration", func(t *testing.T) {
		clearConfigEnv(t)
		os.Setenv("STATUS_SOURCE", "https://example.com/status.json")
		os.Setenv("SITE_OUTPUT_DIR", "public")
		os.Setenv("LISTEN_ADDR", ":9000")
		os.Setenv("REFRESH_INTERVAL", "90s")
		os.Setenv("DEPLOY_URL", "deploy@example.com:/var/www/site")

		config, err := LoadConfig()

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if config.StatusSource != "https://example.com/status.json" {
			t.Errorf("Expected StatusSource to be the URL, got '%s'", config.StatusSource)
		}

		if config.OutputDir != "public" {
			t.Errorf("Expected OutputDir to be 'public', got '%s'", config.OutputDir)
		}

		if config.ListenAddr != ":9000" {
			t.Errorf("Expected ListenAddr to be ':9000', got '%s'", config.ListenAddr)
		}

		if config.RefreshInterval != 90*time.Second {
			t.Errorf("Expected RefreshInterval 90s, got %v", config.RefreshInterval)
		}

		if config.DeployURL != "deploy@example.com:/var/www/site" {
			t.Errorf("Expected DeployURL to be set, got '%s'", config.DeployURL)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		clearConfigEnv(t)

		config, err := LoadConfig()

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if config.StatusSource != "status.json" {
			t.Errorf("Expected StatusSource to default to 'status.json', got '%s'", config.StatusSource)
		}

		if config.OutputDir != "dist" {
			t.Errorf("Expected OutputDir to default to 'dist', got '%s'", config.OutputDir)
		}

		if config.ListenAddr != ":8080" {
			t.Errorf("Expected ListenAddr to default to ':8080', got '%s'", config.ListenAddr)
		}

		if config.RefreshInterval != 5*time.Minute {
			t.Errorf("Expected RefreshInterval to default to 5m, got %v", config.RefreshInterval)
		}

		if config.DeployKeyFile != "deploy.pem" {
			t.Errorf("Expected DeployKeyFile to default to 'deploy.pem', got '%s'", config.DeployKeyFile)
		}

		if config.BaseURL != "https://ezmode.games" {
			t.Errorf("Expected BaseURL default, got '%s'", config.BaseURL)
		}
	})

	t.Run("InvalidRefreshInterval", func(t *testing.T) {
		clearConfigEnv(t)
		os.Setenv("REFRESH_INTERVAL", "soon")

		_, err := LoadConfig()

		if err == nil {
			t.Fatal("Expected error for unparseable REFRESH_INTERVAL, got nil")
		}

		if !strings.Contains(err.Error(), "failed to parse environment") {
			t.Errorf("Expected a parse error, got '%s'", err.Error())
		}
	})

	t.Run("NegativeRefreshInterval", func(t *testing.T) {
		clearConfigEnv(t)
		os.Setenv("REFRESH_INTERVAL", "-1m")

		_, err := LoadConfig()

		if err == nil {
			t.Fatal("Expected error for negative REFRESH_INTERVAL, got nil")
		}

		if !strings.Contains(err.Error(), "REFRESH_INTERVAL") {
			t.Errorf("Expected error message to contain 'REFRESH_INTERVAL', got '%s'", err.Error())
		}
	})
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		StatusSource:    "status.json",
		OutputDir:       "dist",
		RefreshInterval: time.Minute,
	}

	testCases := []struct {
		name        string
		modify      func(*Config)
		errContains string
	}{
		{"Valid", func(c *Config) {}, ""},
		{"BlankStatusSource", func(c *Config) { c.StatusSource = "  " }, "STATUS_SOURCE"},
		{"EmptyOutputDir", func(c *Config) { c.OutputDir = "" }, "SITE_OUTPUT_DIR"},
		{"ZeroRefreshInterval", func(c *Config) { c.RefreshInterval = 0 }, "REFRESH_INTERVAL"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := valid
			tc.modify(&config)

			err := config.Validate()

			if tc.errContains == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errContains) {
				t.Errorf("Expected error containing '%s', got %v", tc.errContains, err)
			}
		})
	}
}

func TestRequireDeployTarget(t *testing.T) {
	config := Config{}
	if err := config.RequireDeployTarget(); err == nil {
		t.Error("Expected error when DEPLOY_URL is missing")
	}

	config.DeployURL = "deploy@example.com:/srv/www"
	if err := config.RequireDeployTarget(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestSetupEnvironment(t *testing.T) {
	// Save original environment
	originalENV := os.Getenv("ENV")
	originalLOGLEVEL := os.Getenv("LOGLEVEL")
	originalLevel := zerolog.GlobalLevel()

	// Cleanup function
	defer func() {
		setOrUnset("ENV", originalENV)
		setOrUnset("LOGLEVEL", originalLOGLEVEL)
		zerolog.SetGlobalLevel(originalLevel)
	}()

	testCases := []struct {
		name           string
		env            string
		logLevel       string
		expectedLevel  zerolog.Level
	}{
		{"ProductionDebug", "production", "debug", zerolog.DebugLevel},
		{"ProductionInfo", "production", "info", zerolog.InfoLevel},
		{"ProductionWarn", "production", "warn", zerolog.WarnLevel},
		{"ProductionWarning", "production", "warning", zerolog.WarnLevel},
		{"ProductionError", "production", "error", zerolog.ErrorLevel},
		{"ProductionFatal", "production", "fatal", zerolog.FatalLevel},
		{"ProductionPanic", "production", "panic", zerolog.PanicLevel},
		{"ProductionDisabled", "production", "disabled", zerolog.Disabled},
		{"ProductionDefault", "production", "", zerolog.WarnLevel},
		{"ProductionUnknown", "production", "unknown", zerolog.InfoLevel},
		{"DevelopmentDebug", "development", "debug", zerolog.DebugLevel},
		{"DevelopmentDefault", "development", "", zerolog.InfoLevel},
		{"DevelopmentUnknown", "", "unknown", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setOrUnset("ENV", tc.env)
			setOrUnset("LOGLEVEL", tc.logLevel)

			SetupEnvironment()

			if zerolog.GlobalLevel() != tc.expectedLevel {
				t.Errorf("Expected log level %v, got %v", tc.expectedLevel, zerolog.GlobalLevel())
			}
		})
	}
}

// Helper function to set environment variable or unset if value is empty
func setOrUnset(key, value string) {
	if value == "" {
		os.Unsetenv(key)
	} else {
		os.Setenv(key, value)
	}
}
