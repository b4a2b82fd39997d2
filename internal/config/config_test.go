package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/some/path"},
		Steam: SteamConfig{
			AppID:          480,
			InitRetries:    3,
			InitRetryDelay: 2 * time.Second,
			AppIDFile:      "steam_appid.txt",
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"WARN", true}, // case insensitive
		{"verbose", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_SteamSettings(t *testing.T) {
	cfg := validConfig()
	cfg.Steam.AppID = 0
	assert.ErrorContains(t, cfg.Validate(), "app ID")

	cfg = validConfig()
	cfg.Steam.InitRetries = 0
	assert.ErrorContains(t, cfg.Validate(), "retries")
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""
	assert.Error(t, cfg.Validate())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name        string
		path        string
		defaultPath string
		want        string
	}{
		{
			name:        "empty uses default",
			path:        "",
			defaultPath: "/default/path",
			want:        "/default/path",
		},
		{
			name: "tilde expansion",
			path: "~/mods",
			want: filepath.Join(home, "mods"),
		},
		{
			name: "absolute unchanged",
			path: "/abs/path",
			want: "/abs/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandPath(tt.path, tt.defaultPath)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = "/data"

	assert.Equal(t, filepath.Join("/data", "previews"), cfg.PreviewCachePath())
	assert.Equal(t, filepath.Join("/data", "history.db"), cfg.HistoryDBPath())
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("MODSHIP_TEST_KEY", "from-env")

	// Flag value wins.
	assert.Equal(t, "from-flag", getConfigValue("from-flag", "MODSHIP_TEST_KEY", "default"))
	// Then env.
	assert.Equal(t, "from-env", getConfigValue("", "MODSHIP_TEST_KEY", "default"))
	// Then default.
	assert.Equal(t, "default", getConfigValue("", "MODSHIP_TEST_MISSING", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	assert.True(t, getBoolConfigValue("true", "MODSHIP_TEST_BOOL", false))
	assert.True(t, getBoolConfigValue("1", "MODSHIP_TEST_BOOL", false))
	assert.True(t, getBoolConfigValue("YES", "MODSHIP_TEST_BOOL", false))
	assert.False(t, getBoolConfigValue("no", "MODSHIP_TEST_BOOL", true))
	assert.True(t, getBoolConfigValue("", "MODSHIP_TEST_BOOL", true))
}

func TestLoadEnvFile(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := filepath.Join(tmpDir, ".env")

	content := "# comment\nMODSHIP_ENVFILE_KEY=hello\nQUOTED=\"quoted value\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o644))

	t.Cleanup(func() {
		_ = os.Unsetenv("MODSHIP_ENVFILE_KEY")
		_ = os.Unsetenv("QUOTED")
	})

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "hello", os.Getenv("MODSHIP_ENVFILE_KEY"))
	assert.Equal(t, "quoted value", os.Getenv("QUOTED"))
}
