package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Storage: StorageConfig{
			DataPath: "/some/path",
		},
		Server: ServerConfig{
			AuthRateLimit: 1,
			AuthRateBurst: 5,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validTestConfig().Validate())
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
			cfg := validTestConfig()
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

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"WARN", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validTestConfig()
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

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validTestConfig()
	cfg.Storage.DataPath = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_RateLimit(t *testing.T) {
	cfg := validTestConfig()
	cfg.Server.AuthRateLimit = 0
	assert.Error(t, cfg.Validate())

	cfg = validTestConfig()
	cfg.Server.AuthRateBurst = -1
	assert.Error(t, cfg.Validate())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		def  string
		want string
	}{
		{"empty uses default", "", "/default", "/default"},
		{"absolute unchanged", "/abs/path", "/default", "/abs/path"},
		{"tilde expanded", "~/data", "", filepath.Join(home, "data")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandPath(tt.path, tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := validTestConfig()
	assert.Equal(t, filepath.Join("/some/path", "flashlearn.db"), cfg.DatabasePath())
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("TEST_CONFIG_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "TEST_CONFIG_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "TEST_CONFIG_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "TEST_CONFIG_KEY_UNSET", "default"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nTEST_ENVFILE_A=hello\nTEST_ENVFILE_B=\"quoted\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("TEST_ENVFILE_A")
		os.Unsetenv("TEST_ENVFILE_B")
	})

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "hello", os.Getenv("TEST_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("TEST_ENVFILE_B"))
}

func TestLoadEnvFileRespectsExistingEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("TEST_ENVFILE_C=from-file\n"), 0o600))

	t.Setenv("TEST_ENVFILE_C", "from-env")
	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "from-env", os.Getenv("TEST_ENVFILE_C"))
}
