package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid config file", func(t *testing.T) {
		cfg, err := Load("testdata/valid_config.yaml")

		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "work", cfg.ActiveProfile)
		assert.Equal(t, "key-work-222", cfg.Profiles["work"].APIKey)
		assert.Equal(t, "key-default-111", cfg.Profiles["default"].APIKey)
		assert.Equal(t, 1024, cfg.Defaults.Width)
		assert.Equal(t, 768, cfg.Defaults.Height)
		assert.Equal(t, 2, cfg.Defaults.NumImages)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

		require.NoError(t, err, "a first run has no config file yet")
		require.NotNil(t, cfg)

		assert.Empty(t, cfg.Profiles)
		assert.Equal(t, 512, cfg.Defaults.Width)
		assert.Equal(t, 120, cfg.Defaults.TimeoutSeconds)
		assert.Equal(t, 300, cfg.Defaults.MotionTimeoutSeconds)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		cfg, err := Load("testdata/malformed.yaml")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
		assert.Nil(t, cfg)
	})

	t.Run("partial file keeps defaults for the rest", func(t *testing.T) {
		cfg, err := Load("testdata/invalid_width.yaml")

		require.NoError(t, err)
		assert.Equal(t, 20000, cfg.Defaults.Width)
		assert.Equal(t, "console", cfg.Logging.Format, "unset sections keep their defaults")
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config { return Default() }

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errString string
	}{
		{
			name:   "default config",
			mutate: func(c *Config) {},
		},
		{
			name:      "width too small",
			mutate:    func(c *Config) { c.Defaults.Width = 16 },
			wantErr:   true,
			errString: "invalid default width",
		},
		{
			name:      "height too large",
			mutate:    func(c *Config) { c.Defaults.Height = 20000 },
			wantErr:   true,
			errString: "invalid default height",
		},
		{
			name:      "zero num_images",
			mutate:    func(c *Config) { c.Defaults.NumImages = 0 },
			wantErr:   true,
			errString: "invalid default num_images",
		},
		{
			name:      "too many num_images",
			mutate:    func(c *Config) { c.Defaults.NumImages = 9 },
			wantErr:   true,
			errString: "invalid default num_images",
		},
		{
			name:      "zero timeout",
			mutate:    func(c *Config) { c.Defaults.TimeoutSeconds = 0 },
			wantErr:   true,
			errString: "timeout_seconds must be greater than 0",
		},
		{
			name:      "zero poll interval",
			mutate:    func(c *Config) { c.Defaults.PollIntervalSeconds = 0 },
			wantErr:   true,
			errString: "poll_interval_seconds must be greater than 0",
		},
		{
			name:      "unknown logging format",
			mutate:    func(c *Config) { c.Logging.Format = "xml" },
			wantErr:   true,
			errString: "invalid logging format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.SetProfile("work", "key-123")
	cfg.Defaults.Width = 1024

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "work", loaded.ActiveProfile)
	assert.Equal(t, "key-123", loaded.Profiles["work"].APIKey)
	assert.Equal(t, 1024, loaded.Defaults.Width)
}

func TestConfig_Profiles(t *testing.T) {
	t.Run("set profile becomes active", func(t *testing.T) {
		cfg := Default()

		cfg.SetProfile("personal", "key-1")
		assert.Equal(t, "personal", cfg.ActiveProfile)

		cfg.SetProfile("work", "key-2")
		assert.Equal(t, "work", cfg.ActiveProfile)
		assert.Len(t, cfg.Profiles, 2)
	})

	t.Run("use profile", func(t *testing.T) {
		cfg := Default()
		cfg.SetProfile("personal", "key-1")
		cfg.SetProfile("work", "key-2")

		require.NoError(t, cfg.UseProfile("personal"))
		assert.Equal(t, "personal", cfg.ActiveProfile)

		err := cfg.UseProfile("ghost")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("delete inactive profile keeps active", func(t *testing.T) {
		cfg := Default()
		cfg.SetProfile("personal", "key-1")
		cfg.SetProfile("work", "key-2")

		require.NoError(t, cfg.DeleteProfile("personal"))
		assert.Equal(t, "work", cfg.ActiveProfile)
	})

	t.Run("delete active profile promotes first remaining", func(t *testing.T) {
		cfg := Default()
		cfg.SetProfile("zeta", "key-1")
		cfg.SetProfile("alpha", "key-2")
		require.NoError(t, cfg.UseProfile("zeta"))

		require.NoError(t, cfg.DeleteProfile("zeta"))
		assert.Equal(t, "alpha", cfg.ActiveProfile)
	})

	t.Run("delete last profile clears active", func(t *testing.T) {
		cfg := Default()
		cfg.SetProfile("only", "key-1")

		require.NoError(t, cfg.DeleteProfile("only"))
		assert.Empty(t, cfg.ActiveProfile)
		assert.Equal(t, "default", cfg.ActiveName())
	})

	t.Run("delete unknown profile", func(t *testing.T) {
		cfg := Default()

		err := cfg.DeleteProfile("ghost")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("profile names sorted", func(t *testing.T) {
		cfg := Default()
		cfg.SetProfile("zeta", "k")
		cfg.SetProfile("alpha", "k")
		cfg.SetProfile("mid", "k")

		assert.Equal(t, []string{"alpha", "mid", "zeta"}, cfg.ProfileNames())
	})
}

func TestConfig_APIKey(t *testing.T) {
	t.Run("environment wins over profiles", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "env-key")

		cfg := Default()
		cfg.SetProfile("work", "profile-key")

		key, err := cfg.APIKey("work")
		require.NoError(t, err)
		assert.Equal(t, "env-key", key)
	})

	t.Run("named profile", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")

		cfg := Default()
		cfg.SetProfile("personal", "key-1")
		cfg.SetProfile("work", "key-2")

		key, err := cfg.APIKey("personal")
		require.NoError(t, err)
		assert.Equal(t, "key-1", key)
	})

	t.Run("active profile fallback", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")

		cfg := Default()
		cfg.SetProfile("work", "key-2")

		key, err := cfg.APIKey("")
		require.NoError(t, err)
		assert.Equal(t, "key-2", key)
	})

	t.Run("no key configured", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")

		cfg := Default()

		_, err := cfg.APIKey("")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoAPIKey)
	})

	t.Run("unknown named profile", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")

		cfg := Default()
		cfg.SetProfile("work", "key-2")

		_, err := cfg.APIKey("ghost")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoAPIKey)
	})
}

func TestDefaultsConfig_Durations(t *testing.T) {
	d := DefaultsConfig{
		TimeoutSeconds:       120,
		MotionTimeoutSeconds: 300,
		PollIntervalSeconds:  3,
		ErrorBackoffSeconds:  5,
	}

	assert.Equal(t, 2*time.Minute, d.Timeout())
	assert.Equal(t, 5*time.Minute, d.MotionTimeout())
	assert.Equal(t, 3*time.Second, d.PollInterval())
	assert.Equal(t, 5*time.Second, d.ErrorBackoff())
}
