package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pain001/internal/logging"
)

func validConfig() *Config {
	return &Config{
		Log:     LogConfig{Level: "info", Format: "text"},
		Payment: PaymentConfig{Method: "TRF"},
		Output:  OutputConfig{Indent: "  "},
		BIC: BICConfig{OpenIBAN: OpenIBANConfig{
			BaseURL:           "https://openiban.com",
			TimeoutSeconds:    10,
			RequestsPerMinute: 60,
		}},
	}
}

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "TRF", config.Payment.Method)
	assert.False(t, config.Payment.BatchBooking)
	assert.Empty(t, config.Payment.InitiatingParty)
	assert.Empty(t, config.Payment.ChargeBearer)
	assert.False(t, config.Payment.InstructionTotals)
	assert.False(t, config.Validation.IBANChecksum)
	assert.Equal(t, "  ", config.Output.Indent)
	assert.False(t, config.Output.Verify)
	assert.Empty(t, config.BIC.DirectoryFile)
	assert.True(t, config.BIC.CacheEnabled)
	assert.False(t, config.BIC.OpenIBAN.Enabled)
	assert.Equal(t, "https://openiban.com", config.BIC.OpenIBAN.BaseURL)
	assert.Equal(t, 10, config.BIC.OpenIBAN.TimeoutSeconds)
	assert.Equal(t, 60, config.BIC.OpenIBAN.RequestsPerMinute)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	testEnvVars := map[string]string{
		"PAIN_LOG_LEVEL":                        "debug",
		"PAIN_LOG_FORMAT":                       "json",
		"PAIN_PAYMENT_METHOD":                   "tra",
		"PAIN_PAYMENT_BATCH_BOOKING":            "true",
		"PAIN_PAYMENT_CHARGE_BEARER":            "slev",
		"PAIN_VALIDATION_IBAN_CHECKSUM":         "true",
		"PAIN_OUTPUT_VERIFY":                    "true",
		"PAIN_BIC_OPENIBAN_ENABLED":             "true",
		"PAIN_BIC_OPENIBAN_REQUESTS_PER_MINUTE": "15",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "TRA", config.Payment.Method)
	assert.True(t, config.Payment.BatchBooking)
	assert.Equal(t, "SLEV", config.Payment.ChargeBearer)
	assert.True(t, config.Validation.IBANChecksum)
	assert.True(t, config.Output.Verify)
	assert.True(t, config.BIC.OpenIBAN.Enabled)
	assert.Equal(t, 15, config.BIC.OpenIBAN.RequestsPerMinute)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)

	tempDir := t.TempDir()
	configContent := `
log:
  level: "warn"
  format: "json"
payment:
  method: "TRF"
  batch_booking: true
  initiating_party: "Treasury Ltd"
  instruction_totals: true
bic:
  directory_file: "banks.yaml"
  cache_enabled: false
  openiban:
    enabled: true
    timeout_seconds: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0600))
	t.Chdir(tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.True(t, config.Payment.BatchBooking)
	assert.Equal(t, "Treasury Ltd", config.Payment.InitiatingParty)
	assert.True(t, config.Payment.InstructionTotals)
	assert.Equal(t, "banks.yaml", config.BIC.DirectoryFile)
	assert.False(t, config.BIC.CacheEnabled)
	assert.True(t, config.BIC.OpenIBAN.Enabled)
	assert.Equal(t, 5, config.BIC.OpenIBAN.TimeoutSeconds)
	assert.Equal(t, 60, config.BIC.OpenIBAN.RequestsPerMinute)
}

func TestLoad_ExplicitFile(t *testing.T) {
	clearTestEnvVars(t)

	t.Run("reads the given file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pain.yaml")
		require.NoError(t, os.WriteFile(path, []byte("output:\n  indent: \"\"\n"), 0600))

		config, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "", config.Output.Indent)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pain.yaml")
		require.NoError(t, os.WriteFile(path, []byte("payment:\n  method: \"WIRE\"\n"), 0600))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)

	tempDir := t.TempDir()
	configContent := `
log:
  level: "warn"
payment:
  initiating_party: "From File"
bic:
  openiban:
    requests_per_minute: 20
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0600))
	t.Setenv("PAIN_LOG_LEVEL", "error")
	t.Setenv("PAIN_BIC_OPENIBAN_REQUESTS_PER_MINUTE", "25")
	t.Chdir(tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, "From File", config.Payment.InitiatingParty)
	assert.Equal(t, 25, config.BIC.OpenIBAN.RequestsPerMinute)
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "invalid" },
			expectError:  "invalid log format",
		},
		{
			name:         "invalid payment method",
			modifyConfig: func(c *Config) { c.Payment.Method = "WIRE" },
			expectError:  "invalid payment.method",
		},
		{
			name:         "invalid charge bearer",
			modifyConfig: func(c *Config) { c.Payment.ChargeBearer = "BOTH" },
			expectError:  "invalid payment.charge_bearer",
		},
		{
			name: "initiating party too long",
			modifyConfig: func(c *Config) {
				c.Payment.InitiatingParty = string(make([]rune, 141))
			},
			expectError: "payment.initiating_party exceeds 140 characters",
		},
		{
			name:         "indent with text",
			modifyConfig: func(c *Config) { c.Output.Indent = "--" },
			expectError:  "output.indent may only contain spaces and tabs",
		},
		{
			name: "openiban without url",
			modifyConfig: func(c *Config) {
				c.BIC.OpenIBAN.Enabled = true
				c.BIC.OpenIBAN.BaseURL = ""
			},
			expectError: "bic.openiban.base_url required",
		},
		{
			name: "invalid requests per minute",
			modifyConfig: func(c *Config) {
				c.BIC.OpenIBAN.Enabled = true
				c.BIC.OpenIBAN.RequestsPerMinute = 0
			},
			expectError: "bic.openiban.requests_per_minute must be between 1 and 1000",
		},
		{
			name: "invalid timeout seconds",
			modifyConfig: func(c *Config) {
				c.BIC.OpenIBAN.Enabled = true
				c.BIC.OpenIBAN.TimeoutSeconds = 301
			},
			expectError: "bic.openiban.timeout_seconds must be between 1 and 300",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			require.NoError(t, validateConfig(config))

			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestValidateConfig_DisabledOpenIBANIsNotChecked(t *testing.T) {
	config := validConfig()
	config.BIC.OpenIBAN.RequestsPerMinute = 0
	assert.NoError(t, validateConfig(config))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		config := validConfig()
		config.Log.Format = format
		logger := ConfigureLoggingFromConfig(config)
		assert.NotNil(t, logger)
		assert.Implements(t, (*logging.Logger)(nil), logger)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Run("loads .env without overriding the environment", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "work")
		require.NoError(t, os.Mkdir(dir, 0750))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
			[]byte("PAIN_TEST_FROM_FILE=file\nPAIN_TEST_PRESET=file\n"), 0600))
		t.Chdir(dir)
		t.Setenv("PAIN_TEST_FROM_FILE", "")
		require.NoError(t, os.Unsetenv("PAIN_TEST_FROM_FILE"))
		t.Setenv("PAIN_TEST_PRESET", "env")

		logger := logging.NewMockLogger()
		require.NoError(t, LoadEnv(logger))

		assert.Equal(t, "file", GetEnv("PAIN_TEST_FROM_FILE", ""))
		assert.Equal(t, "env", GetEnv("PAIN_TEST_PRESET", ""))
		assert.True(t, logger.HasEntry("DEBUG", "Loaded environment variables"))
	})

	t.Run("no file is fine", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "empty")
		require.NoError(t, os.Mkdir(dir, 0750))
		t.Chdir(dir)

		logger := logging.NewMockLogger()
		require.NoError(t, LoadEnv(logger))
		assert.True(t, logger.HasEntry("DEBUG", "No .env file found, using environment variables"))
	})
}

func TestGetEnv(t *testing.T) {
	t.Setenv("PAIN_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("PAIN_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("PAIN_TEST_UNSET_VALUE_XYZ", "fallback"))
}

// clearTestEnvVars unsets every PAIN_* key for the duration of the test.
func clearTestEnvVars(t *testing.T) {
	t.Helper()
	envVars := []string{
		"PAIN_LOG_LEVEL",
		"PAIN_LOG_FORMAT",
		"PAIN_PAYMENT_METHOD",
		"PAIN_PAYMENT_BATCH_BOOKING",
		"PAIN_PAYMENT_INITIATING_PARTY",
		"PAIN_PAYMENT_CHARGE_BEARER",
		"PAIN_PAYMENT_INSTRUCTION_TOTALS",
		"PAIN_VALIDATION_IBAN_CHECKSUM",
		"PAIN_OUTPUT_INDENT",
		"PAIN_OUTPUT_VERIFY",
		"PAIN_BIC_DIRECTORY_FILE",
		"PAIN_BIC_CACHE_ENABLED",
		"PAIN_BIC_OPENIBAN_ENABLED",
		"PAIN_BIC_OPENIBAN_BASE_URL",
		"PAIN_BIC_OPENIBAN_TIMEOUT_SECONDS",
		"PAIN_BIC_OPENIBAN_REQUESTS_PER_MINUTE",
	}

	for _, envVar := range envVars {
		t.Setenv(envVar, "")
		require.NoError(t, os.Unsetenv(envVar))
	}
}
