// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"fjacquet/pain001/internal/logging"
	"fjacquet/pain001/internal/models"
)

// EnvPrefix prefixes every environment override, e.g. PAIN_LOG_LEVEL.
const EnvPrefix = "PAIN"

// Config represents the complete application configuration
type Config struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Payment    PaymentConfig    `mapstructure:"payment" yaml:"payment"`
	Validation ValidationConfig `mapstructure:"validation" yaml:"validation"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
	BIC        BICConfig        `mapstructure:"bic" yaml:"bic"`
}

// LogConfig selects the log level and the text or json format.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// PaymentConfig holds the payment instruction defaults.
type PaymentConfig struct {
	Method            string `mapstructure:"method" yaml:"method"`
	BatchBooking      bool   `mapstructure:"batch_booking" yaml:"batch_booking"`
	InitiatingParty   string `mapstructure:"initiating_party" yaml:"initiating_party"`
	ChargeBearer      string `mapstructure:"charge_bearer" yaml:"charge_bearer"`
	InstructionTotals bool   `mapstructure:"instruction_totals" yaml:"instruction_totals"`
}

type ValidationConfig struct {
	IBANChecksum bool `mapstructure:"iban_checksum" yaml:"iban_checksum"`
}

type OutputConfig struct {
	Indent string `mapstructure:"indent" yaml:"indent"`
	Verify bool   `mapstructure:"verify" yaml:"verify"`
}

// BICConfig configures the creditor BIC resolver chain: the local directory
// first, then openiban.com when enabled.
type BICConfig struct {
	DirectoryFile string         `mapstructure:"directory_file" yaml:"directory_file"`
	CacheEnabled  bool           `mapstructure:"cache_enabled" yaml:"cache_enabled"`
	OpenIBAN      OpenIBANConfig `mapstructure:"openiban" yaml:"openiban"`
}

type OpenIBANConfig struct {
	Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
	BaseURL           string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return Load("")
}

// Load reads configuration from defaults, the config file and PAIN_*
// environment variables, in increasing precedence. An explicit configFile
// must exist; otherwise config.yaml is looked up in $HOME/.pain001,
// .pain001 and the working directory and may be absent.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.pain001")
		v.AddConfigPath(".pain001")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Payment.Method = strings.ToUpper(config.Payment.Method)
	config.Payment.ChargeBearer = strings.ToUpper(config.Payment.ChargeBearer)

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("payment.method", string(models.PaymentMethodCreditTransfer))
	v.SetDefault("payment.batch_booking", false)
	v.SetDefault("payment.initiating_party", "")
	v.SetDefault("payment.charge_bearer", "")
	v.SetDefault("payment.instruction_totals", false)

	v.SetDefault("validation.iban_checksum", false)

	v.SetDefault("output.indent", "  ")
	v.SetDefault("output.verify", false)

	v.SetDefault("bic.directory_file", "")
	v.SetDefault("bic.cache_enabled", true)
	v.SetDefault("bic.openiban.enabled", false)
	v.SetDefault("bic.openiban.base_url", "https://openiban.com")
	v.SetDefault("bic.openiban.timeout_seconds", 10)
	v.SetDefault("bic.openiban.requests_per_minute", 60)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if err := logging.ValidateSettings(config.Log.Level, config.Log.Format); err != nil {
		return err
	}

	if !models.PaymentMethod(config.Payment.Method).IsValid() {
		return fmt.Errorf("invalid payment.method: %s (must be CHK, TRF or TRA)", config.Payment.Method)
	}

	bearer := models.ChargeBearer(config.Payment.ChargeBearer)
	if bearer != models.ChargeBearerNone && !bearer.IsValid() {
		return fmt.Errorf("invalid payment.charge_bearer: %s (must be DEBT, CRED, SHAR or SLEV)", config.Payment.ChargeBearer)
	}

	if len([]rune(config.Payment.InitiatingParty)) > models.MaxText140 {
		return fmt.Errorf("payment.initiating_party exceeds %d characters", models.MaxText140)
	}

	if strings.Trim(config.Output.Indent, " \t") != "" {
		return fmt.Errorf("output.indent may only contain spaces and tabs")
	}

	if config.BIC.OpenIBAN.Enabled {
		if config.BIC.OpenIBAN.BaseURL == "" {
			return fmt.Errorf("bic.openiban.base_url required when openiban is enabled")
		}

		if config.BIC.OpenIBAN.RequestsPerMinute < 1 || config.BIC.OpenIBAN.RequestsPerMinute > 1000 {
			return fmt.Errorf("bic.openiban.requests_per_minute must be between 1 and 1000, got: %d", config.BIC.OpenIBAN.RequestsPerMinute)
		}

		if config.BIC.OpenIBAN.TimeoutSeconds < 1 || config.BIC.OpenIBAN.TimeoutSeconds > 300 {
			return fmt.Errorf("bic.openiban.timeout_seconds must be between 1 and 300, got: %d", config.BIC.OpenIBAN.TimeoutSeconds)
		}
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(config.Log.Level), strings.ToLower(config.Log.Format))
}
