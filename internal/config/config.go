// Package config loads the ETL settings.
//
// Defaults reproduce the fixed locations the pipeline has always used. A YAML
// file named by BANKS_CONFIG and BANKS_* environment variables may override
// them; nothing is read from the command line.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvConfigFile names the environment variable holding an optional config file path
const EnvConfigFile = "BANKS_CONFIG"

// Config holds all ETL configuration
type Config struct {
	Source SourceConfig
	Output OutputConfig
	Server ServerConfig
	Log    LogConfig
}

// SourceConfig describes where the ranked list is scraped from
type SourceConfig struct {
	URL          string
	TableClass   string
	Columns      []string
	FetchTimeout time.Duration // 0 = wait indefinitely
}

// OutputConfig holds the input rate file and every sink location
type OutputConfig struct {
	RatesPath    string
	CSVPath      string
	DBPath       string
	TableName    string
	RunStorePath string
}

// ServerConfig holds the report API settings
type ServerConfig struct {
	Addr     string
	CacheTTL time.Duration
}

// LogConfig holds the progress log file and structured log level
type LogConfig struct {
	ProgressPath string
	Level        string
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.url", "https://en.wikipedia.org/wiki/List_of_largest_banks")
	v.SetDefault("source.table_class", "wikitable")
	v.SetDefault("source.columns", []string{"Name", "MC_USD_Billion"})
	v.SetDefault("source.fetch_timeout", "0s")

	v.SetDefault("output.rates_path", "./exchange_rate.csv")
	v.SetDefault("output.csv_path", "./Largest_banks_data.csv")
	v.SetDefault("output.db_path", "Banks.db")
	v.SetDefault("output.table_name", "Largest_banks")
	v.SetDefault("output.run_store_path", "./runs")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cache_ttl", "1m")

	v.SetDefault("log.progress_path", "code_log.txt")
	v.SetDefault("log.level", "info")
}

// Load reads the configuration from defaults, the optional file named by
// BANKS_CONFIG and BANKS_* environment variables, in increasing precedence.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(EnvConfigFile))
}

// LoadFile is Load with an explicit config file path; an empty path skips the file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BANKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Source: SourceConfig{
			URL:          v.GetString("source.url"),
			TableClass:   v.GetString("source.table_class"),
			Columns:      v.GetStringSlice("source.columns"),
			FetchTimeout: v.GetDuration("source.fetch_timeout"),
		},
		Output: OutputConfig{
			RatesPath:    v.GetString("output.rates_path"),
			CSVPath:      v.GetString("output.csv_path"),
			DBPath:       v.GetString("output.db_path"),
			TableName:    v.GetString("output.table_name"),
			RunStorePath: v.GetString("output.run_store_path"),
		},
		Server: ServerConfig{
			Addr:     v.GetString("server.addr"),
			CacheTTL: v.GetDuration("server.cache_ttl"),
		},
		Log: LogConfig{
			ProgressPath: v.GetString("log.progress_path"),
			Level:        v.GetString("log.level"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures every location is set and the table name is a plain identifier
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		key   string
		value string
	}{
		{"source.url", c.Source.URL},
		{"source.table_class", c.Source.TableClass},
		{"output.rates_path", c.Output.RatesPath},
		{"output.csv_path", c.Output.CSVPath},
		{"output.db_path", c.Output.DBPath},
		{"output.run_store_path", c.Output.RunStorePath},
		{"log.progress_path", c.Log.ProgressPath},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", r.key))
		}
	}

	if len(c.Source.Columns) != 2 {
		errs = append(errs, fmt.Errorf("source.columns must name exactly 2 fields, got %d", len(c.Source.Columns)))
	}

	if !tableNamePattern.MatchString(c.Output.TableName) {
		errs = append(errs, fmt.Errorf("output.table_name %q is not a valid identifier", c.Output.TableName))
	}

	if c.Source.FetchTimeout < 0 {
		errs = append(errs, errors.New("source.fetch_timeout must not be negative"))
	}

	return errors.Join(errs...)
}
