package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/meysamhadeli/stepdiff/constants/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config represents the structure of the configuration file
type Config struct {
	Version      string `mapstructure:"version"`
	Theme        string `mapstructure:"theme" validate:"required"`
	DefaultDelay int    `mapstructure:"default_delay" validate:"gt=0"`
	GraceDelay   int    `mapstructure:"grace_delay" validate:"gt=0"`
	LogLevel     string `mapstructure:"log_level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	LogFile      string `mapstructure:"log_file"`
	ShowOutline  bool   `mapstructure:"show_outline"`
	CacheSize    int    `mapstructure:"cache_size" validate:"gte=0"`
	Highlight    bool   `mapstructure:"highlight"`
	LineNumbers  bool   `mapstructure:"line_numbers"`
	Width        int    `mapstructure:"width" validate:"gte=0"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:      "0.3.0",
	Theme:        "dracula",
	DefaultDelay: 1000,
	GraceDelay:   500,
	LogLevel:     "warn",
	LogFile:      "",
	ShowOutline:  true,
	CacheSize:    512,
	Highlight:    true,
	LineNumbers:  true,
	Width:        0,
}

// ConfigName is the base name of the configuration file looked up in the working directory.
const ConfigName = "stepdiff-config"

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) (*Config, error) {
	var config *Config

	setDefaults()

	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		viper.SetConfigName(ConfigName)
		viper.AddConfigPath(cwd)
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// ConfigFileUsed returns the configuration file that was read, or "" when only defaults apply.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("default_delay", DefaultConfig.DefaultDelay)
	viper.SetDefault("grace_delay", DefaultConfig.GraceDelay)
	viper.SetDefault("log_level", DefaultConfig.LogLevel)
	viper.SetDefault("log_file", DefaultConfig.LogFile)
	viper.SetDefault("show_outline", DefaultConfig.ShowOutline)
	viper.SetDefault("cache_size", DefaultConfig.CacheSize)
	viper.SetDefault("highlight", DefaultConfig.Highlight)
	viper.SetDefault("line_numbers", DefaultConfig.LineNumbers)
	viper.SetDefault("width", DefaultConfig.Width)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv() {
	_ = viper.BindEnv("theme", "STEPDIFF_THEME")
	_ = viper.BindEnv("default_delay", "STEPDIFF_DEFAULT_DELAY")
	_ = viper.BindEnv("grace_delay", "STEPDIFF_GRACE_DELAY")
	_ = viper.BindEnv("log_level", "STEPDIFF_LOG_LEVEL")
	_ = viper.BindEnv("log_file", "STEPDIFF_LOG_FILE")
	_ = viper.BindEnv("show_outline", "STEPDIFF_SHOW_OUTLINE")
	_ = viper.BindEnv("cache_size", "STEPDIFF_CACHE_SIZE")
	_ = viper.BindEnv("highlight", "STEPDIFF_HIGHLIGHT")
	_ = viper.BindEnv("line_numbers", "STEPDIFF_LINE_NUMBERS")
	_ = viper.BindEnv("width", "STEPDIFF_WIDTH")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("theme", flags.Lookup("theme"))
	_ = viper.BindPFlag("default_delay", flags.Lookup("default_delay"))
	_ = viper.BindPFlag("grace_delay", flags.Lookup("grace_delay"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log_level"))
	_ = viper.BindPFlag("log_file", flags.Lookup("log_file"))
	_ = viper.BindPFlag("show_outline", flags.Lookup("show_outline"))
	_ = viper.BindPFlag("cache_size", flags.Lookup("cache_size"))
	_ = viper.BindPFlag("highlight", flags.Lookup("highlight"))
	_ = viper.BindPFlag("line_numbers", flags.Lookup("line_numbers"))
	_ = viper.BindPFlag("width", flags.Lookup("width"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON, YAML or TOML).")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Syntax highlighting theme (e.g., 'dracula', 'monokai', 'github').")
	rootCmd.PersistentFlags().Int("default_delay", DefaultConfig.DefaultDelay, "Delay in milliseconds for steps without a delay of their own.")
	rootCmd.PersistentFlags().Int("grace_delay", DefaultConfig.GraceDelay, "Upper bound in milliseconds of the pause before playback stops at the last step.")
	rootCmd.PersistentFlags().String("log_level", DefaultConfig.LogLevel, "Log level: trace, debug, info, warn, error.")
	rootCmd.PersistentFlags().String("log_file", DefaultConfig.LogFile, "Write logs to this rotating file instead of stderr.")
	rootCmd.PersistentFlags().Bool("show_outline", DefaultConfig.ShowOutline, "Show the symbols touched by each diff.")
	rootCmd.PersistentFlags().Int("cache_size", DefaultConfig.CacheSize, "Number of computed diffs kept in memory.")
	rootCmd.PersistentFlags().Bool("highlight", DefaultConfig.Highlight, "Syntax highlight unchanged lines.")
	rootCmd.PersistentFlags().Bool("line_numbers", DefaultConfig.LineNumbers, "Show line numbers.")
	rootCmd.PersistentFlags().Int("width", DefaultConfig.Width, "Truncate lines to this many columns (0 = terminal width).")

	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}

// PrintWarning prints a configuration problem the way every command reports them.
func PrintWarning(msg string) {
	fmt.Println(lipgloss.Yellow.Render(msg))
}
