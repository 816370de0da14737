package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config - everything one report run needs
type Config struct {
	Report   ReportConfig   `mapstructure:"report"`
	Log      LogConfig      `mapstructure:"log"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type ReportConfig struct {
	Input     string `mapstructure:"input"`
	OutputDir string `mapstructure:"output_dir"`
	DPI       int    `mapstructure:"dpi"`
	Overview  bool   `mapstructure:"overview"` // contact sheet of all charts
	Summary   bool   `mapstructure:"summary"`  // summary.xlsx
	Show      bool   `mapstructure:"show"`     // open each chart in the OS viewer
	FontPath  string `mapstructure:"font_path"`
}

type LogConfig struct {
	Dir string `mapstructure:"dir"`
}

// TelegramConfig - optional delivery of the charts to a chat
type TelegramConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	BotToken          string  `mapstructure:"bot_token"`
	ChatID            string  `mapstructure:"chat_id"`
	MessagesPerSecond float64 `mapstructure:"messages_per_second"`
	MaxRetries        int     `mapstructure:"max_retries"`
}

// RegisterFlags adds the command-line flags. Names are kept short for the CLI
// and mapped onto config keys in Load.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("input", "", "Input CSV file (env: BOXOFFICE_INPUT)")
	flags.String("output-dir", "images", "Directory for the chart images (env: BOXOFFICE_OUTPUT_DIR)")
	flags.Int("dpi", 96, "Image resolution in dots per inch (env: BOXOFFICE_DPI)")
	flags.Bool("overview", true, "Write overview.png with every chart (env: BOXOFFICE_OVERVIEW)")
	flags.Bool("summary", true, "Write summary.xlsx with the aggregates (env: BOXOFFICE_SUMMARY)")
	flags.Bool("show", false, "Open each chart in the system image viewer (env: BOXOFFICE_SHOW)")
	flags.String("font", "", "TTF font for the heatmap and overview (env: BOXOFFICE_FONT)")
	flags.String("log-dir", "logs", "Directory for app.log (env: BOXOFFICE_LOG_DIR)")
	flags.Bool("publish", false, "Send the charts to Telegram (env: BOXOFFICE_PUBLISH)")
	flags.String("telegram-token", "", "Telegram bot token (env: TELEGRAM_BOT_TOKEN)")
	flags.String("telegram-chat", "", "Telegram chat id (env: TELEGRAM_CHAT_ID)")
}

// flagKeys maps flag names onto config keys
var flagKeys = map[string]string{
	"input":          "report.input",
	"output-dir":     "report.output_dir",
	"dpi":            "report.dpi",
	"overview":       "report.overview",
	"summary":        "report.summary",
	"show":           "report.show",
	"font":           "report.font_path",
	"log-dir":        "log.dir",
	"publish":        "telegram.enabled",
	"telegram-token": "telegram.bot_token",
	"telegram-chat":  "telegram.chat_id",
}

// Load builds the config with this precedence, highest first:
// 1. flags that were set
// 2. environment
// 3. .env file
// 4. config.yaml in the working directory
// 5. defaults
func Load(flags *pflag.FlagSet) (*Config, error) {
	godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	}

	v.SetEnvPrefix("BOXOFFICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setupEnvAliases(v)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setupEnvAliases(v *viper.Viper) {
	// BOXOFFICE_REPORT_OUTPUT_DIR works through AutomaticEnv; these are the short names
	v.BindEnv("report.input", "BOXOFFICE_INPUT")
	v.BindEnv("report.output_dir", "BOXOFFICE_OUTPUT_DIR")
	v.BindEnv("report.dpi", "BOXOFFICE_DPI")
	v.BindEnv("report.overview", "BOXOFFICE_OVERVIEW")
	v.BindEnv("report.summary", "BOXOFFICE_SUMMARY")
	v.BindEnv("report.show", "BOXOFFICE_SHOW")
	v.BindEnv("report.font_path", "BOXOFFICE_FONT")
	v.BindEnv("log.dir", "BOXOFFICE_LOG_DIR")

	v.BindEnv("telegram.enabled", "BOXOFFICE_PUBLISH")
	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
	v.BindEnv("telegram.messages_per_second", "TELEGRAM_RATE")
	v.BindEnv("telegram.max_retries", "TELEGRAM_MAX_RETRIES")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("report.input", "")
	v.SetDefault("report.output_dir", "images")
	v.SetDefault("report.dpi", 96)
	v.SetDefault("report.overview", true)
	v.SetDefault("report.summary", true)
	v.SetDefault("report.show", false)
	v.SetDefault("report.font_path", "")

	v.SetDefault("log.dir", "logs")

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.messages_per_second", 1.0)
	v.SetDefault("telegram.max_retries", 3)
}

func validateConfig(cfg *Config) error {
	if cfg.Report.Input == "" {
		return fmt.Errorf("input file is required: pass it as an argument, --input or BOXOFFICE_INPUT")
	}
	info, err := os.Stat(cfg.Report.Input)
	if err != nil {
		return fmt.Errorf("input file %s: %w", cfg.Report.Input, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("input file %s is not a regular file", cfg.Report.Input)
	}

	if cfg.Report.OutputDir == "" {
		return fmt.Errorf("report.output_dir must not be empty")
	}
	if cfg.Report.DPI <= 0 {
		return fmt.Errorf("report.dpi must be positive, got %d", cfg.Report.DPI)
	}

	if cfg.Telegram.Enabled {
		if cfg.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when publishing is enabled")
		}
		if cfg.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when publishing is enabled")
		}
		if _, err := strconv.ParseInt(cfg.Telegram.ChatID, 10, 64); err != nil {
			return fmt.Errorf("telegram.chat_id must be numeric, got %q", cfg.Telegram.ChatID)
		}
	}
	return nil
}
