// Package config defines the configuration structs consumed by the CLI.
package config

import "time"

// Config is the root configuration, populated by viper from the config file,
// RELRECT_ environment variables, and flags.
type Config struct {
	Logger Logger `mapstructure:"logger" yaml:"logger"`
	Watch  Watch  `mapstructure:"watch" yaml:"watch"`
}

// Logger controls the zap logger setup.
type Logger struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"` // "console" or "json"
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
	AddSource  bool   `mapstructure:"add_source" yaml:"add_source"`
}

// Watch controls the live-reload watcher.
type Watch struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// Default returns the configuration used when no file or env overrides exist.
func Default() Config {
	return Config{
		Logger: Logger{
			Level:      "info",
			Format:     "console",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
		Watch: Watch{
			Debounce: 250 * time.Millisecond,
		},
	}
}
