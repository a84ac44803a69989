package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/grindlemire/go-relrect/internal/config"
	"github.com/grindlemire/go-relrect/internal/observability"
)

var (
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:          "relrect",
	Short:        "Symbolic rectangle geometry: resolve, watch, and edit relative layouts.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(); err != nil {
			return err
		}
		if err := viper.Unmarshal(&cfg); err != nil {
			observability.InitializeLogger(config.Default().Logger)
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
		observability.InitializeLogger(cfg.Logger)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if observability.Initialized() {
			observability.GetLogger().Error("command failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./relrect.yaml)")
}

// initializeConfig layers defaults, the config file, and RELRECT_ env vars.
func initializeConfig() error {
	def := config.Default()
	viper.SetDefault("logger.level", def.Logger.Level)
	viper.SetDefault("logger.format", def.Logger.Format)
	viper.SetDefault("logger.max_size", def.Logger.MaxSize)
	viper.SetDefault("logger.max_backups", def.Logger.MaxBackups)
	viper.SetDefault("logger.max_age", def.Logger.MaxAge)
	viper.SetDefault("watch.debounce", def.Watch.Debounce)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("relrect")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("RELRECT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and env vars apply.
	}
	return nil
}
