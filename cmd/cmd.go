package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/shopfloor-tasks/internal"
	"github.com/frahmantamala/shopfloor-tasks/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	clearData bool
)

var rootCmd = &cobra.Command{
	Use:   "shopfloor-tasks",
	Short: "Shopfloor Tasks",
	Long:  `Work-order task tracking for production floor workers, backed by a shared spreadsheet.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func isProduction() bool {
	return os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true"
}

func loadConfig(path string) (*internal.Config, error) {
	// Check if we're running in Docker environment
	if isProduction() {
		// Load configuration from environment variables (Docker deployment)
		return internal.LoadConfigFromEnv(), nil
	}

	// Load configuration from file (development)
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	cfg := internal.Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return cfg, nil
}

// loadCommandConfig loads the configuration, checks the sections a command needs and
// initializes the process logger from it.
func loadCommandConfig(validate func(*internal.Config) error) (*internal.Config, error) {
	cfg, err := loadConfig(".")
	if err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}
	initLogger(cfg)
	return cfg, nil
}

func initLogger(cfg *internal.Config) {
	env := "development"
	if isProduction() || strings.EqualFold(cfg.Observability.Logging.Format, "json") {
		env = "production"
	}
	logger.InitWithLevel(env, cfg.Observability.Logging.Level)
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing rows before seeding")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
