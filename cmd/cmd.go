package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix  = "MARKETPLACE"
	configName = "config"
)

var (
	configDir string
	configEnv bool
	clearData bool
)

var rootCmd = &cobra.Command{
	Use:   "marketplace",
	Short: "Marketplace back office",
	Long: `Admin and partner back office for stores, couriers, catalogs and notifications.

Configuration comes from <config-dir>/config.yml, with MARKETPLACE_* variables
overriding file values. Pass --env, or set APP_ENV=production, to read the
flat environment layout (DB_SOURCE, JWT_ACCESS_SECRET, ...) instead.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func useEnvConfig() bool {
	return configEnv || os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true"
}

// loadConfig returns a validated config from the environment or from the
// YAML file in dir.
func loadConfig(dir string) (*internal.Config, error) {
	var (
		cfg *internal.Config
		err error
	)
	if useEnvConfig() {
		cfg, err = internal.LoadConfigFromEnv()
	} else {
		cfg, err = loadConfigFile(dir)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadConfigFile(dir string) (*internal.Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(configName)
	v.SetConfigType("yml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s/%s.yml: %w", dir, configName, err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding config.yml")
	rootCmd.PersistentFlags().BoolVar(&configEnv, "env", false, "Read configuration from environment variables only")

	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")

	rootCmd.AddCommand(httpServerCmd, migrateCmd, seedCmd)
}
