package cmd

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/visapath/visapath-cli/internal/config"
	"github.com/visapath/visapath-cli/internal/observability"
)

var cfgFile string

// appConfig is the resolved configuration, available to every subcommand
// after PersistentPreRunE has run.
var appConfig *config.Config

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "visapath",
	Short:   "Visapath scores skilled-migration profiles and renders eligibility decision graphs.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(); err != nil {
			return err
		}

		cfg, err := config.NewConfigFromViper(viper.GetViper())
		if err != nil {
			// Fall back to a console logger so the error is visible.
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "visapath"})
			return err
		}
		appConfig = cfg

		observability.InitializeLogger(cfg.Logger)
		observability.GetLogger().Debug("Starting visapath", zap.String("version", Version))
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	defer observability.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./visapath.yaml, then $HOME/.visapath/config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	rootCmd.AddCommand(newAssessCmd())
	rootCmd.AddCommand(newServeCmd())
}

// initializeConfig reads the config file and environment variables.
func initializeConfig() error {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		expanded, err := homedir.Expand(cfgFile)
		if err != nil {
			return fmt.Errorf("cannot expand config path: %w", err)
		}
		viper.SetConfigFile(expanded)
	} else {
		viper.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			viper.AddConfigPath(home + "/.visapath")
		}
		viper.SetConfigName("visapath")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("VISAPATH")
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
