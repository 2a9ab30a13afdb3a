/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "0.3.0"

var (
	cfgFile string
	verbose bool

	v      = viper.New()
	cfg    *Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "i18nsync",
	Short: "Incremental locale file synchronizer",
	Long: `Keeps per-locale JSON translation files in step with their source documents.

Only entries whose source text changed since the last run are re-translated;
keys removed from the source are removed everywhere; labels and dates are
copied verbatim.

Use "i18nsync sync --help" for synchronization options.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg, err = loadConfig(v, cfgFile)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger returns a JSON production logger, or a human-readable debug
// logger when verbose is set.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return config.Build()
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	return config.Build()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default .i18nsync.yaml in the current or home directory)")
	rootCmd.PersistentFlags().String("dir", "", "Directory holding the <locale>.json documents")
	rootCmd.PersistentFlags().String("db", "", "SQLite database for the sync journal and glossary (default ./data/i18nsync.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose debug logging")

	_ = v.BindPFlag("dir", rootCmd.PersistentFlags().Lookup("dir"))
	_ = v.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
}
