// cmd/root.go
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "gedfsim",
	Short: "G-EDF schedulability analyzer for heterogeneous multi-core platforms",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	},
}

// Execute runs the root command; the CLI is an external collaborator per
// spec §1, containing no scheduling logic of its own.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(simulateCmd, analyzeCmd, generateCmd)
}
