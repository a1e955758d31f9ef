package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crewledger-systems/crewledger/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "crewledger",
	Short: "CrewLedger time and attendance service",
	Long: `crewledger runs the CrewLedger HR time-clock service.

Every clock event is appended to a per-employee hash chain so that the
attendance and timesheet records derived from it stay tamper-evident.`,
	Version: "0.1.0",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, optional)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
}
