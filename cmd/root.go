/*
Copyright © 2025

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
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jirahour/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jirahour",
	Short: "Fetch Jira worklogs and import them into the Rea portal without duplicates.",
	Long: `
**********************************************
*               JIRA HOUR                    *
**********************************************

This CLI reads a user's logged work from Jira across a date window, reconciles
it against the time entries already stored on the Rea portal, and submits only
the records the portal does not have yet. Fetched worklogs can be snapshotted
into a local SQLite database for offline statistics and the dashboard.
`,
	Example: `
  # Create configuration file
  jirahour config create

  # Fetch this month's Jira worklogs and print them
  jirahour fetch --from 2026-08-01 --to 2026-08-31

  # Fetch and snapshot to the local database
  jirahour fetch --from 2026-08-01 --to 2026-08-31 --save

  # List Rea portal projects
  jirahour projects

  # Import into the Rea portal (duplicates are skipped)
  jirahour import --from 2026-08-01 --to 2026-08-31 --project 42

  # Preview an import without writing to the portal
  jirahour import --from 2026-08-01 --to 2026-08-31 --project 42 --dry-run

  # Daily/task statistics from the local snapshot
  jirahour stats --output ./summary.xlsx

  # Past import runs from the audit log
  jirahour runs

  # Local comparison dashboard
  jirahour serve
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.jirahour.yaml, then ./.jirahour.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".jirahour")
	}

	viper.SetEnvPrefix("JIRAHOUR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: jirahour config create")
	}
}
