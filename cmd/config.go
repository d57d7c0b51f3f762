package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage jirahour configuration file values.",
	Long: `Create and display the jirahour configuration file.

The configuration stores the Jira and Rea portal connection values:
- jira.url / jira.email / jira.api_token
- rea.url / rea.username / rea.password
- rea.user_id / rea.project_id (remembered defaults for import)`,
	Example: `
  # Create default config in $HOME/.jirahour.yaml
  jirahour config create

  # Show active config and source file
  jirahour config show
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
