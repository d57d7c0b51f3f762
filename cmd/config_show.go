package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jirahour/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Secrets are
masked.`,
	Example: `
  # Show active configuration
  jirahour config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		}
		fmt.Println("Configuration:")
		fmt.Printf("jira.url: %s\n", cfg.Jira.URL)
		fmt.Printf("jira.email: %s\n", cfg.Jira.Email)
		fmt.Printf("jira.api_token: %s\n", maskSecret(cfg.Jira.APIToken))
		fmt.Printf("rea.url: %s\n", cfg.Rea.URL)
		fmt.Printf("rea.username: %s\n", cfg.Rea.Username)
		fmt.Printf("rea.password: %s\n", maskSecret(cfg.Rea.Password))
		fmt.Printf("rea.user_id: %s\n", cfg.Rea.UserID)
		fmt.Printf("rea.project_id: %s\n", cfg.Rea.ProjectID)
	},
}

func maskSecret(value string) string {
	if value == "" {
		return "(not set)"
	}
	return "********"
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
