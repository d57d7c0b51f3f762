package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jirahour/config"
)

var (
	projectsUserID  string
	projectsTimeout time.Duration
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the Rea projects available to the configured user",
	Long: `Log into the Rea portal and print the projects the user can book time on.
Use the printed id as the --project value for the import command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), projectsTimeout)
		defer cancel()

		client, err := reaLogin(ctx, cfg, "jirahour-projects/1.0")
		if err != nil {
			return err
		}
		defer client.Logout()

		userID := projectsUserID
		if userID == "" {
			userID = cfg.Rea.UserID
		}
		userID, err = resolveReaUserID(ctx, client, userID)
		if err != nil {
			return err
		}

		projects, err := client.GetProjects(ctx, userID)
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("No projects found for this user.")
			return nil
		}

		fmt.Printf("%-36s  %s\n", "ID", "Project")
		for _, project := range projects {
			fmt.Printf("%-36s  %s\n", project.ID, project.DisplayName())
		}
		fmt.Printf("\n%d project(s).\n", len(projects))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)

	projectsCmd.Flags().StringVar(&projectsUserID, "user", "", "Rea user id (default: rea.user_id from config, else resolved from the portal profile)")
	projectsCmd.Flags().DurationVar(&projectsTimeout, "timeout", 2*time.Minute, "Overall timeout for the request")
}
