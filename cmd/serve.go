package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"jirahour/config"
	"jirahour/rea"
	"jirahour/storage"
	"jirahour/web"
)

var (
	serveAddr    string
	serveDBPath  string
	serveUserID  string
	serveOffline bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a local dashboard comparing saved worklogs with portal entries",
	Long: `Start a localhost web server showing the saved Jira worklogs next to the
Rea portal entries for a date range, with the per-day difference between the
two. The server binds to localhost only and is meant for a single user.

With --offline the portal is never contacted and only the saved worklogs are
shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.OpenSQLite(serveDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		var client rea.Client
		userID := serveUserID
		if !serveOffline {
			cfg, err := config.LoadAndValidate()
			if err != nil {
				return err
			}

			loginCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			httpClient, err := reaLogin(loginCtx, cfg, "jirahour-serve/1.0")
			if err != nil {
				cancel()
				return err
			}
			if userID == "" {
				userID = cfg.Rea.UserID
			}
			userID, err = resolveReaUserID(loginCtx, httpClient, userID)
			cancel()
			if err != nil {
				return err
			}
			client = httpClient
			defer httpClient.Logout()
		}

		handler := web.NewServer(store, client, userID)
		server := &http.Server{
			Addr:              serveAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		fmt.Printf("Dashboard listening on http://%s (Ctrl+C to stop)\n", serveAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8787", "Listen address for the dashboard")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "./jirahour.db", "Path to local SQLite database")
	serveCmd.Flags().StringVar(&serveUserID, "user", "", "Rea user id (default: rea.user_id from config, else resolved from the portal profile)")
	serveCmd.Flags().BoolVar(&serveOffline, "offline", false, "Skip the portal and show saved worklogs only")
}
