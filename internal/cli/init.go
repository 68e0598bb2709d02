package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pipemene/bluehome-os/internal/config"
	"github.com/pipemene/bluehome-os/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var (
		apiURL     string
		technician string
		store      string
		company    string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the config file and create the local database",
		Long: `Write ~/.bluehome/config.yaml (or --config) and create the local database
that holds the session and work-record drafts.

Examples:
  bluehome init
  bluehome init --technician "Juan Pérez" --store keyring
  bluehome init --api-url http://localhost:8080`,
		Annotations: map[string]string{skipWire: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				cfg = config.Defaults()
			}
			if cmd.Flags().Changed("api-url") {
				cfg.APIURL = apiURL
			}
			if cmd.Flags().Changed("technician") {
				cfg.Technician.Name = technician
			}
			if cmd.Flags().Changed("store") {
				cfg.Session.Store = store
			}
			if cmd.Flags().Changed("company") {
				cfg.Document.Company = company
			}
			if cmd.Flags().Changed("timeout") {
				cfg.HTTP.Timeout = timeout
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			path, err := config.Save(configPath, cfg)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Config written to %s\n", path)

			dataDir, err := cfg.ResolveDataDir()
			if err != nil {
				return err
			}
			db.SetDataDir(dataDir)
			if _, err := db.GetDB(); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close()
			dbPath, _ := db.GetDBPath()
			fmt.Printf("✓ Database ready at %s\n", dbPath)

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  bluehome login <username>")
			fmt.Println("  bluehome orders list")
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", config.DefaultAPIURL, "backend base URL")
	cmd.Flags().StringVar(&technician, "technician", "", "technician name used when the session carries none")
	cmd.Flags().StringVar(&store, "store", config.StoreSQLite, "where to keep the session: sqlite or keyring")
	cmd.Flags().StringVar(&company, "company", "Blue Home Inmobiliaria", "company name printed on reports")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "backend request timeout")
	return cmd
}
