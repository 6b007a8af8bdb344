// Package cmd implements the rentroll CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/rentroll/internal/billing"
	"github.com/theirongolddev/rentroll/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, conv, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data file:    %s\n", dataPath(cfg))
	fmt.Printf("    Project ID:   %s\n", cfg.General.ProjectID)
	if cfg.General.DefaultYear > 0 {
		fmt.Printf("    Default year: %d\n", cfg.General.DefaultYear)
	} else {
		fmt.Println("    Default year: current year")
	}
	fmt.Printf("    Keep backups: %v\n", cfg.General.KeepBackups)
	fmt.Println()

	fmt.Println("  [Billing]")
	fmt.Printf("    Bill lead:            %s\n", describeLead(conv.BillLeadMonths))
	fmt.Printf("    Full-cycle tolerance: %d days\n", conv.FullCycleToleranceDays)
	fmt.Printf("    Rent-free month:      %.0f days\n", conv.RentFreeMonthDays)
	fmt.Printf("    Days per year:        %.0f\n", conv.DaysPerYear)
	fmt.Printf("    Max cycles:           %d\n", conv.MaxCycles)
	fmt.Println()

	fmt.Println("  [Snapshot]")
	fmt.Printf("    Backend: %s\n", cfg.Snapshot.Backend)
	switch cfg.Snapshot.Backend {
	case config.BackendS3:
		s3 := cfg.Snapshot.S3
		fmt.Printf("    Bucket:  %s/%s\n", s3.Bucket, s3.Prefix)
		if s3.Endpoint != "" {
			fmt.Printf("    Endpoint: %s\n", s3.Endpoint)
		}
		if access, _ := config.GetS3Credentials(cfg); access != "" {
			fmt.Printf("    Access key: %s\n", maskAPIKey(access))
		}
	default:
		fmt.Printf("    Database: %s\n", config.SnapshotDBPath(cfg))
	}
	fmt.Println()

	fmt.Println("  [Narrative]")
	if key := config.GetNarrativeKey(cfg); key != "" {
		fmt.Printf("    API key: %s\n", maskAPIKey(key))
	} else {
		fmt.Println("    API key: not configured")
	}
	fmt.Printf("    Model:   %s\n", cfg.Narrative.Model)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address: %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Poll:    %ds\n", cfg.Daemon.PollSeconds)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `rentroll setup` to reconfigure.")
	return nil
}

func describeLead(months int) string {
	switch months {
	case billing.LeadRegularCycle:
		return "one regular cycle"
	case 1:
		return "1 month"
	}
	return fmt.Sprintf("%d months", months)
}
