package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/rentroll/internal/config"
	"github.com/theirongolddev/rentroll/internal/source"
	"github.com/theirongolddev/rentroll/internal/tui/theme"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)
	prompt := func() string {
		fmt.Print("     > ")
		s, _ := reader.ReadString('\n')
		return strings.TrimSpace(s)
	}

	// Load existing config or defaults
	cfg, _ := config.Load()
	path := dataPath(cfg)

	fmt.Println()
	fmt.Println("  Welcome to rentroll!")
	fmt.Println()
	if doc, err := source.ReadDocument(path, time.Now()); err == nil && len(doc.Tenants) > 0 {
		fmt.Printf("  Found %s tenants in %s\n\n", formatNumber(int64(len(doc.Tenants))), path)
	}

	// 1. Data file
	fmt.Println("  1. Data file")
	fmt.Printf("     Current: %s\n", path)
	if v := prompt(); v != "" {
		cfg.General.DataFile = v
	}
	fmt.Println()

	// 2. Project
	fmt.Println("  2. Project ID (groups snapshots)")
	fmt.Printf("     Current: %s\n", cfg.General.ProjectID)
	if v := prompt(); v != "" {
		cfg.General.ProjectID = v
	}
	fmt.Println()

	// 3. Bill lead
	fmt.Println("  3. Bills are dated")
	fmt.Println("     (1) at the start of the period")
	fmt.Println("     (2) one month ahead [default]")
	fmt.Println("     (3) one regular cycle ahead")
	switch prompt() {
	case "1":
		cfg.Billing.BillLeadMonths = "0"
	case "3":
		cfg.Billing.BillLeadMonths = config.LeadCycle
	default:
		cfg.Billing.BillLeadMonths = ""
	}
	fmt.Println()

	// 4. Snapshots
	fmt.Println("  4. Snapshot storage")
	fmt.Println("     (1) local SQLite [default]")
	fmt.Println("     (2) S3-compatible bucket")
	if prompt() == "2" {
		cfg.Snapshot.Backend = config.BackendS3
		fmt.Println("     Bucket name")
		if v := prompt(); v != "" {
			cfg.Snapshot.S3.Bucket = v
		}
		fmt.Println("     Endpoint (empty for AWS)")
		if v := prompt(); v != "" {
			cfg.Snapshot.S3.Endpoint = v
			cfg.Snapshot.S3.UsePathStyle = true
		}
	} else {
		cfg.Snapshot.Backend = config.BackendSQLite
	}
	fmt.Println()

	// 5. Narrative key
	fmt.Println("  5. Text-generation API key (optional, for `rentroll narrate`)")
	if existing := config.GetNarrativeKey(cfg); existing != "" {
		fmt.Printf("     Current: %s\n", maskAPIKey(existing))
	}
	if v := prompt(); v != "" {
		cfg.Narrative.APIKey = v
	}
	fmt.Println()

	// 6. Theme
	fmt.Println("  6. Color theme")
	names := theme.Names()
	for i, name := range names {
		marker := ""
		if name == cfg.Appearance.Theme {
			marker = " [current]"
		}
		fmt.Printf("     (%d) %s%s\n", i+1, name, marker)
	}
	if n, err := strconv.Atoi(prompt()); err == nil && n >= 1 && n <= len(names) {
		cfg.Appearance.Theme = names[n-1]
	}

	// Save
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `rentroll setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
