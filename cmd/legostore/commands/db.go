package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openterm/legostore/config"
	"github.com/openterm/legostore/sym"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: sym.DB + " Manage legostore database",
	Long: sym.DB + ` db — Manage legostore database operations

Examples:
  legostore db stats   # Show record counts per table`,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long:  "Display record counts for lists, lego versions, stamps, and pncs rows",
	RunE:  runDbStats,
}

func init() {
	DbCmd.AddCommand(dbStatsCmd)
}

func runDbStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Shutdown()

	stats, err := st.GetStats()
	if err != nil {
		return err
	}

	fmt.Printf("%s Database Statistics\n", sym.DB)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
	fmt.Printf("Database Path:  %s\n", cfg.Database.Path)
	fmt.Printf("Lego Lists:     %d\n", stats.LegoLists)
	fmt.Printf("Lego Versions:  %d\n", stats.Legos)
	fmt.Printf("Stamps:         %d\n", stats.Stamps)
	fmt.Printf("Pncs Rows:      %d\n", stats.Pncs)
	return nil
}
