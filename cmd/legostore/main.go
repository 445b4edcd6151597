package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openterm/legostore/cmd/legostore/commands"
	"github.com/openterm/legostore/logger"
)

var rootCmd = &cobra.Command{
	Use:   "legostore",
	Short: "legostore - Versioned Lego assertion document store",
	Long: `legostore - Transactional store for versioned Lego assertion documents.

Lego documents are grouped into named LegoLists. Every committed version
carries a provenance Stamp and may reference a shared Pncs code.

Available commands:
  list    - Manage LegoLists (create, ls, show, rename, rm)
  lego    - Inspect and delete Lego versions
  pncs    - Inspect shared Pncs code references
  export  - Export a LegoList as JSON
  import  - Import a LegoList from JSON
  db      - Database operations and statistics
  version - Show version information

Examples:
  legostore list create clinical-findings   # Create an empty list
  legostore list ls                         # List all group names
  legostore export clinical-findings        # Dump a list as JSON
  legostore db stats                        # Show record counts`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		level := logger.VerbosityToLevel(verbosity + 1)
		if err := logger.InitializeWithLevel(false, level); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().String("db", "", "Database path (overrides configuration)")

	rootCmd.AddCommand(commands.ListCmd)
	rootCmd.AddCommand(commands.LegoCmd)
	rootCmd.AddCommand(commands.PncsCmd)
	rootCmd.AddCommand(commands.ExportCmd)
	rootCmd.AddCommand(commands.ImportCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
