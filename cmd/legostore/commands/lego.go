package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/openterm/legostore/sym"
)

// LegoCmd represents the lego command group
var LegoCmd = &cobra.Command{
	Use:   "lego",
	Short: sym.Lego + " Inspect and delete Lego versions",
	Long: sym.Lego + ` lego — Inspect and delete versioned Lego documents

Examples:
  legostore lego show 7f3c...                      # All versions of a Lego
  legostore lego show 7f3c... --stamp 91aa...      # One specific version
  legostore lego rm clinical-findings 7f3c... 91aa...`,
}

var legoShowCmd = &cobra.Command{
	Use:   "show <lego-uuid>",
	Short: "Show Lego versions as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runLegoShow,
}

var legoRmCmd = &cobra.Command{
	Use:   "rm <group-name> <lego-uuid> <stamp-uuid>",
	Short: "Delete one Lego version from a list",
	Long: `Delete one Lego version from a list.

The version's Stamp is removed with it. Its Pncs reference is removed only
when no other Lego version still points at the same (id, value) pair.`,
	Args: cobra.ExactArgs(3),
	RunE: runLegoRm,
}

var legoStampFlag string

func init() {
	LegoCmd.AddCommand(legoShowCmd)
	LegoCmd.AddCommand(legoRmCmd)

	legoShowCmd.Flags().StringVar(&legoStampFlag, "stamp", "", "Show only the version with this stamp UUID")
}

func runLegoShow(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Shutdown()

	legoUUID := args[0]

	if legoStampFlag != "" {
		lego, err := st.GetLego(legoUUID, legoStampFlag)
		if err != nil {
			return err
		}
		if lego == nil {
			return fmt.Errorf("no lego %s @ %s", legoUUID, legoStampFlag)
		}
		return printJSON(lego)
	}

	legos, err := st.GetLegos(legoUUID)
	if err != nil {
		return err
	}
	if len(legos) == 0 {
		return fmt.Errorf("no versions of lego %s", legoUUID)
	}
	return printJSON(legos)
}

func runLegoRm(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Shutdown()

	groupName, legoUUID, stampUUID := args[0], args[1], args[2]

	list, err := st.GetLegoListByName(groupName)
	if err != nil {
		return err
	}
	if list == nil {
		return fmt.Errorf("no list named %q", groupName)
	}

	if err := st.DeleteLego(list.UUID, legoUUID, stampUUID); err != nil {
		return err
	}

	pterm.Success.Printf("%s Deleted lego %s @ %s from %s\n", sym.Lego, legoUUID, stampUUID, groupName)
	return nil
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
