package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/openterm/legostore/sym"
)

// PncsCmd represents the pncs command group
var PncsCmd = &cobra.Command{
	Use:   "pncs",
	Short: sym.Pncs + " Inspect shared Pncs code references",
	Long: sym.Pncs + ` pncs — Inspect the shared Pncs code references held by the store

Examples:
  legostore pncs ls           # All Pncs rows
  legostore pncs show 12345   # Rows and referencing legos for one id`,
}

var pncsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all Pncs rows",
	Args:  cobra.NoArgs,
	RunE:  runPncsLs,
}

var pncsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show Pncs rows for an id and the legos referencing them",
	Args:  cobra.ExactArgs(1),
	RunE:  runPncsShow,
}

func init() {
	PncsCmd.AddCommand(pncsLsCmd)
	PncsCmd.AddCommand(pncsShowCmd)
}

func runPncsLs(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Shutdown()

	it, err := st.GetPncsIterator()
	if err != nil {
		return err
	}
	defer it.Close()

	count := 0
	for it.Next() {
		p := it.Value()
		line := fmt.Sprintf("%s %d = %s", sym.Pncs, p.ID, p.Value)
		if p.Name != "" {
			line += "  " + pterm.Gray(p.Name)
		}
		fmt.Println(line)
		count++
	}
	if err := it.Err(); err != nil {
		return err
	}
	if count == 0 {
		pterm.Info.Println("No pncs rows")
	}
	return nil
}

func runPncsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid pncs id %q", args[0])
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Shutdown()

	rows, err := st.GetPncsByID(id)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no pncs rows with id %d", id)
	}

	for _, p := range rows {
		fmt.Printf("%s %d = %s\n", sym.Pncs, p.ID, p.Value)
	}

	legos, err := st.GetLegosForPncsID(id)
	if err != nil {
		return err
	}
	fmt.Printf("  referenced by %d lego version(s)\n", len(legos))
	for _, lego := range legos {
		stampUUID := ""
		if lego.Stamp != nil {
			stampUUID = lego.Stamp.UUID
		}
		fmt.Printf("  %s %s @ %s\n", sym.Lego, lego.UUID, stampUUID)
	}
	return nil
}
