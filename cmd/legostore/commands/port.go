package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/openterm/legostore/errors"
	"github.com/openterm/legostore/sym"
	"github.com/openterm/legostore/types"
)

// ExportCmd represents the export command
var ExportCmd = &cobra.Command{
	Use:   "export <group-name>",
	Short: sym.List + " Export a LegoList as JSON",
	Long: sym.List + ` export — Dump a complete LegoList, including every Lego
version with its Stamp and Pncs, as indented JSON.

Examples:
  legostore export clinical-findings                 # To stdout
  legostore export clinical-findings -o findings.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

// ImportCmd represents the import command
var ImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: sym.List + " Import a LegoList from JSON",
	Long: sym.List + ` import — Load a previously exported LegoList.

The import is atomic: if the list UUID, its group name, or any contained
Lego version already exists, nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportOutputFlag string

func init() {
	ExportCmd.Flags().StringVarP(&exportOutputFlag, "output", "o", "", "Write JSON to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Shutdown()

	list, err := st.GetLegoListByName(args[0])
	if err != nil {
		return err
	}
	if list == nil {
		return fmt.Errorf("no list named %q", args[0])
	}

	out, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal list")
	}

	if exportOutputFlag == "" {
		fmt.Println(string(out))
		return nil
	}

	if err := os.WriteFile(exportOutputFlag, append(out, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", exportOutputFlag)
	}
	pterm.Success.Printf("%s Exported %s (%d lego versions) to %s\n",
		sym.List, list.GroupName, len(list.Legos), exportOutputFlag)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", args[0])
	}

	var list types.LegoList
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.Wrapf(err, "failed to parse %s", args[0])
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Shutdown()

	if err := st.ImportLegoList(&list); err != nil {
		if errors.Is(err, errors.ErrDuplicateImport) {
			return fmt.Errorf("import rejected: %v", err)
		}
		return err
	}

	pterm.Success.Printf("%s Imported %s (%d lego versions)\n",
		sym.List, list.GroupName, len(list.Legos))
	return nil
}
