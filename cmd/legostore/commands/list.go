package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/openterm/legostore/errors"
	"github.com/openterm/legostore/store"
	"github.com/openterm/legostore/sym"
)

// ListCmd represents the list (LegoList) command group
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: sym.List + " Manage LegoLists",
	Long: sym.List + ` list — Manage named LegoList collections

Examples:
  legostore list create clinical-findings --description "ED findings"
  legostore list ls
  legostore list show clinical-findings
  legostore list rename clinical-findings ed-findings
  legostore list rm clinical-findings`,
}

var listCreateCmd = &cobra.Command{
	Use:   "create <group-name>",
	Short: "Create an empty LegoList",
	Args:  cobra.ExactArgs(1),
	RunE:  runListCreate,
}

var listLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all LegoList group names",
	Args:  cobra.NoArgs,
	RunE:  runListLs,
}

var listShowCmd = &cobra.Command{
	Use:   "show <group-name>",
	Short: "Show a LegoList and its Lego versions",
	Args:  cobra.ExactArgs(1),
	RunE:  runListShow,
}

var listRenameCmd = &cobra.Command{
	Use:   "rename <group-name> <new-name>",
	Short: "Rename a LegoList",
	Args:  cobra.ExactArgs(2),
	RunE:  runListRename,
}

var listRmCmd = &cobra.Command{
	Use:   "rm <group-name>",
	Short: "Delete a LegoList and all its Lego versions",
	Args:  cobra.ExactArgs(1),
	RunE:  runListRm,
}

var (
	listDescriptionFlag string
	listCommentsFlag    string
)

func init() {
	ListCmd.AddCommand(listCreateCmd)
	ListCmd.AddCommand(listLsCmd)
	ListCmd.AddCommand(listShowCmd)
	ListCmd.AddCommand(listRenameCmd)
	ListCmd.AddCommand(listRmCmd)

	listCreateCmd.Flags().StringVar(&listDescriptionFlag, "description", "", "List description")
	listCreateCmd.Flags().StringVar(&listCommentsFlag, "comments", "", "Free-form comments")
}

func runListCreate(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Shutdown()

	list, err := st.CreateLegoList(uuid.NewString(), args[0], listDescriptionFlag, listCommentsFlag)
	if err != nil {
		if errors.Is(err, errors.ErrNameCollision) {
			return fmt.Errorf("a list named %q already exists", args[0])
		}
		return err
	}

	pterm.Success.Printf("%s Created list %s (%s)\n", sym.List, list.GroupName, list.UUID)
	return nil
}

func runListLs(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Shutdown()

	names, err := st.GetLegoListNames()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		pterm.Info.Println("No lists")
		return nil
	}
	for _, name := range names {
		fmt.Printf("%s %s\n", sym.List, name)
	}
	return nil
}

func runListShow(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("%s %s  (%s)\n", sym.List, list.GroupName, list.UUID)
	if list.Description != "" {
		fmt.Printf("  %s\n", list.Description)
	}
	if list.Comments != "" {
		fmt.Printf("  %s\n", pterm.Gray(list.Comments))
	}
	fmt.Printf("  %d lego version(s)\n", len(list.Legos))
	for _, lego := range list.Legos {
		stampUUID := ""
		if lego.Stamp != nil {
			stampUUID = lego.Stamp.UUID
		}
		line := fmt.Sprintf("  %s %s @ %s", sym.Lego, lego.UUID, stampUUID)
		if lego.Pncs != nil {
			line += fmt.Sprintf("  %s %d=%s", sym.Pncs, lego.Pncs.ID, lego.Pncs.Value)
		}
		fmt.Println(line)
	}
	return nil
}

func runListRename(cmd *cobra.Command, args []string) error {
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

	newName := args[1]
	if err := st.UpdateLegoListMetadata(list.UUID, store.ListMetadataUpdate{GroupName: &newName}); err != nil {
		if errors.Is(err, errors.ErrNameCollision) {
			return fmt.Errorf("a list named %q already exists", newName)
		}
		return err
	}

	pterm.Success.Printf("%s Renamed %s to %s\n", sym.List, args[0], newName)
	return nil
}

func runListRm(cmd *cobra.Command, args []string) error {
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

	if err := st.DeleteLegoList(list.UUID); err != nil {
		return err
	}

	pterm.Success.Printf("%s Deleted list %s and %d lego version(s)\n", sym.List, list.GroupName, len(list.Legos))
	return nil
}
