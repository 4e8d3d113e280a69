package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"dbkit/feature/difftables"

	"github.com/spf13/cobra"
)

// exportsCmd is the parent command for exported reports.
var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "Manage reports exported to object storage",
}

var exportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exported reports, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := exportService()
		if err != nil {
			return err
		}
		exports, err := svc.ListExports(cmd.Context())
		if err != nil {
			return err
		}
		if len(exports) == 0 {
			fmt.Println("No exports.")
			return nil
		}
		for _, e := range exports {
			fmt.Printf("%s  %8d  %s\n", e.LastModified.Format("2006-01-02 15:04:05"), e.Size, e.Object)
		}
		return nil
	},
}

var exportsShowCmd = &cobra.Command{
	Use:   "show OBJECT",
	Short: "Print an exported report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := exportService()
		if err != nil {
			return err
		}
		snap, err := svc.LoadExport(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

var exportsDeleteCmd = &cobra.Command{
	Use:   "delete OBJECT",
	Short: "Delete an exported report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := exportService()
		if err != nil {
			return err
		}
		if err := svc.DeleteExport(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

// exportService builds a service with storage only; exports need no database.
func exportService() (*difftables.Service, error) {
	cfg, l, err := loadRuntime()
	if err != nil {
		return nil, err
	}
	client, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errors.New("storage is disabled (set storage.enabled)")
	}
	return newDiffService(cfg, l, nil, client), nil
}

func init() {
	exportsCmd.AddCommand(exportsListCmd, exportsShowCmd, exportsDeleteCmd)
	RootCmd.AddCommand(exportsCmd)
}
