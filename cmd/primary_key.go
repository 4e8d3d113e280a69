package cmd

import (
	"fmt"

	"dbkit/core/database"

	"github.com/spf13/cobra"
)

var pkSchema string

// primaryKeyCmd prints the primary key column of a table.
var primaryKeyCmd = &cobra.Command{
	Use:   "primary-key TABLE",
	Short: "Print the primary key column of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := loadRuntime()
		if err != nil {
			return err
		}
		defer l.Sync()

		db, err := connectDatabase(cfg)
		if err != nil {
			return err
		}

		pk, err := database.GetPrimaryKey(cmd.Context(), db, args[0], pkSchema)
		if err != nil {
			return err
		}
		fmt.Println(pk)
		return nil
	},
}

func init() {
	primaryKeyCmd.Flags().StringVar(&pkSchema, "schema", "", "Schema (database) name, defaults to the connected one")
	RootCmd.AddCommand(primaryKeyCmd)
}
