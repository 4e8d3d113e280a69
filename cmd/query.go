package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	queryFeature "dbkit/feature/query"

	"github.com/spf13/cobra"
)

var (
	queryWhere      string
	queryDateColumn string
	queryYear       int
	queryMonth      int
	queryDay        int
	queryLimit      int
)

// queryCmd runs a dynamic query and prints the rows as JSON.
var queryCmd = &cobra.Command{
	Use:   "query TABLE",
	Short: "Query a table with a JSON filter map",
	Long: `Filter TABLE with an operator-keyed JSON object. Values are bound as
parameters; a backtick-quoted value names another column.

Examples:
  dbkit query orders --where '{"=": {"status": "paid"}, "notNull": ["shipped_at"]}'
  dbkit query orders --where '{">": {"total": "` + "`discount`" + `"}}' --limit 10
  dbkit query orders --date-column created_at --year 2024 --month 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conditions := map[string]any{}
		if queryWhere != "" {
			if err := json.Unmarshal([]byte(queryWhere), &conditions); err != nil {
				return fmt.Errorf("invalid --where: %w", err)
			}
		}

		cfg, l, err := loadRuntime()
		if err != nil {
			return err
		}
		defer l.Sync()

		db, err := connectDatabase(cfg)
		if err != nil {
			return err
		}

		rows, err := queryFeature.NewService(db, l).Query(cmd.Context(), queryFeature.Request{
			Table:      args[0],
			Conditions: conditions,
			DateColumn: queryDateColumn,
			Year:       queryYear,
			Month:      queryMonth,
			Day:        queryDay,
			Limit:      queryLimit,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryWhere, "where", "", "JSON filter map")
	queryCmd.Flags().StringVar(&queryDateColumn, "date-column", "", "Date column for the calendar filter")
	queryCmd.Flags().IntVar(&queryYear, "year", 0, "Year (defaults to the current one)")
	queryCmd.Flags().IntVar(&queryMonth, "month", 0, "Month")
	queryCmd.Flags().IntVar(&queryDay, "day", 0, "Day")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "Maximum rows")
	RootCmd.AddCommand(queryCmd)
}
