package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"dbkit/core/reconcile"
	"dbkit/feature/difftables"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	mergeFlags   tableFlags
	mergeDryRun  bool
	mergeExport  bool
	mergeAtomic  bool
	mergeSkipUpd bool
	mergeSkipIns bool
	yesConfirm   bool
)

// mergeCmd merges a merge table into a base table.
var mergeCmd = &cobra.Command{
	Use:   "merge BASE MERGE",
	Short: "Merge a merge table into a base table",
	Long: `Add the columns BASE is missing, update matched rows that differ and insert
rows of MERGE that have no counterpart in BASE.

The plan is always printed first. Writes require confirmation unless --yes is set.

Examples:
  # Plan only
  dbkit merge products products_import --pivot sku --dry-run

  # Update existing rows only, inside one transaction
  dbkit merge products products_import --pivot sku --skip-unmatched --atomic --yes

  # Keep a copy of the report in object storage before writing
  dbkit merge products products_import --pivot sku --export --yes`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	mergeFlags.bind(mergeCmd)
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Print the plan without writing")
	mergeCmd.Flags().BoolVar(&mergeExport, "export", false, "Upload the report to object storage before writing")
	mergeCmd.Flags().BoolVar(&mergeAtomic, "atomic", false, "Run schema changes and writes in one transaction")
	mergeCmd.Flags().BoolVar(&mergeSkipUpd, "skip-matched", false, "Do not update matched rows")
	mergeCmd.Flags().BoolVar(&mergeSkipIns, "skip-unmatched", false, "Do not insert new rows")
	mergeCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm writes (non-interactive)")
	RootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, l, err := loadRuntime()
	if err != nil {
		return err
	}
	defer l.Sync()

	db, err := connectDatabase(cfg)
	if err != nil {
		return err
	}

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}

	svc := newDiffService(cfg, l, db, store)
	spec := mergeFlags.spec(args)

	l.Info("Planning merge...")
	planned, err := svc.Merge(ctx, spec, difftables.MergeRequest{DryRun: true})
	if err != nil {
		return fmt.Errorf("failed to plan merge: %w", err)
	}
	printMergePlan(l, planned.Plan)

	if mergeDryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	l.Info("Applying merge...")
	result, err := svc.Merge(ctx, spec, difftables.MergeRequest{
		MergeOptions: reconcile.MergeOptions{
			SkipMatched:   mergeSkipUpd,
			SkipUnmatched: mergeSkipIns,
		},
		Atomic: mergeAtomic,
		Export: mergeExport,
	})
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	if result.Export != "" {
		fmt.Printf("Report exported to: %s\n", result.Export)
	}
	fmt.Println("\n=== Merge Result ===")
	fmt.Printf("Columns Added: %s\n", strings.Join(result.Outcome.ColumnsAdded, ", "))
	fmt.Printf("Rows Updated: %d\n", result.Outcome.RowsUpdated)
	fmt.Printf("Rows Inserted: %d\n", result.Outcome.RowsInserted)
	return nil
}

// printMergePlan logs what a merge would do.
func printMergePlan(l *zap.Logger, plan *reconcile.MergePlan) {
	l.Info("Merge plan",
		zap.Strings("missing_columns", plan.MissingColumns),
		zap.Int("rows_to_update", plan.RowsToUpdate),
		zap.Int("rows_to_insert", plan.RowsToInsert),
	)
	for _, col := range sortedColumns(plan.Summary) {
		l.Info("Column changes", zap.String("column", col), zap.Int("rows", plan.Summary[col]))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\nAuto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\nType 'yes' to confirm the merge: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
