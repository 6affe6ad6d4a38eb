package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hsznzas/Rqeeb-sub000/internal/cli"
	"github.com/hsznzas/Rqeeb-sub000/internal/ingest"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from CSV statement exports",
		Long: `Import bank-statement CSV exports into the staging area.

Each row is parsed, checked against the ledger for probable duplicates,
and staged for review. Nothing enters the ledger until you approve it.

Examples:
  # Import a single statement
  rqeeb import ~/Downloads/statement_jan.csv

  # Import several statements into the family scope
  rqeeb import --scope family ~/Downloads/*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportCSV,
	}

	cmd.Flags().String("scope", "personal", "ledger scope to import into")
	cmd.Flags().String("batch-label", "", "batch label (default: source file name)")
	cmd.Flags().BoolP("dry-run", "d", false, "Parse and report without staging anything")

	return cmd
}

func runImportCSV(cmd *cobra.Command, args []string) error {
	return runImport(cmd, args, func(path, label string, opts ingest.RowOptions) (*ingest.Batch, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		return ingest.ReadCSV(f, label, opts)
	})
}

// batchReader parses one statement file into a batch.
type batchReader func(path, label string, opts ingest.RowOptions) (*ingest.Batch, error)

func runImport(cmd *cobra.Command, args []string, read batchReader) error {
	scope, _ := cmd.Flags().GetString("scope")
	batchLabel, _ := cmd.Flags().GetString("batch-label")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	files, err := expandFileArgs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to import")
	}

	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	importer, err := newImporter(store)
	if err != nil {
		return err
	}

	opts := rowOptions()
	for _, path := range files {
		label := batchLabel
		if label == "" {
			label = filepath.Base(path)
		}

		batch, readErr := read(path, label, opts)
		if readErr != nil {
			slog.Error("Failed to read statement", "file", path, "error", readErr)
			continue
		}

		if dryRun {
			fmt.Println(cli.FormatInfo(fmt.Sprintf("%s: %d rows parsed, %d row errors (dry run, nothing staged)",
				label, len(batch.Rows), len(batch.RowErrors))))
			printRowErrors(batch.RowErrors)
			continue
		}

		bar := progressbar.NewOptions(len(batch.Rows),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription(fmt.Sprintf("Staging %s...", label)),
		)
		importer.OnRow = func(current, _ int) {
			_ = bar.Set(current)
		}

		report, importErr := importer.ImportBatch(ctx, scope, batch)
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
		if importErr != nil {
			return fmt.Errorf("import of %s failed: %w", label, importErr)
		}

		printReport(report)
	}

	return nil
}

// expandFileArgs resolves glob patterns and plain paths into a file list.
func expandFileArgs(args []string) ([]string, error) {
	var files []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, statErr := os.Stat(pattern); statErr == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			files = append(files, matches...)
		}
	}
	return files, nil
}

func printReport(report *ingest.Report) {
	fmt.Println(cli.FormatTitle(report.BatchLabel))
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d rows staged for review", report.StagedCount)))
	if report.MatchedCount > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d rows flagged as probable duplicates", report.MatchedCount)))
	}
	printRowErrors(report.RowErrors)
}

func printRowErrors(rowErrors []ingest.RowError) {
	if len(rowErrors) == 0 {
		return
	}
	fmt.Println(cli.FormatError(fmt.Sprintf("%d rows could not be processed:", len(rowErrors))))
	for _, re := range rowErrors {
		fmt.Println(cli.SubtleStyle.Render("  " + re.Error()))
	}
}
