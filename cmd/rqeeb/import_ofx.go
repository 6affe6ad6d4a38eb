package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hsznzas/Rqeeb-sub000/internal/ingest"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX (Quicken) files exported from your bank.

Parsed transactions go through the same duplicate matching and staging
pipeline as CSV imports.

Examples:
  # Import a single file
  rqeeb import-ofx ~/Downloads/checking_jan.qfx

  # Import all QFX files in a directory
  rqeeb import-ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().String("scope", "personal", "ledger scope to import into")
	cmd.Flags().String("batch-label", "", "batch label (default: source file name)")
	cmd.Flags().BoolP("dry-run", "d", false, "Parse and report without staging anything")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	return runImport(cmd, args, func(path, label string, opts ingest.RowOptions) (*ingest.Batch, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		return ingest.ReadOFX(f, label, opts)
	})
}
