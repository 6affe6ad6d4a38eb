package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hsznzas/Rqeeb-sub000/internal/cli"
	"github.com/hsznzas/Rqeeb-sub000/internal/ingest"
	"github.com/hsznzas/Rqeeb-sub000/internal/model"
	"github.com/hsznzas/Rqeeb-sub000/internal/staging"
)

func stagingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staging",
		Short: "Review imported transactions",
		Long:  `List, approve, merge, and reject staged transactions awaiting review.`,
	}

	cmd.AddCommand(listStagingCmd())
	cmd.AddCommand(approveStagingCmd())
	cmd.AddCommand(mergeStagingCmd())
	cmd.AddCommand(rejectStagingCmd())
	cmd.AddCommand(approveAllStagingCmd())

	return cmd
}

func listStagingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staged transactions",
		Long:  `Display staged transactions for a scope, filtered by review status.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scope, _ := cmd.Flags().GetString("scope")
			rawStatus, _ := cmd.Flags().GetString("status")

			status, err := parseStatus(rawStatus)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records, err := store.ListStagingRecords(ctx, scope, status)
			if err != nil {
				return fmt.Errorf("failed to list staging records: %w", err)
			}

			if len(records) == 0 {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("No %s records in scope %q.", status, scope)))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tDATE\tAMOUNT\tDIR\tDESCRIPTION\tDUPLICATE OF\tBATCH")
			for i := range records {
				rec := &records[i]
				dup := "-"
				if rec.HasMatch() {
					dup = rec.PotentialMatchID
				}
				fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\t%s\t%s\n",
					rec.ID,
					rec.Candidate.Date.Format("2006-01-02"),
					rec.Candidate.Amount.StringFixed(2),
					rec.Candidate.Currency,
					rec.Candidate.Direction,
					rec.Candidate.Description,
					dup,
					rec.ImportBatch)
			}

			return nil
		},
	}

	cmd.Flags().String("scope", "personal", "ledger scope")
	cmd.Flags().String("status", "pending", "review status (pending, approved, rejected)")

	return cmd
}

func approveStagingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve [staging-id]",
		Short: "Approve a staged transaction into the ledger",
		Long: `Create a permanent ledger transaction from a pending staging record.

Reviewer edits passed as flags override the imported values; a category
correction also teaches rqeeb to suggest that category next time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ov, err := overridesFromFlags(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn, learning, err := newManager(store).Approve(ctx, args[0], ov)
			if err != nil {
				return fmt.Errorf("failed to approve %s: %w", args[0], err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Approved as ledger transaction %s (%s %s %s)",
				txn.ID, txn.Amount.StringFixed(2), txn.Currency, txn.Merchant)))

			if learning.Attempted() {
				if learning.Err != nil {
					fmt.Println(cli.FormatWarning(fmt.Sprintf("Category rule not saved: %v", learning.Err)))
				} else {
					fmt.Println(cli.FormatInfo(fmt.Sprintf("Learned: %q → %s", learning.Keyword, txn.Category)))
				}
			}

			return nil
		},
	}

	addOverrideFlags(cmd)

	return cmd
}

func mergeStagingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge [staging-id] [ledger-id]",
		Short: "Merge a staged duplicate into an existing ledger transaction",
		Long: `Discard a staged duplicate, optionally updating the existing ledger
transaction's merchant or category. Without an explicit ledger id, the
duplicate recorded at import time is used.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ov, err := overridesFromFlags(cmd)
			if err != nil {
				return err
			}

			targetID := ""
			if len(args) == 2 {
				targetID = args[1]
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := newManager(store).Merge(ctx, args[0], targetID, ov); err != nil {
				return fmt.Errorf("failed to merge %s: %w", args[0], err)
			}

			fmt.Println(cli.FormatSuccess("Merged into existing ledger transaction"))
			return nil
		},
	}

	cmd.Flags().String("merchant", "", "update the ledger transaction's merchant")
	cmd.Flags().String("category", "", "update the ledger transaction's category")

	return cmd
}

func rejectStagingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject [staging-id]",
		Short: "Reject a staged transaction",
		Long:  `Discard a pending staging record with no effect on the ledger.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := newManager(store).Reject(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to reject %s: %w", args[0], err)
			}

			fmt.Println(cli.FormatSuccess("Rejected"))
			return nil
		},
	}
}

func approveAllStagingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve-all",
		Short: "Approve every pending record with no duplicate match",
		Long: `Approve all pending staging records in a scope that were not flagged
as probable duplicates. Flagged records stay pending for manual review.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scope, _ := cmd.Flags().GetString("scope")
			category, _ := cmd.Flags().GetString("category")

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records, err := store.ListStagingRecords(ctx, scope, model.StagingPending)
			if err != nil {
				return fmt.Errorf("failed to list pending records: %w", err)
			}

			ids := make([]string, 0, len(records))
			for i := range records {
				ids = append(ids, records[i].ID)
			}

			result := newManager(store).BulkApproveNonDuplicates(ctx, ids, staging.BulkDefaults{Category: category})

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d records approved", result.ApprovedCount)))
			skipped := len(ids) - result.ApprovedCount - len(result.Errors)
			if skipped > 0 {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("%d flagged records left pending for review", skipped)))
			}
			for _, be := range result.Errors {
				fmt.Println(cli.FormatError(fmt.Sprintf("%s: %v", be.StagingID, be.Err)))
			}

			return nil
		},
	}

	cmd.Flags().String("scope", "personal", "ledger scope")
	cmd.Flags().String("category", "", "category applied to records without one")

	return cmd
}

func addOverrideFlags(cmd *cobra.Command) {
	cmd.Flags().String("category", "", "override the candidate's category")
	cmd.Flags().String("description", "", "override the candidate's description")
	cmd.Flags().String("date", "", "override the candidate's date")
	cmd.Flags().String("amount", "", "override the candidate's amount")
}

func overridesFromFlags(cmd *cobra.Command) (staging.Overrides, error) {
	var ov staging.Overrides

	if cmd.Flags().Lookup("category") != nil {
		if v, _ := cmd.Flags().GetString("category"); v != "" {
			ov.Category = &v
		}
	}
	if cmd.Flags().Lookup("merchant") != nil {
		if v, _ := cmd.Flags().GetString("merchant"); v != "" {
			ov.Description = &v
		}
	}
	if cmd.Flags().Lookup("description") != nil {
		if v, _ := cmd.Flags().GetString("description"); v != "" {
			ov.Description = &v
		}
	}
	if cmd.Flags().Lookup("date") != nil {
		if v, _ := cmd.Flags().GetString("date"); v != "" {
			date, err := ingest.ParseDate(v)
			if err != nil {
				return ov, fmt.Errorf("invalid --date: %w", err)
			}
			ov.Date = &date
		}
	}
	if cmd.Flags().Lookup("amount") != nil {
		if v, _ := cmd.Flags().GetString("amount"); v != "" {
			amount, err := decimal.NewFromString(v)
			if err != nil {
				return ov, fmt.Errorf("invalid --amount: %w", err)
			}
			ov.Amount = &amount
		}
	}

	return ov, nil
}

func parseStatus(raw string) (model.StagingStatus, error) {
	switch model.StagingStatus(raw) {
	case model.StagingPending, model.StagingApproved, model.StagingRejected:
		return model.StagingStatus(raw), nil
	default:
		return "", fmt.Errorf("invalid status %q (expected pending, approved, or rejected)", raw)
	}
}
