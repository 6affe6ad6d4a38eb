package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hsznzas/Rqeeb-sub000/internal/cli"
	"github.com/hsznzas/Rqeeb-sub000/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage learned category rules",
		Long:  `List and add the category rules rqeeb learns from your review corrections.`,
	}

	cmd.AddCommand(listRulesCmd())
	cmd.AddCommand(addRuleCmd())

	return cmd
}

func listRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List category rules",
		Long:  `Display the learned keyword-to-category rules for a scope, most used first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scope, _ := cmd.Flags().GetString("scope")

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rules, err := store.ListCategoryRules(ctx, scope)
			if err != nil {
				return fmt.Errorf("failed to list category rules: %w", err)
			}

			if len(rules) == 0 {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("No category rules in scope %q. Rules are learned from approval corrections.", scope)))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "KEYWORD\tCATEGORY\tUSES")
			for i := range rules {
				fmt.Fprintf(w, "%s\t%s\t%d\n", rules[i].Keyword, rules[i].Category, rules[i].UseCount)
			}

			return nil
		},
	}

	cmd.Flags().String("scope", "personal", "ledger scope")

	return cmd
}

func addRuleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [keyword] [category]",
		Short: "Add or update a category rule",
		Long:  `Record a keyword-to-category rule directly, without waiting for an approval correction.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, _ := cmd.Flags().GetString("scope")

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rule := &model.CategoryRule{
				Scope:    scope,
				Keyword:  args[0],
				Category: args[1],
			}
			if err := store.SaveCategoryRule(ctx, rule); err != nil {
				return fmt.Errorf("failed to save category rule: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Rule saved: %q → %s", rule.Keyword, rule.Category)))
			return nil
		},
	}

	cmd.Flags().String("scope", "personal", "ledger scope")

	return cmd
}
