package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/guideline/internal/model"
	"github.com/sells-group/guideline/internal/store"
)

var (
	reviewStatus string
	reviewAnswer string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Manage the human review queue",
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List escalated questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initService(cmd.Context(), "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		items, err := env.Store.ListReviewItems(cmd.Context(), store.ReviewFilter{
			Status: model.ReviewStatus(reviewStatus),
		})
		if err != nil {
			return err
		}

		if len(items) == 0 {
			fmt.Println("No review items.")
			return nil
		}

		for _, item := range items {
			fmt.Printf("%s  [%s/%s]  %s\n", item.ID, item.Reason, item.Status, item.Question)
			if item.DraftAnswer != nil {
				fmt.Printf("    draft: %s\n", *item.DraftAnswer)
			}
			if item.FinalAnswer != nil {
				fmt.Printf("    final: %s\n", *item.FinalAnswer)
			}
		}
		return nil
	},
}

var reviewResolveCmd = &cobra.Command{
	Use:   "resolve <id>",
	Short: "Resolve an escalated question with a final answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if reviewAnswer == "" {
			return fmt.Errorf("--answer is required")
		}

		env, err := initService(cmd.Context(), "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Store.ResolveReviewItem(cmd.Context(), args[0], reviewAnswer); err != nil {
			return err
		}
		fmt.Printf("Resolved %s\n", args[0])
		return nil
	},
}

func init() {
	reviewListCmd.Flags().StringVar(&reviewStatus, "status", "", "filter by status: open or resolved")
	reviewResolveCmd.Flags().StringVar(&reviewAnswer, "answer", "", "final answer text")
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewResolveCmd)
	rootCmd.AddCommand(reviewCmd)
}
