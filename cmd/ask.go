package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askRole string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a policy question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initService(cmd.Context(), "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		question := strings.Join(args, " ")
		answer, err := env.Pipeline.Ask(cmd.Context(), question, askRole)
		if err != nil {
			return err
		}

		fmt.Println(answer.Answer)
		fmt.Printf("\nConfidence: %s (distance %.3f)\n", answer.Confidence, answer.BestDistance)

		if len(answer.Citations) > 0 {
			fmt.Println("\nSources:")
			for _, c := range answer.Citations {
				fmt.Printf("  - %s p.%d (distance %.3f)\n", c.DocTitle, c.PageStart, c.Distance)
			}
		}
		if answer.ReviewID != nil {
			fmt.Printf("\nEscalated for human review: %s\n", *answer.ReviewID)
		}

		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askRole, "role", "internal", "requester role: public, internal, confidential or restricted")
	rootCmd.AddCommand(askCmd)
}
