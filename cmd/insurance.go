package cmd

import (
	"context"
	"fmt"

	"listing-sync/core/reconcile"
	"listing-sync/feature/notion"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	insuranceConditions string
	insurancePageID     string
)

// insuranceCmd checks the insurance history of a single listing.
var insuranceCmd = &cobra.Command{
	Use:   "insurance <car-id>",
	Short: "Check the insurance history of one listing",
	Long: `Fetches the insurance history of a listing and evaluates it against the configured conditions.

Examples:
  insurance 38012345
  insurance 38012345 --conditions "general==정상;owner_changed<=2"
  insurance 38012345 --page-id 0f3c...  # also write the result to the listing page`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		l := a.logger
		defer l.Sync()

		conditions := a.insurance.Conditions()
		if insuranceConditions != "" {
			conditions, err = reconcile.ParseConditions(insuranceConditions)
			if err != nil {
				return fmt.Errorf("invalid conditions: %w", err)
			}
		}

		report, err := a.insurance.CheckWith(ctx, args[0], conditions)
		if err != nil {
			return err
		}
		printJSON(report)

		if insurancePageID != "" {
			if err := a.store.UpdateInsurance(ctx, insurancePageID, int(report.Status)); err != nil {
				return fmt.Errorf("failed to update page: %w", err)
			}
			l.Info("Insurance status written",
				zap.String("page_id", insurancePageID),
				zap.String("label", notion.InsuranceLabel(int(report.Status))),
			)
		}
		return nil
	},
}

func init() {
	insuranceCmd.Flags().StringVar(&insuranceConditions, "conditions", "", "Override the configured conditions")
	insuranceCmd.Flags().StringVar(&insurancePageID, "page-id", "", "Write the result to this listing page")
	RootCmd.AddCommand(insuranceCmd)
}
