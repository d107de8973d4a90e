package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"listing-sync/core/reconcile"
	"listing-sync/feature/listings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for reconcile listings command
	purgeListings  bool
	syncListings   bool
	dryRunListings bool
	yesConfirm     bool
	planOutput     string
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the listing database with the marketplace",
	Long: `Reconcile listings to detect new, changed and vanished items.
Supports optional sync (create and update pages) and purge (trash expired pages) operations.`,
}

// listingsReconcileCmd performs listing reconciliation with optional purge/sync.
var listingsReconcileCmd = &cobra.Command{
	Use:   "listings",
	Short: "Reconcile listings (report + optionally sync/purge)",
	Long: `Reconcile the configured target between the marketplace feed and the listing database.

Reports new listings, price changes, listings that left the feed and expired pages.
Optionally sync (create, update, mark unavailable) or purge (trash expired pages).

Examples:
  # Report only
  reconcile listings

  # Sync with interactive confirmation
  reconcile listings --sync

  # Sync and purge with auto-confirm (non-interactive)
  reconcile listings --sync --purge --yes

  # Plan, archive and record the run without changing anything
  reconcile listings --sync --purge --dry-run`,
	RunE: runListingsReconcile,
}

func init() {
	reconcileCmd.AddCommand(listingsReconcileCmd)

	listingsReconcileCmd.Flags().BoolVar(&purgeListings, "purge", false, "Enable purge (trash pages unavailable past the expiration window)")
	listingsReconcileCmd.Flags().BoolVar(&syncListings, "sync", false, "Enable sync (create new pages, update prices and availability)")
	listingsReconcileCmd.Flags().BoolVar(&dryRunListings, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	listingsReconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	listingsReconcileCmd.Flags().StringVar(&planOutput, "output", "", "Write the plan as JSON to this file")

	RootCmd.AddCommand(reconcileCmd)
}

func runListingsReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	l := a.logger
	defer l.Sync()

	l.Info("Starting listing reconciliation", zap.String("target", a.listings.Target().Key()))

	opts := listings.SyncOptions{DryRun: dryRunListings, DoSync: syncListings, DoPurge: purgeListings}
	preview := opts
	if !syncListings && !purgeListings {
		preview = a.listings.DefaultOptions()
	}

	// Step 1: Plan (always runs). The confirmed pass is the one executed.
	pass, err := a.listings.Prepare(ctx, preview)
	if err != nil {
		return fmt.Errorf("failed to plan reconciliation: %w", err)
	}
	plan := pass.Plan

	// Step 2: Print report
	printReconcileReport(l, plan)
	if planOutput != "" {
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal plan: %w", err)
		}
		if err := os.WriteFile(planOutput, data, 0644); err != nil {
			return fmt.Errorf("failed to save plan: %w", err)
		}
		l.Info("Plan saved", zap.String("file", planOutput))
	}

	// Step 3: Check if actions are requested
	if !purgeListings && !syncListings {
		l.Info("No actions requested. Use --sync to create and update pages or --purge to trash expired ones.")
		return nil
	}

	// Step 4: Apply (if confirmed)
	if !dryRunListings {
		if len(plan.Actions) == 0 {
			l.Info("No actions required based on current flags.")
			return nil
		}
		if !confirmDestructiveAction() {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
		l.Info("Applying actions...")
	}

	run, err := a.listings.Execute(ctx, pass)
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}

	if run.DryRun {
		l.Info("Dry-run mode: No changes were made.", zap.String("run_id", run.ID), zap.String("archive", run.ArchiveKey))
	} else {
		l.Info("Successfully executed actions", zap.Int("count", run.Executed), zap.String("run_id", run.ID))
	}
	return nil
}

// printReconcileReport prints a formatted reconciliation report using logger.
func printReconcileReport(l *zap.Logger, plan *reconcile.ReconcilePlan) {
	s := plan.Summary

	l.Info("Reconciliation report",
		zap.Int("live_items", s.LiveItems),
		zap.Int("stored_items", s.StoredItems),
		zap.Int("new", s.New),
		zap.Int("intersection", s.Intersection),
		zap.Int("unavailable", s.Unavailable),
		zap.Int("expired", s.Expired),
	)

	if len(plan.Actions) > 0 {
		l.Info("Planned actions",
			zap.Int("create_actions", s.CreateActions),
			zap.Int("update_actions", s.UpdateActions),
			zap.Int("trash_actions", s.TrashActions),
			zap.Int("total_actions", len(plan.Actions)),
		)

		// Show sample of actions (max 5 for logger)
		maxShow := min(5, len(plan.Actions))
		for _, action := range plan.Actions[:maxShow] {
			l.Info("Sample action",
				zap.String("type", string(action.Type)),
				zap.String("key", action.Key),
				zap.String("reason", action.Reason),
			)
		}
		if len(plan.Actions) > maxShow {
			l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
		}
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
