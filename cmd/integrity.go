package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the archive bucket, history database and listing database",
	Long:  `Checks the archive bucket folder structure, the run history schema and the listing database properties.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			cmd.Help()
			return
		}
		runIntegrityChecks(cmd.Context(), false, false, false)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix the archive folder structure",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

// historyCmd represents the integrity history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Check the run history database schema",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

// notionSchemaCmd represents the integrity notion command
var notionSchemaCmd = &cobra.Command{
	Use:   "notion",
	Short: "Check the listing database properties",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Automatically create missing folders")

	integrityCmd.AddCommand(structureCmd)
	integrityCmd.AddCommand(historyCmd)
	integrityCmd.AddCommand(notionSchemaCmd)
	RootCmd.AddCommand(integrityCmd)
}

func runIntegrityChecks(ctx context.Context, onlyStructure, onlyHistory, onlyNotion bool) {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := bootstrap(ctx)
	if err != nil {
		fmt.Printf("Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	logg := a.logger
	defer logg.Sync()

	svc := a.integrity
	runAll := !onlyStructure && !onlyHistory && !onlyNotion

	if runAll || onlyStructure {
		logg.Info("Checking archive folder structure...")
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			logg.Fatal("Structure check failed", zap.Error(err))
		}

		if len(missing) == 0 {
			logg.Info("Structure is intact.")
		} else {
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))

			if onlyStructure && fixFlag {
				logg.Info("Fixing missing folders...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					logg.Fatal("Failed to fix structure", zap.Error(err))
				}
				logg.Info("Structure fixed successfully.")
			} else if onlyStructure {
				logg.Info("Run with --fix to create missing folders.")
			}
		}
	}

	if runAll || onlyHistory {
		logg.Info("Checking run history schema...")
		report, err := svc.CheckHistory()
		if err != nil {
			logg.Fatal("History check failed", zap.Error(err))
		}
		if report.Matched {
			logg.Info("Run history schema matches.", zap.String("driver", report.Driver))
		} else {
			printJSON(report)
		}
	}

	if runAll || onlyNotion {
		logg.Info("Checking listing database properties...")
		report, err := svc.CheckNotion(ctx)
		if err != nil {
			logg.Fatal("Notion check failed", zap.Error(err))
		}
		if report.Matched {
			logg.Info("Listing database properties match.", zap.String("database_id", report.DatabaseID))
		} else {
			logg.Warn("Listing database properties differ",
				zap.Strings("missing", report.Missing),
				zap.Strings("type_mismatches", report.TypeMismatches),
			)
		}
	}
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to marshal report: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
