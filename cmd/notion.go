package cmd

import (
	"context"
	"fmt"

	"listing-sync/feature/notion"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var notionCmd = &cobra.Command{
	Use:   "notion",
	Short: "Manage the listing database",
}

// notionInitCmd creates a listing database with the expected properties.
var notionInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the listing database under the configured parent page",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, l, err := loadConfig()
		if err != nil {
			return err
		}
		defer l.Sync()

		if cfg.Notion.ParentPageID == "" {
			return fmt.Errorf("notion.parent_page_id is not configured")
		}

		client := notion.NewClient(cfg.Notion, l)
		id, err := client.CreateDatabase(ctx, cfg.Notion.ParentPageID, cfg.Notion.DatabaseTitle)
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}

		l.Info("Listing database created", zap.String("database_id", id), zap.String("title", cfg.Notion.DatabaseTitle))
		fmt.Printf("Set NOTION_DATABASE_ID=%s\n", id)
		return nil
	},
}

func init() {
	notionCmd.AddCommand(notionInitCmd)
	RootCmd.AddCommand(notionCmd)
}
