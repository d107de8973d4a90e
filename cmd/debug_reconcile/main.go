package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"listing-sync/core/config"
	"listing-sync/core/logger"
	"listing-sync/core/reconcile"
	"listing-sync/feature/encar"
	"listing-sync/feature/insurance"
	"listing-sync/feature/notion"
)

// Prints both sides of the configured target and the plan built from them.
// Optional first argument: a car id to inspect in detail.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatal(err)
	}

	conditions, err := reconcile.ParseConditions(cfg.Sync.Conditions)
	if err != nil {
		log.Fatal(err)
	}

	client := encar.NewClient(cfg.Encar, l)
	ins, err := insurance.NewService(client, conditions, cfg.Encar.Concurrency, l)
	if err != nil {
		log.Fatal(err)
	}
	store := notion.NewStore(notion.NewClient(cfg.Notion, l), cfg.Notion.DatabaseID, cfg.Notion.Concurrency, l)

	spec := &reconcile.Spec{
		Target: cfg.Sync.Target(),
		Live:   encar.NewSource(client, ins, l),
		Store:  store,
	}
	ctx := context.Background()

	fmt.Println("=== TEST 1: Snapshot Loading ===")
	start := time.Now()
	snap, err := reconcile.LoadSnapshot(ctx, spec)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Target: %s\n", spec.Target.Key())
	fmt.Printf("Live listings: %d, stored records: %d (%v)\n", len(snap.Live), len(snap.Stored), time.Since(start))

	if len(os.Args) > 1 {
		id := os.Args[1]
		fmt.Printf("\n=== TEST 2: Record %s ===\n", id)
		if live, ok := snap.Live[id]; ok {
			printValue("live", live)
		} else {
			fmt.Println("✗ Not in live feed")
		}
		if stored, ok := snap.Stored[id]; ok {
			printValue("stored", stored)
		} else {
			fmt.Println("✗ Not in listing database")
		}
	}

	fmt.Println("\n=== TEST 3: Plan ===")
	exp := reconcile.NewExpiration(time.Now(), cfg.Sync.ExpirationDays)
	plan, err := reconcile.BuildPlan(*snap, exp, reconcile.ReconcileOptions{DoSync: true, DoPurge: true})
	if err != nil {
		log.Fatal(err)
	}
	printValue("summary", plan.Summary)
	for _, action := range plan.Actions {
		fmt.Printf("  %-16s %-12s %s\n", action.Type, action.Key, action.Reason)
	}
}

func printValue(label string, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Printf("%s: %s\n", label, data)
}
