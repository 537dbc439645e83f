// ledger-reconcile compares stored ledger balances with the sum of their
// ledger entries and, with --rebuild, resets the stored side.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... REDIS_ADDRESS=... \
//	  go run ./cmd/ledger-reconcile --business-id=<id> [--rebuild]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/workflow"
)

func main() {
	businessID := flag.String("business-id", "", "Optional: business id; all businesses when empty")
	rebuild := flag.Bool("rebuild", false, "Reset mismatching stored balances to their entry sums")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}
	config.ConnectRedisWithRetry()

	ctx := context.Background()
	reconciler := workflow.NewReconciler(config.GetLogger(), *rebuild)

	results := make(map[string][]models.LedgerMismatch)
	if id := strings.TrimSpace(*businessID); id != "" {
		mismatches, err := reconciler.ReconcileBusiness(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "reconcile failed: %v\n", err)
			os.Exit(1)
		}
		if len(mismatches) > 0 {
			results[id] = mismatches
		}
	} else {
		results = reconciler.ReconcileAll(ctx)
	}

	if len(results) == 0 {
		fmt.Println("all ledgers reconcile")
		return
	}
	for businessId, mismatches := range results {
		for _, m := range mismatches {
			fmt.Printf("business=%s ledger=%s stored=%s entries=%s diff=%s\n",
				businessId, m.Ledger.String(), m.Stored.String(), m.EntrySum.String(), m.Difference().String())
		}
	}
	if *rebuild {
		fmt.Println("stored balances rebuilt from ledger entries")
		return
	}
	os.Exit(2)
}
