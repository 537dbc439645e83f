// seed-ledgers creates a small set of accounts, customers, suppliers and
// items for a business so documents can be posted against them.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	  go run ./cmd/seed-ledgers --business-id=<id>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
)

func main() {
	businessID := flag.String("business-id", "", "Required: business id")
	migrate := flag.Bool("migrate", false, "Run AutoMigrate before seeding")
	flag.Parse()

	if strings.TrimSpace(*businessID) == "" {
		fmt.Fprintln(os.Stderr, "--business-id is required")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	if *migrate {
		if err := models.MigrateTable(); err != nil {
			fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
			os.Exit(1)
		}
	}

	ctx := utils.SetBusinessIdInContext(context.Background(), strings.TrimSpace(*businessID))
	ctx = utils.SetUserNameInContext(ctx, "Seed")

	accounts := []models.NewAccount{
		{Name: "Cash", Code: "1000"},
		{Name: "Bank", Code: "1010"},
	}
	for i := range accounts {
		a, err := models.CreateAccount(ctx, &accounts[i])
		exitOnError("account "+accounts[i].Name, err)
		fmt.Printf("account id=%d name=%s\n", a.ID, a.Name)
	}

	customer, err := models.CreateCustomer(ctx, &models.NewCustomer{Name: "Walk-in Customer"})
	exitOnError("customer", err)
	fmt.Printf("customer id=%d name=%s\n", customer.ID, customer.Name)

	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{Name: "Default Supplier"})
	exitOnError("supplier", err)
	fmt.Printf("supplier id=%d name=%s\n", supplier.ID, supplier.Name)

	item, err := models.CreateItem(ctx, &models.NewItem{Name: "Sample Item", Sku: "SAMPLE-1"})
	exitOnError("item", err)
	fmt.Printf("item id=%d name=%s\n", item.ID, item.Name)
}

func exitOnError(what string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "seeding %s failed: %v\n", what, err)
	os.Exit(1)
}
