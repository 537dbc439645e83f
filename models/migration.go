package models

import (
	"github.com/mmdatafocus/erp_backend/config"
)

func MigrateTable() error {
	db := config.GetDB()

	return db.AutoMigrate(
		&Account{}, &AccountTransfer{},
		&Counter{}, &CreditDebitNote{}, &CurrencyExchange{},
		&Customer{}, &CustomerMonthlyBalance{}, &CustomerPayment{},
		&DocumentItem{},
		&Item{}, &ItemPriceHistory{},
		&LedgerEntry{},
		&OutboxRecord{},
		&Purchase{}, &PurchaseReturn{},
		&Sale{}, &StockBalance{}, &Supplier{}, &SupplierPayment{},
	)
}
