package config

import (
	"os"
	"strings"
)

// CustomerPaymentReducesBalance flips the customer-side direction of a
// customer payment. By default a payment increases the customer's
// ledger (matching existing books); set this when the ledger should
// track outstanding receivables instead.
//
// Set via env:
// - CUSTOMER_PAYMENT_REDUCES_BALANCE=true
func CustomerPaymentReducesBalance() bool {
	return boolFromEnv("CUSTOMER_PAYMENT_REDUCES_BALANCE", false)
}

// RestoreReappliesBalance controls whether restoring a soft-deleted
// document re-applies its balance effect. Purchase returns always do.
//
// Set via env:
// - RESTORE_REAPPLIES_BALANCE=false
func RestoreReappliesBalance() bool {
	return boolFromEnv("RESTORE_REAPPLIES_BALANCE", true)
}

// OutboxDispatcherEnabled turns the background Pub/Sub publisher on.
func OutboxDispatcherEnabled() bool {
	return boolFromEnv("OUTBOX_DISPATCHER_ENABLED", false)
}

func SkipMigrations() bool {
	return boolFromEnv("SKIP_MIGRATIONS", false)
}

func boolFromEnv(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "":
		return def
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}
