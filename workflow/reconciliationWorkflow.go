package workflow

import (
	"context"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/sirupsen/logrus"
)

const reconcileLockType = "LedgerReconcile"

// LockFunc serializes work per business.
type LockFunc func(ctx context.Context, businessId string, lockType string, moduleName string, funcName string, fn func(context.Context) error) error

type Reconciler struct {
	Logger *logrus.Logger
	Lock   LockFunc
	// Rebuild resets mismatching stored balances to their entry sums.
	Rebuild bool
}

func NewReconciler(logger *logrus.Logger, rebuild bool) *Reconciler {
	return &Reconciler{Logger: logger, Lock: utils.WithBusinessLock, Rebuild: rebuild}
}

// ReconcileBusiness checks one business under its lock and returns the
// mismatches found before any rebuild.
func (r *Reconciler) ReconcileBusiness(ctx context.Context, businessId string) ([]models.LedgerMismatch, error) {
	var mismatches []models.LedgerMismatch
	err := r.Lock(ctx, businessId, reconcileLockType, "Reconciler", "ReconcileBusiness", func(ctx context.Context) error {
		// ledgers of every tenant are read with explicit business_id filters
		ctx = utils.SetSkipTenantScopeInContext(ctx, true)
		found, err := models.ReconcileLedgers(ctx, businessId)
		if err != nil {
			return err
		}
		mismatches = found
		for _, m := range found {
			r.Logger.WithFields(logrus.Fields{
				"field":       "Reconciler",
				"business_id": businessId,
				"ledger":      m.Ledger.String(),
				"stored":      m.Stored.String(),
				"entry_sum":   m.EntrySum.String(),
			}).Warn("ledger balance does not match its entries")
		}
		if r.Rebuild && len(found) > 0 {
			return models.RebuildStoredBalances(ctx, businessId, found)
		}
		return nil
	})
	if err != nil {
		config.LogError(r.Logger, "Reconciler", "ReconcileBusiness", "reconciling ledgers", businessId, err)
		return nil, err
	}
	return mismatches, nil
}

// ReconcileAll runs ReconcileBusiness for every business. A failing
// business is logged and skipped.
func (r *Reconciler) ReconcileAll(ctx context.Context) map[string][]models.LedgerMismatch {
	result := make(map[string][]models.LedgerMismatch)
	businessIds, err := models.ListBusinessIds(utils.SetSkipTenantScopeInContext(ctx, true))
	if err != nil {
		config.LogError(r.Logger, "Reconciler", "ReconcileAll", "listing businesses", nil, err)
		return result
	}
	for _, businessId := range businessIds {
		mismatches, err := r.ReconcileBusiness(ctx, businessId)
		if err != nil {
			continue
		}
		if len(mismatches) > 0 {
			result[businessId] = mismatches
		}
	}
	return result
}
