package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/mmdatafocus/erp_backend/config"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

// CountryCode is the default region for phone numbers without a + prefix.
var CountryCode = countryCodeFromEnv()

func countryCodeFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("DEFAULT_COUNTRY_CODE")); v != "" {
		return strings.ToUpper(v)
	}
	return "MM"
}

// NormalizePhoneNumber validates and formats a number as E.164.
func NormalizePhoneNumber(phoneNumber string) (string, error) {
	p, err := libphonenumber.Parse(phoneNumber, CountryCode)
	if err != nil {
		return "", NewValidationError("invalid phone number %q", phoneNumber)
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", NewValidationError("invalid phone number %q", phoneNumber)
	}
	return libphonenumber.Format(p, libphonenumber.E164), nil
}

func UniqueSlice[T comparable](slice []T) []T {
	seen := make(map[T]struct{}, len(slice))
	result := make([]T, 0, len(slice))
	for _, v := range slice {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// ParseDecimal converts a string to a decimal.Decimal value.
func ParseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, errors.New("empty decimal string")
	}
	return decimal.NewFromString(value)
}

// MonthStart truncates t to the first instant of its month, in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DateOnly drops the clock part of t, in UTC.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WithBusinessLock runs fn while holding a redis lock keyed by lockType and
// businessId. The lock is refreshed until fn returns.
func WithBusinessLock(ctx context.Context, businessId string, lockType string, moduleName string, functionName string, fn func(context.Context) error) error {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		config.LogError(logger, moduleName, functionName, "Redis lock not initialized", businessId, errors.New("redis lock is nil"))
		return errors.New("service not ready (redis lock not initialized)")
	}
	ttl := 30 * time.Second
	lockKey := fmt.Sprintf("%s:%s", lockType, businessId)
	lock, err := locker.Obtain(ctx, lockKey, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		config.LogError(logger, moduleName, functionName, "Could not obtain lock for businessID", businessId, err)
		return ErrLockNotObtained
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining lock for businessID", businessId, err)
		return err
	}
	defer func() {
		_ = lock.Release(context.Background())
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		ticker := time.NewTicker(ttl / 3)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				if err := lock.Refresh(runCtx, ttl, nil); err != nil {
					config.LogError(logger, moduleName, functionName, "Error refreshing lock", businessId, err)
					cancel()
					return
				}
			}
		}
	}()

	return fn(runCtx)
}
