package models_test

import (
	"sort"
	"sync"
	"testing"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/testutil"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveNextCode_StartsAtDefault(t *testing.T) {
	ctx, _ := testutil.SetupDB(t)

	first, err := models.ReserveNextCode(ctx, nil, "invoice", "2024", 1000)
	require.NoError(t, err)
	second, err := models.ReserveNextCode(ctx, nil, "invoice", "2024", 1000)
	require.NoError(t, err)
	other, err := models.ReserveNextCode(ctx, nil, "invoice", "2025", 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), first)
	assert.Equal(t, int64(1001), second)
	assert.Equal(t, int64(1), other)
}

func TestReserveNextCode_ConcurrentReservationsAreDistinct(t *testing.T) {
	ctx, _ := testutil.SetupDB(t)

	const workers = 20
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		values []int64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := models.ReserveNextCode(ctx, nil, "receipt", "main", 1)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			values = append(values, v)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, values, workers)
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	for i, v := range values {
		assert.Equal(t, int64(i+1), v)
	}
}

func TestReserveNextCode_IsolatedPerBusiness(t *testing.T) {
	ctx, _ := testutil.SetupDB(t)
	otherCtx := testutil.NewBusinessContext()

	_, err := models.ReserveNextCode(ctx, nil, "g", "k", 1)
	require.NoError(t, err)
	v, err := models.ReserveNextCode(otherCtx, nil, "g", "k", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestReserveNextCode_RequiresKey(t *testing.T) {
	ctx, _ := testutil.SetupDB(t)

	_, err := models.ReserveNextCode(ctx, nil, "", "k", 1)
	require.True(t, utils.IsValidationError(err))
}
