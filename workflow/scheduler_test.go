package workflow_test

import (
	"testing"

	"github.com/mmdatafocus/erp_backend/workflow"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler_ReadsCronFromEnv(t *testing.T) {
	logger, _ := test.NewNullLogger()
	reconciler := &workflow.Reconciler{Logger: logger, Lock: passthroughLock}

	t.Setenv("RECONCILE_CRON", "")
	s, err := workflow.NewScheduler(reconciler, logger)
	require.NoError(t, err)
	s.Start()
	s.Stop()

	t.Setenv("RECONCILE_CRON", "*/15 * * * * *")
	_, err = workflow.NewScheduler(reconciler, logger)
	require.NoError(t, err)

	t.Setenv("RECONCILE_CRON", "every day")
	_, err = workflow.NewScheduler(reconciler, logger)
	assert.Error(t, err)
}
