package cron

import (
	"Booklet/internal/job"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterJobs(t *testing.T) {
	j := job.NewViewTotalsJob(nil)

	mgr := NewCronManager(j, "")
	require.NoError(t, mgr.RegisterJobs())
	assert.Empty(t, mgr.engine.Entries())

	mgr = NewCronManager(j, "0 */30 * * * *")
	require.NoError(t, mgr.RegisterJobs())
	assert.Len(t, mgr.engine.Entries(), 1)

	mgr = NewCronManager(j, "every half hour")
	assert.Error(t, mgr.RegisterJobs())
}

func TestInitCronWithoutJobs(t *testing.T) {
	mgr := NewCronManager(nil, "0 */30 * * * *")
	require.NoError(t, InitCron(mgr))
	mgr.Stop()
}
