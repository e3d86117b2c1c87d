package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "sweep-overdue", "close-period", "create-user"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestMigrateRejectsUnknownDirection(t *testing.T) {
	err := migrateCmd.RunE(migrateCmd, []string{"sideways"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}

func TestClosePeriodArgs(t *testing.T) {
	assert.Error(t, closePeriodCmd.Args(closePeriodCmd, nil))
	assert.NoError(t, closePeriodCmd.Args(closePeriodCmd, []string{"period-1"}))
	assert.Error(t, createUserCmd.Args(createUserCmd, []string{"only-username"}))
}

func TestClosePeriodRejectsBadDateBeforeLoadingConfig(t *testing.T) {
	require.NoError(t, closePeriodCmd.Flags().Set("end-date", "31/03/2026"))
	t.Cleanup(func() { _ = closePeriodCmd.Flags().Set("end-date", "") })

	err := runClosePeriod(closePeriodCmd, []string{"period-1"})
	assert.Error(t, err)
}
