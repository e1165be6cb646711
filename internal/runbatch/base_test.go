// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseCommandGetLabel(t *testing.T) {
	c := NewBaseCommand("", "", RunOnSuccess, nil)
	assert.Equal(t, "Command", c.GetLabel())

	c.Label = "my label"
	assert.Equal(t, "my label", c.GetLabel())
}

func TestBaseCommandSetCwd(t *testing.T) {
	testCases := []struct {
		name      string
		initial   string
		cwd       string
		overwrite bool
		want      string
	}{
		{name: "empty cwd is a no-op", initial: "/a", cwd: "", overwrite: true, want: "/a"},
		{name: "overwrite replaces", initial: "/a", cwd: "/b", overwrite: true, want: "/b"},
		{name: "unset is set", initial: "", cwd: "/b", overwrite: false, want: "/b"},
		{name: "absolute preserved", initial: "/a", cwd: "/b", overwrite: false, want: "/a"},
		{name: "relative resolved", initial: "sub", cwd: "/b", overwrite: false, want: "/b/sub"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewBaseCommand("t", tc.initial, RunOnSuccess, nil)
			c.SetCwd(tc.cwd, tc.overwrite)
			assert.Equal(t, tc.want, c.Cwd)
		})
	}
}

func TestBaseCommandInheritEnv(t *testing.T) {
	c := NewBaseCommand("t", "", RunOnSuccess, map[string]string{"A": "1"})
	c.InheritEnv(map[string]string{"A": "override", "B": "2"})

	assert.Equal(t, "1", c.Env["A"], "existing values must not be overwritten")
	assert.Equal(t, "2", c.Env["B"])
}

func TestBaseCommandShouldRun(t *testing.T) {
	success := PreviousCommandStatus{State: ResultStatusSuccess}
	failure := PreviousCommandStatus{State: ResultStatusError, ExitCode: 1}

	always := NewBaseCommand("t", "", RunOnAlways, nil)
	assert.Equal(t, ShouldRunActionRun, always.ShouldRun(success))
	assert.Equal(t, ShouldRunActionRun, always.ShouldRun(failure))

	onSuccess := NewBaseCommand("t", "", RunOnSuccess, nil)
	assert.Equal(t, ShouldRunActionRun, onSuccess.ShouldRun(success))
	assert.Equal(t, ShouldRunActionError, onSuccess.ShouldRun(failure))

	onError := NewBaseCommand("t", "", RunOnError, nil)
	assert.Equal(t, ShouldRunActionSkip, onError.ShouldRun(success))
	assert.Equal(t, ShouldRunActionRun, onError.ShouldRun(failure))
}

func TestRunConditionRoundTrip(t *testing.T) {
	for _, c := range []RunCondition{RunOnSuccess, RunOnError, RunOnAlways} {
		got, err := NewRunCondition(c.String())
		assert.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := NewRunCondition("nope")
	assert.ErrorIs(t, err, ErrRunConditionUnknown)
}
