package runbatch

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

type fakeCmd struct {
	*BaseCommand
	exitCode int
	err      error
	ran      *[]string
}

func newFakeCmd(label string, runsOn RunCondition, exitCode int, err error, ran *[]string) *fakeCmd {
	return &fakeCmd{
		BaseCommand: NewBaseCommand(label, "", runsOn, nil),
		exitCode:    exitCode,
		err:         err,
		ran:         ran,
	}
}

func (f *fakeCmd) Run(_ context.Context) Results {
	if f.ran != nil {
		*f.ran = append(*f.ran, f.Label)
	}

	status := ResultStatusSuccess
	if f.exitCode != 0 || f.err != nil {
		status = ResultStatusError
	}

	return Results{&Result{
		Label:    f.Label,
		ExitCode: f.exitCode,
		Error:    f.err,
		Status:   status,
	}}
}

func TestSerialBatchRun_AllSuccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	batch := &SerialBatch{
		BaseCommand: NewBaseCommand("batch1", "", RunOnAlways, nil),
		Commands: []Runnable{
			newFakeCmd("cmd1", RunOnSuccess, 0, nil, nil),
			newFakeCmd("cmd2", RunOnSuccess, 0, nil, nil),
		},
	}
	results := batch.Run(context.Background())
	assert.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, 0, res.ExitCode)
	assert.NoError(t, res.Error)
	assert.Len(t, res.Children, 2)
}

func TestSerialBatchRun_OneFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	batch := &SerialBatch{
		BaseCommand: NewBaseCommand("batch2", "", RunOnAlways, nil),
		Commands: []Runnable{
			newFakeCmd("cmd1", RunOnSuccess, 0, nil, nil),
			newFakeCmd("cmd2", RunOnSuccess, 1, os.ErrPermission, nil),
		},
	}
	results := batch.Run(context.Background())
	assert.Len(t, results, 1)
	res := results[0]
	assert.NotEqual(t, 0, res.ExitCode)
	assert.ErrorIs(t, res.Error, ErrResultChildrenHasError)
	assert.Len(t, res.Children, 2)
}

func TestSerialBatchRun_KeepsGoingOnAlways(t *testing.T) {
	defer goleak.VerifyNone(t)

	var ran []string

	batch := &SerialBatch{
		BaseCommand: NewBaseCommand("keep going", "", RunOnAlways, nil),
		Commands: []Runnable{
			newFakeCmd("a", RunOnAlways, 0, nil, &ran),
			newFakeCmd("b", RunOnAlways, 2, nil, &ran),
			newFakeCmd("c", RunOnAlways, 0, nil, &ran),
		},
	}
	results := batch.Run(context.Background())
	assert.Len(t, results, 1)

	// b failing must not prevent c from running, and order must be preserved.
	assert.Equal(t, []string{"a", "b", "c"}, ran)

	tally := results.Tally()
	assert.Equal(t, 2, tally.Succeeded)
	assert.Equal(t, 1, tally.Failed)
}

func TestSerialBatchRun_SkipsAfterFailureOnSuccessCondition(t *testing.T) {
	defer goleak.VerifyNone(t)

	var ran []string

	batch := &SerialBatch{
		BaseCommand: NewBaseCommand("strict", "", RunOnAlways, nil),
		Commands: []Runnable{
			newFakeCmd("a", RunOnSuccess, 1, nil, &ran),
			newFakeCmd("b", RunOnSuccess, 0, nil, &ran),
		},
	}
	results := batch.Run(context.Background())
	assert.Equal(t, []string{"a"}, ran, "b should not run after a failed")
	assert.Len(t, results[0].Children, 2)
	assert.Equal(t, ResultStatusSkipped, results[0].Children[1].Status)
	assert.ErrorIs(t, results[0].Children[1].Error, ErrSkipOnError)
}

func TestSerialBatchRun_NestedBatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	childBatch := &SerialBatch{
		BaseCommand: NewBaseCommand("child", "", RunOnAlways, nil),
		Commands: []Runnable{
			newFakeCmd("cmdA", RunOnAlways, 0, nil, nil),
			newFakeCmd("cmdB", RunOnAlways, 1, os.ErrNotExist, nil),
		},
	}
	batch := &SerialBatch{
		BaseCommand: NewBaseCommand("parent", "", RunOnAlways, nil),
		Commands: []Runnable{
			childBatch,
			newFakeCmd("cmdC", RunOnAlways, 0, nil, nil),
		},
	}
	results := batch.Run(context.Background())
	assert.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, -1, res.ExitCode)
	assert.ErrorIs(t, res.Error, ErrResultChildrenHasError)
}
