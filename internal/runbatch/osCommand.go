// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/matt-FFFFFF/dftbatch/internal/ctxlog"
	"github.com/matt-FFFFFF/dftbatch/internal/signalbroker"
)

const (
	maxBufferSize  = 8 * 1024 * 1024  // 8MB
	tickerInterval = 10 * time.Second // Interval for the process watchdog ticker
	outputFileMode = 0o644
)

var _ Runnable = (*OSCommand)(nil)

var (
	// ErrBufferOverflow is returned when the output exceeds the max size.
	ErrBufferOverflow = fmt.Errorf("output exceeds max size of %d bytes", maxBufferSize)
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToReadBuffer is returned when the buffer from the operating system pipe could not be read.
	ErrFailedToReadBuffer = errors.New("failed to read buffer")
	// ErrTimeoutExceeded is returned when the command exceeds the context deadline.
	ErrTimeoutExceeded = errors.New("timeout exceeded")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrFailedToCreateOutputFile is returned when the per-directory output file could not be created.
	ErrFailedToCreateOutputFile = errors.New("failed to create output file")
	// ErrSignalReceived is returned when an operating system signal is received by the child process.
	ErrSignalReceived = errors.New("signal received")
	// ErrDuplicateSignalReceived is returned when a duplicate signal is received, forcing process termination.
	ErrDuplicateSignalReceived = errors.New("duplicate signal received, process forcefully terminated")
)

// OSCommand represents a single external process to be run in the batch.
//
// The process is always launched with an explicit working directory
// (ProcAttr.Dir); the host process never changes its own. When OutputFile is
// set, standard output is streamed directly to that file inside the working
// directory, truncating any previous content. Standard error is always
// captured into the Result so that failures are observable in the summary.
type OSCommand struct {
	*BaseCommand
	Path             string         // The command to run (e.g. executable full path).
	Args             []string       // Arguments to the command, do not include the executable name itself.
	OutputFile       string         // File name for standard output, relative to the working directory. Empty captures to the Result.
	SuccessExitCodes []int          // Exit codes that indicate success, defaults to 0.
	sigCh            chan os.Signal // Channel to receive signals, allows mocking in test.
}

// Run implements the Runnable interface for OSCommand.
func (c *OSCommand) Run(ctx context.Context) Results {
	logger := ctxlog.Logger(ctx).
		With("runnableType", "OSCommand").
		With("label", c.Label)

	logger.Debug("command info", "path", c.Path, "cwd", c.Cwd, "args", c.Args)

	if c.SuccessExitCodes == nil {
		c.SuccessExitCodes = []int{0} // Default to success on exit code 0
	}

	if c.sigCh == nil {
		c.sigCh = signalbroker.New(ctx)
	}

	res := &Result{
		Label:    c.Label,
		ExitCode: 0,
	}

	env := os.Environ()

	for k, v := range c.Env {
		logger.Debug("adding environment variable", "key", k, "value", v)
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	var (
		wOut *os.File
		rOut *os.File
		err  error
	)

	if c.OutputFile != "" {
		outPath := c.OutputFile
		if !filepath.IsAbs(outPath) {
			outPath = filepath.Join(c.Cwd, outPath)
		}

		// O_TRUNC so that a rerun replaces, never appends to, a previous run's output.
		wOut, err = os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFileMode)
		if err != nil {
			res.Error = errors.Join(ErrFailedToCreateOutputFile, err)
			res.ExitCode = -1
			res.Status = ResultStatusError

			return Results{res}
		}

		res.OutputFile = outPath
	} else {
		rOut, wOut, err = os.Pipe()
		if err != nil {
			res.Error = errors.Join(ErrFailedToCreatePipe, err)
			res.ExitCode = -1
			res.Status = ResultStatusError

			return Results{res}
		}
	}

	rErr, wErr, err := os.Pipe()
	if err != nil {
		_ = wOut.Close()
		res.Error = errors.Join(ErrFailedToCreatePipe, err)
		res.ExitCode = -1
		res.Status = ResultStatusError

		return Results{res}
	}

	execName := filepath.Base(c.Path)
	args := slices.Concat([]string{execName}, c.Args)

	logger.Debug("starting process")

	ps, err := os.StartProcess(c.Path, args, &os.ProcAttr{
		Dir:   c.Cwd,
		Env:   env,
		Files: []*os.File{os.Stdin, wOut, wErr},
	})
	startTime := time.Now()

	fullLabel := FullLabel(c)
	fmt.Fprintf(os.Stderr, "Starting %s: at %s\n", fullLabel, startTime.Format(ctxlog.TimeFormat))

	if err != nil {
		_ = wOut.Close()
		_ = wErr.Close()
		res.Error = errors.Join(ErrCouldNotStartProcess, err)
		res.ExitCode = -1
		res.Status = ResultStatusError

		return Results{res}
	}

	logger.Debug("process started", "pid", ps.Pid)

	// This is the process watchdog that will kill the process on context
	// cancellation and pass on any received signals.
	done := make(chan struct{})
	// This allows us to track why the process was killed.
	wasKilled := make(chan error)

	go func() {
		signalCount := make(map[os.Signal]struct{})

		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				diff := time.Since(startTime).Round(time.Second)
				fmt.Fprintf(os.Stderr, "Running %s: [%s]...\n", fullLabel, diff)

			case s := <-c.sigCh:
				// is this the second signal received of this type?
				if _, ok := signalCount[s]; ok {
					logger.Info("received duplicate signal, killing process", "signal", s.String())
					killPs(ctx, ps)

					select {
					case wasKilled <- ErrDuplicateSignalReceived:
					case <-done:
						// Channel was closed, process already finished
					}

					return
				}

				signalCount[s] = struct{}{}

				logger.Info("received signal", "signal", s.String())

				if err := ps.Signal(s); err != nil {
					logger.Info("failed to send signal", "signal", s.String(), "error", err)
				}

				select {
				case wasKilled <- ErrSignalReceived:
				case <-done:
					// Channel was closed, process already finished
				}

			case <-ctx.Done():
				logger.Info("context done, killing process")
				killPs(ctx, ps)

				select {
				case wasKilled <- ErrTimeoutExceeded:
				case <-done:
					// Channel was closed, process already finished
				}

				return

			case <-done:
				return
			}
		}
	}()

	logger.Debug("waiting for process to finish")

	state, psErr := ps.Wait()

	fmt.Fprintf(os.Stderr, "Finished %s: at %s\n", fullLabel, time.Now().Format(ctxlog.TimeFormat))

	_ = wOut.Close()
	_ = wErr.Close()
	res.ExitCode = state.ExitCode()
	res.Error = psErr
	res.Status = ResultStatusUnknown

	logger.Debug("process finished", "exitCode", res.ExitCode)

	// Check if the process was killed due to timeout or signal
	select {
	case e := <-wasKilled:
		res.Error = errors.Join(res.Error, e)
		res.ExitCode = -1
		res.Status = ResultStatusError
	default:
		// No error from watchdog, process completed normally
	}

	close(done)

	// Close wasKilled channel after signaling done to prevent race condition
	select {
	case <-wasKilled:
		// Already received an error from watchdog
	default:
		close(wasKilled)
	}

	switch {
	case slices.Contains(c.SuccessExitCodes, res.ExitCode) && res.Error == nil:
		logger.Debug("process exit code indicates success", "exitCode", res.ExitCode)
		res.Status = ResultStatusSuccess
	case res.Error != nil || !slices.Contains(c.SuccessExitCodes, res.ExitCode):
		// A non-zero exit code does not generate a process error, so this needs to be an OR.
		logger.Debug("process error", "error", res.Error, "exitCode", res.ExitCode)

		if res.ExitCode == 0 {
			res.ExitCode = -1 // If exit code is 0 but there is an error, set exit code to -1
		}

		res.Status = ResultStatusError
	}

	if rOut != nil {
		logger.Debug("read stdout")

		stdout, err := readAllUpToMax(ctx, rOut, maxBufferSize)
		logger.Debug("stdout length", "bytes", len(stdout), "maxBytes", maxBufferSize)

		res.StdOut = stdout
		if err != nil {
			res.Error = errors.Join(res.Error, err)
			res.ExitCode = -1
			res.Status = ResultStatusError
		}
	}

	logger.Debug("read stderr")

	stderr, err := readAllUpToMax(ctx, rErr, maxBufferSize)
	logger.Debug("stderr length", "bytes", len(stderr), "maxBytes", maxBufferSize)

	res.StdErr = stderr
	if err != nil {
		res.ExitCode = -1
		res.Error = errors.Join(res.Error, err)
		res.Status = ResultStatusError
	}

	return Results{res}
}

func readAllUpToMax(ctx context.Context, r io.Reader, maxBufferSize int64) ([]byte, error) {
	var buf bytes.Buffer

	n, err := io.CopyN(&buf, r, maxBufferSize+1)
	if err != nil && err != io.EOF {
		return nil, errors.Join(ErrFailedToReadBuffer, err)
	}

	if n > maxBufferSize {
		ctxlog.Logger(ctx).Debug(
			"buffer overflow in readAllUpToMax",
			"bytesRead", n,
			"maxBytes", maxBufferSize,
		)

		return buf.Bytes()[:maxBufferSize], ErrBufferOverflow
	}

	return buf.Bytes(), nil
}

// killPs kills the process, tolerating a process that has already exited.
func killPs(ctx context.Context, ps *os.Process) {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Logger(ctx).Debug("process already done", "pid", ps.Pid)
			return
		}

		ctxlog.Logger(ctx).Error("process kill error", "pid", ps.Pid, "error", err)
	}

	ctxlog.Logger(ctx).Info("process killed", "pid", ps.Pid)
}
