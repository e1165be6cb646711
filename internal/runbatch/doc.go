// Package runbatch provides a way to run an external program across a batch
// of working directories, serially or in parallel. Every spawned process is
// given an explicit working directory; the host process never changes its
// own. Failures never stop the batch: each item produces a Result and the
// caller decides what to do with the aggregate.
package runbatch
