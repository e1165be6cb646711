// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-based structured logger built on slog.
// The logger travels in the context so that deeply nested batch code can
// log without threading a logger through every call.
//
// The log level is read from an environment variable derived from the
// executable name, e.g. DFTBATCH_LOG_LEVEL for an executable named
// "dftbatch". Accepted values are DEBUG, INFO, WARN and ERROR; anything
// else defaults to WARN.
package ctxlog
