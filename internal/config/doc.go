// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config defines the YAML batch definition file and assembles it
// into a runnable command tree. Every field has a default matching the
// original workflow, so a definition file is optional: the zero
// configuration runs dftb+ in every directory matching *_displaced/*.
package config
