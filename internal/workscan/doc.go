// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workscan provides item providers that enumerate work directories
// for the batch engine. Providers are built on afero so that they can be
// exercised against an in-memory filesystem in tests.
package workscan
