// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// facilities for the salon and identity binaries.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// Fields left empty by every source take their value from [Defaults].
// The main entry points are [GetAppConfig] for the salon backend and
// [GetIdentityConfig] for the identity provider.
package config
