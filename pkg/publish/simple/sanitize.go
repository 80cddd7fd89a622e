// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package simple generates the static pages of the PyPI "Simple API".
package simple

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile("[^A-Za-z0-9]+")

// Sanitize returns the canonical, URL-safe form of a project name.
//
// The PyPISimple reference doc describes canonical names as "all lowercase,
// with dashes replaced by underscores", but that is not what PyPI/Warehouse
// actually serve: they strip all non-alphanumeric characters, including
// underscores, and replace each run of them with a single hyphen. Since the
// Warehouse-style URLs are what pip resolves against, that is the rule used
// here.
func Sanitize(name string) string {
	return strings.ToLower(nonAlphanumeric.ReplaceAllString(name, "-"))
}
