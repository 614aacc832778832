// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// suggested fixes. The issue catalog holds longer Markdown guidance, rendered
// with glamour, for each class of problem depcheck reports.
package issue
