// Package ui holds the color themes shared by the CLI output and the TUI
// dashboard. It honours --no-color and the NO_COLOR environment variable.
package ui
