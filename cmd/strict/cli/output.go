package cli

import (
	"github.com/fatih/color"
)

var (
	boldStyle    = color.New(color.Bold)
	successStyle = color.New(color.FgGreen)
	errorStyle   = color.New(color.FgRed)
	mutedStyle   = color.New(color.FgHiBlack)
	addedStyle   = color.New(color.FgGreen)
	removedStyle = color.New(color.FgRed)
	hunkStyle    = color.New(color.FgCyan)
)

const (
	checkmark = "✓"
	xmark     = "✗"
)
