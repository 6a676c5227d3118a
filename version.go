package stm

import _ "embed"

// Version is the release version of the stm module.
//
//go:embed VERSION
var Version string
