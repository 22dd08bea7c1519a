// Package defaulttalents provides embedded copies of the shipped talent
// files for use by the init subcommand. The files live here because
// go:embed only reaches files in or below the embedding package.
//
// The runtime talent loader lives in internal/talents.
package defaulttalents

import "embed"

// FS contains the shipped talent markdown files.
//
//go:embed *.md
var FS embed.FS
