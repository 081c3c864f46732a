//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of the pl2 module embedded at build time.
// It is printed by the CLI when users invoke the version subcommand.
//
//go:embed VERSION
var version string

// Version returns the embedded version string without surrounding space.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command and module identifier used across the
	// project. For example, it appears in help text and default config paths.
	Name = "pl2"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Extensible command-script engine"
	// Edition names the script dialect accepted by the parser.
	Edition = "pl2w"
	// PathEnv is the environment variable holding extra extension module
	// directories, separated by the OS path list separator.
	PathEnv = "PL2_PATH"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
