package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/ardnew/pl2/ext"
	"github.com/ardnew/pl2/pkg"
)

// Version prints version information.
type Version struct {
	out io.Writer

	Modules bool `help:"Also list statically registered modules." short:"M"`
}

// Run executes the version command.
func (v *Version) Run(context.Context) error {
	w := stdout(v.out)

	_, err := fmt.Fprintf(w, "%s (%s) %s\n", pkg.Name, pkg.Edition, pkg.Version())
	if err != nil || !v.Modules {
		return err
	}

	for _, id := range ext.DefaultRegistry().IDs() {
		if _, err := fmt.Fprintf(w, "  %s\n", id); err != nil {
			return err
		}
	}

	return nil
}
