package ext

import (
	"context"
	"iter"
	"slices"

	"github.com/ardnew/pl2/lang"
)

// SimpleFunc handles a command given only its arguments.
type SimpleFunc func(args []string)

// CallFunc handles a command with full access to the running program and
// the user context returned by the language's [InitFunc].
type CallFunc func(
	ctx context.Context,
	prog *lang.Program,
	userCtx any,
	cmd *lang.Command,
) (Result, error)

// RouterFunc reports whether a call handler accepts a command name.
type RouterFunc func(name string) bool

// InitFunc runs once when a language is loaded and returns the user context.
type InitFunc func() (any, error)

// AtExitFunc runs once when the engine shuts down.
type AtExitFunc func(userCtx any)

// SimpleCmd is an entry of a language's simple-invoke table.
type SimpleCmd struct {
	Func       SimpleFunc
	Name       string
	Deprecated bool
	Removed    bool
}

// IsEmpty reports whether c is the table-ending sentinel.
func (c SimpleCmd) IsEmpty() bool { return c.Name == "" && c.Func == nil }

// CallCmd is an entry of a language's program-call table.
//
// An entry with a Router matches the command names Router accepts; one
// without matches Name exactly. An entry with a nil Func matches and does
// nothing.
type CallCmd struct {
	Router     RouterFunc
	Func       CallFunc
	Name       string
	Deprecated bool
	Removed    bool
}

// IsEmpty reports whether c is the table-ending sentinel.
func (c CallCmd) IsEmpty() bool {
	return c.Name == "" && c.Router == nil && c.Func == nil
}

// Matches reports whether c handles the command name.
func (c CallCmd) Matches(name string) bool {
	if c.Router != nil {
		return c.Router(name)
	}

	return c.Name == name
}

// Language describes the commands an extension provides.
//
// Each table ends at its length or at the first empty entry, whichever
// comes first.
type Language struct {
	Init     InitFunc
	AtExit   AtExitFunc
	Fallback CallFunc
	Name     string
	Info     string
	Simple   []SimpleCmd
	Calls    []CallCmd
}

// SimpleCmds returns an iterator over the live simple-invoke entries.
func (l *Language) SimpleCmds() iter.Seq[*SimpleCmd] {
	return func(yield func(*SimpleCmd) bool) {
		if l == nil {
			return
		}

		for i := range l.Simple {
			if l.Simple[i].IsEmpty() || !yield(&l.Simple[i]) {
				return
			}
		}
	}
}

// CallCmds returns an iterator over the live program-call entries.
func (l *Language) CallCmds() iter.Seq[*CallCmd] {
	return func(yield func(*CallCmd) bool) {
		if l == nil {
			return
		}

		for i := range l.Calls {
			if l.Calls[i].IsEmpty() || !yield(&l.Calls[i]) {
				return
			}
		}
	}
}

// LookupSimple returns the first non-removed simple entry named name.
func (l *Language) LookupSimple(name string) (*SimpleCmd, bool) {
	for c := range l.SimpleCmds() {
		if !c.Removed && c.Name == name {
			return c, true
		}
	}

	return nil, false
}

// LookupCall returns the first non-removed call entry matching name.
func (l *Language) LookupCall(name string) (*CallCmd, bool) {
	for c := range l.CallCmds() {
		if !c.Removed && c.Matches(name) {
			return c, true
		}
	}

	return nil, false
}

// Names returns the sorted names of all non-removed named entries.
func (l *Language) Names() []string {
	var names []string

	for c := range l.SimpleCmds() {
		if !c.Removed {
			names = append(names, c.Name)
		}
	}

	for c := range l.CallCmds() {
		if !c.Removed && c.Router == nil && c.Name != "" {
			names = append(names, c.Name)
		}
	}

	slices.Sort(names)

	return slices.Compact(names)
}
