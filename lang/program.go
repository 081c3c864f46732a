package lang

import (
	"iter"
	"log/slog"
	"slices"
)

// Command is one parsed script instruction. Commands are immutable once the
// parser has produced them.
type Command struct {
	Name string   `json:"name"           yaml:"name"`
	Args []string `json:"args,omitempty" yaml:"args,omitempty,flow"`
	// Index is the command's position in its Program.
	Index int `json:"-" yaml:"-"`
	// Line is the script line of the command's first token.
	Line uint `json:"line" yaml:"line"`
}

// Argc returns the number of arguments.
func (c *Command) Argc() int { return len(c.Args) }

// Arg returns the i'th argument, or "" if there is none.
func (c *Command) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}

	return c.Args[i]
}

// CopyArgs returns a copy of the argument list.
func (c *Command) CopyArgs() []string {
	return slices.Clone(c.Args)
}

// LogValue implements slog.LogValuer.
func (c *Command) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", c.Name),
		slog.Int("argc", len(c.Args)),
		slog.Uint64("line", uint64(c.Line)),
	)
}

// Program is the ordered list of commands parsed from one script.
type Program struct {
	// File is the name the script was parsed under.
	File     string     `json:"file"     yaml:"file"`
	Commands []*Command `json:"commands" yaml:"commands"`
}

// Len returns the number of commands.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}

	return len(p.Commands)
}

// Head returns the first command, or nil for an empty program.
func (p *Program) Head() *Command { return p.At(0) }

// At returns the command at index i, or nil if i is out of range.
func (p *Program) At(i int) *Command {
	if i < 0 || i >= p.Len() {
		return nil
	}

	return p.Commands[i]
}

// Next returns the command following c, or nil.
func (p *Program) Next(c *Command) *Command {
	if c == nil {
		return nil
	}

	return p.At(c.Index + 1)
}

// Prev returns the command preceding c, or nil.
func (p *Program) Prev(c *Command) *Command {
	if c == nil {
		return nil
	}

	return p.At(c.Index - 1)
}

// All returns an iterator over the commands and their indices.
func (p *Program) All() iter.Seq2[int, *Command] {
	return func(yield func(int, *Command) bool) {
		for i := range p.Len() {
			if !yield(i, p.Commands[i]) {
				return
			}
		}
	}
}

// Find returns the first command at or after index from satisfying pred.
func (p *Program) Find(from int, pred func(*Command) bool) *Command {
	for i := max(from, 0); i < p.Len(); i++ {
		if pred(p.Commands[i]) {
			return p.Commands[i]
		}
	}

	return nil
}

// Drop releases the commands. The program is empty afterwards.
func (p *Program) Drop() {
	if p == nil {
		return
	}

	clear(p.Commands)
	p.Commands = nil
}

func (p *Program) append(name string, args []string, line uint) *Command {
	c := &Command{
		Name:  name,
		Args:  args,
		Index: len(p.Commands),
		Line:  line,
	}
	p.Commands = append(p.Commands, c)

	return c
}
