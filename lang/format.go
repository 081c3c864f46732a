package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program in native script syntax to the writer.
//
// With indent > 0, commands with more than one argument are written as a
// ?begin block with one argument per indented line.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	for _, cmd := range p.All() {
		var err error

		if indent > 0 && len(cmd.Args) > 1 {
			err = formatBlock(w, cmd, strings.Repeat(" ", indent))
		} else {
			err = formatLine(w, cmd)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the program as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the program as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent), yaml.IndentSequence(true))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, p, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

func formatLine(w io.Writer, cmd *Command) error {
	var sb strings.Builder

	sb.WriteString(quoteName(cmd.Name))

	for _, arg := range cmd.Args {
		sb.WriteByte(' ')
		sb.WriteString(Quote(arg))
	}

	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())

	return err
}

func formatBlock(w io.Writer, cmd *Command, pad string) error {
	var sb strings.Builder

	sb.WriteString("?begin\n")
	sb.WriteString(pad)
	sb.WriteString(quoteName(cmd.Name))
	sb.WriteByte('\n')

	for _, arg := range cmd.Args {
		sb.WriteString(pad)
		sb.WriteString(pad)
		sb.WriteString(Quote(arg))
		sb.WriteByte('\n')
	}

	sb.WriteString("?end\n")

	_, err := io.WriteString(w, sb.String())

	return err
}

// quoteName also quotes a leading '?' so the name is not read back as a
// directive.
func quoteName(s string) string {
	if strings.HasPrefix(s, "?") {
		return quoteString(s)
	}

	return Quote(s)
}

// Quote returns s as a single script token: unchanged when it is a valid
// bare word, otherwise as a double-quoted string.
func Quote(s string) string {
	if s == "" || s[0] == '\'' {
		return quoteString(s)
	}

	for i := range len(s) {
		if !isIdentByte(s[i]) {
			return quoteString(s)
		}
	}

	return s
}

var unescapes = func() map[byte]byte {
	m := make(map[byte]byte, len(escapes))
	for k, v := range escapes {
		m[v] = k
	}

	return m
}()

// quoteString escapes the bytes that have an escape. A backslash has none and
// is written as is, so a backslash followed by an escape letter reads back as
// that escape.
func quoteString(s string) string {
	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte('"')

	for i := range len(s) {
		if e, ok := unescapes[s[i]]; ok {
			sb.WriteByte('\\')
			sb.WriteByte(e)
		} else {
			sb.WriteByte(s[i])
		}
	}

	sb.WriteByte('"')

	return sb.String()
}
