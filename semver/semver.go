package semver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ardnew/pl2/lang"
)

// MaxPostfixLen is the maximum length in bytes of a version postfix.
const MaxPostfixLen = 14

// Version is a three-part version with an optional pre-release postfix.
//
// The zero value is the "unset" version.
type Version struct {
	Postfix string
	Major   uint16
	Minor   uint16
	Patch   uint16
	Exact   bool
}

// Zero returns the unset version.
func Zero() Version { return Version{} }

// New returns the version major.minor.patch.
func New(major, minor, patch uint16) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// IsZero reports whether v is the unset version.
func (v Version) IsZero() bool { return v == Version{} }

// IsAlpha reports whether v has a pre-release postfix.
func (v Version) IsAlpha() bool { return v.Postfix != "" }

// IsStable reports whether v has no postfix and a non-zero major version.
func (v Version) IsStable() bool { return !v.IsAlpha() && v.Major != 0 }

// String formats v as [^]major.minor.patch[-postfix].
func (v Version) String() string {
	var sb strings.Builder

	if v.Exact {
		sb.WriteByte('^')
	}

	sb.WriteString(strconv.FormatUint(uint64(v.Major), 10))
	sb.WriteByte('.')
	sb.WriteString(strconv.FormatUint(uint64(v.Minor), 10))
	sb.WriteByte('.')
	sb.WriteString(strconv.FormatUint(uint64(v.Patch), 10))

	if v.Postfix != "" {
		sb.WriteByte('-')
		sb.WriteString(v.Postfix)
	}

	return sb.String()
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	p, err := Parse(string(text))
	if err != nil {
		return err
	}

	*v = p

	return nil
}

// MustParse is like [Parse] but panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return v
}

// Parse parses [^]major[.minor[.patch]][-postfix].
//
// Omitted minor and patch numerals are zero, but a '.' must always be
// followed by a numeral. Errors match [lang.ErrSemVer] and carry no line.
func Parse(s string) (Version, error) {
	var v Version

	rest := s
	if strings.HasPrefix(rest, "^") {
		v.Exact = true
		rest = rest[1:]
	}

	fields := []struct {
		name string
		dst  *uint16
	}{
		{"major", &v.Major},
		{"minor", &v.Minor},
		{"patch", &v.Patch},
	}

	for i, f := range fields {
		n, tail, err := numeral(rest)
		if err != nil {
			return Version{}, fail(s, "missing %s version: %w", f.name, err)
		}

		*f.dst, rest = n, tail

		switch {
		case rest == "":
			return v, nil

		case rest[0] == '-':
			return postfix(v, s, rest[1:])

		case rest[0] == '.' && i < len(fields)-1:
			rest = rest[1:]

		case i < len(fields)-1:
			return Version{}, fail(s, "expected '.', got %q", rest[0])

		default:
			return Version{}, fail(s, "expected '-' or end of version, got %q", rest[0])
		}
	}

	return v, nil
}

func postfix(v Version, s, rest string) (Version, error) {
	switch {
	case rest == "":
		return Version{}, fail(s, "empty postfix")

	case len(rest) > MaxPostfixLen:
		return Version{}, fail(s, "postfix longer than %d bytes", MaxPostfixLen)
	}

	v.Postfix = rest

	return v, nil
}

// numeral reads a leading decimal numeral that must fit in 16 bits.
func numeral(s string) (uint16, string, error) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == 0 {
		return 0, s, fmt.Errorf("expected numeral")
	}

	n, err := strconv.ParseUint(s[:end], 10, 16)
	if err != nil {
		return 0, s, fmt.Errorf("numeral %s out of range", s[:end])
	}

	return uint16(n), s[end:], nil
}

func fail(s, format string, args ...any) *lang.Error {
	return lang.ErrSemVer.Wrapf("%q: "+format, append([]any{s}, args...)...)
}
