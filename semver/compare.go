package semver

//go:generate go tool stringer --linecomment --type Ordering --output compare_string.go

// Ordering is the result of [Compare].
type Ordering int

const (
	Incomparable Ordering = iota - 2 // incomparable
	Less                             // less
	Equal                            // equal
	Greater                          // greater
)

// Compare orders a and b by major, minor, then patch. Versions with
// different postfixes (including one empty and one not) are
// [Incomparable]. The exact marker is ignored.
func Compare(a, b Version) Ordering {
	if a.Postfix != b.Postfix {
		return Incomparable
	}

	for _, p := range [][2]uint16{
		{a.Major, b.Major},
		{a.Minor, b.Minor},
		{a.Patch, b.Patch},
	} {
		switch {
		case p[0] < p[1]:
			return Less
		case p[0] > p[1]:
			return Greater
		}
	}

	return Equal
}

// Compatible reports whether an implementation at version actual satisfies
// a request for version expected.
//
// Postfixes must match. An exact request requires equal numerals. Otherwise
// majors must match and actual must be strictly newer: a greater minor, or
// an equal minor with a greater patch. An identical non-exact version is
// therefore not compatible.
func Compatible(expected, actual Version) bool {
	if expected.Postfix != actual.Postfix {
		return false
	}

	if expected.Exact {
		return expected.Major == actual.Major &&
			expected.Minor == actual.Minor &&
			expected.Patch == actual.Patch
	}

	if expected.Major != actual.Major {
		return false
	}

	return actual.Minor > expected.Minor ||
		(actual.Minor == expected.Minor && actual.Patch > expected.Patch)
}
