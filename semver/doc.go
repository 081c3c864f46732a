// Package semver parses, formats, and compares extension versions of the
// form [^]major[.minor[.patch]][-postfix].
//
// A leading '^' marks the version as exact: [Compatible] then requires all
// three numerals to match. Without it, an actual version is compatible with
// an expected one only when it is strictly newer within the same major
// version. Versions whose postfixes differ are never compatible and never
// ordered.
package semver
