// Package std provides the built-in "std" language.
//
// The language keeps a table of variables whose values are set and read
// through expr-lang expressions:
//
//	language std 1.1.0
//	set n 0
//	label top
//	++n
//	if "n < 3" top
//	print "n * 2"
//	total=n+1
//	assert "total == 4"
//
// Importing the package registers the language with [ext.DefaultRegistry]
// under the id "std", writing to standard output.
package std
