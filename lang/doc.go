// Package lang parses pl2 command scripts.
//
// A script is a sequence of lines. Each logical line is one command: a name
// followed by zero or more arguments. A logical line normally ends at the
// end of the physical line; between ?begin and ?end lines it spans every
// line of the block.
//
// # Grammar
//
// Informal EBNF:
//
//	Script    → Line*
//	Line      → Directive? (Token | Comment)* EOL
//	Directive → '?' ("begin" | "end")           (column 1 only)
//	Token     → Word | String
//	Word      → IdentByte+
//	String    → Quote Char* Quote
//	Quote     → '"' | "'"
//	Comment   → '#' <any byte except newline>*
//
// IdentByte is a letter, a digit, any byte >= 0x80, or one of
// !$%^&*()-+_=[]{}|\:;',<>/?~@. A String may open and close with
// different quotes, and recognizes the escapes \n \r \f \v \t \a \" \' and
// \0. Any other escape is kept as written.
//
// # Example
//
//	language std 1.0.0
//	echo "hello, world"   # one command, one argument
//	?begin
//	  set greeting
//	      "'hi' + ' there'"
//	?end
//
// Parsing happens in two stages. A lexer produces [Token] values whose text
// lives in an arena owned by the parse, and a parser groups tokens into
// [Command] values stored in a [Program] by index. The source text is never
// modified and no Command shares storage with it.
package lang
