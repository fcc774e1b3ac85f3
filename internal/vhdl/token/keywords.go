package token

import "strings"

// keywords is the closed set of VHDL reserved words (1993-2019, superset),
// matched case-insensitively against the basic-identifier form.
var keywords = map[string]bool{
	"abs": true, "access": true, "after": true, "alias": true, "all": true,
	"and": true, "architecture": true, "array": true, "assert": true,
	"assume": true, "attribute": true, "begin": true, "block": true,
	"body": true, "buffer": true, "bus": true, "case": true,
	"component": true, "configuration": true, "constant": true,
	"context": true, "cover": true, "default": true, "disconnect": true,
	"downto": true, "else": true, "elsif": true, "end": true, "entity": true,
	"exit": true, "fairness": true, "file": true, "for": true,
	"force": true, "function": true, "generate": true, "generic": true,
	"group": true, "guarded": true, "if": true, "impure": true, "in": true,
	"inertial": true, "inout": true, "is": true, "label": true,
	"library": true, "linkage": true, "literal": true, "loop": true,
	"map": true, "mod": true, "nand": true, "new": true, "next": true,
	"nor": true, "not": true, "null": true, "of": true, "on": true,
	"open": true, "or": true, "others": true, "out": true, "package": true,
	"parameter": true, "port": true, "postponed": true, "private": true,
	"procedure": true, "process": true, "property": true, "protected": true,
	"pure": true, "range": true, "record": true, "register": true,
	"reject": true, "release": true, "rem": true, "report": true,
	"restrict": true, "restrict_guarantee": true, "return": true,
	"rol": true, "ror": true, "select": true, "sequence": true,
	"severity": true, "signal": true, "shared": true, "sla": true,
	"sll": true, "sra": true, "srl": true, "strong": true, "subtype": true,
	"then": true, "to": true, "transport": true, "type": true,
	"unaffected": true, "units": true, "until": true, "use": true,
	"variable": true, "vmode": true, "vpkg": true, "vprop": true,
	"vunit": true, "wait": true, "when": true, "while": true, "with": true,
	"xnor": true, "xor": true,
}

// IsKeyword reports whether s (any case) is a reserved word.
func IsKeyword(s string) bool {
	return keywords[strings.ToLower(s)]
}

// multiCharDelimiters is checked longest-match-first by the lexer.
var multiCharDelimiters = []string{
	"?<=", "?>=", "?/=",
	"=>", ":=", "<=", ">=", "/=", "<<", ">>", "??", "?=", "?<", "?>", "**",
}

// singleCharDelimiters is the closed set of one-character delimiters.
var singleCharDelimiters = map[rune]bool{
	'(': true, ')': true, ',': true, ';': true, ':': true, '.': true,
	'=': true, '<': true, '>': true, '+': true, '-': true, '*': true,
	'/': true, '&': true, '|': true, '\'': true, '"': true,
}

// IsSingleCharDelimiter reports whether r is one of the single-character
// delimiters.
func IsSingleCharDelimiter(r rune) bool {
	return singleCharDelimiters[r]
}

// MultiCharDelimiters returns the multi-character delimiter table, ordered
// so that longer candidates are tried first.
func MultiCharDelimiters() []string {
	return multiCharDelimiters
}
