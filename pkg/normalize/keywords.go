package normalize

// keywords is the union of reserved words across the supported languages
// (C/C++/Java/JS/Python and friends). Keywords survive normalization because
// they carry structure; everything else identifier-shaped collapses to ID.
// Membership is checked against the lowercased word, so the capitalized
// Python entries (True, False, None) never match and booleans collapse to ID;
// the entries are kept anyway so the vocabulary stays a faithful copy of the
// reference set.
var keywords = map[string]bool{
	// C / C++
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true,
	"else": true, "enum": true, "extern": true, "float": true, "for": true,
	"goto": true, "if": true, "inline": true, "int": true, "long": true,
	"register": true, "restrict": true, "return": true, "short": true,
	"signed": true, "sizeof": true, "static": true, "struct": true,
	"switch": true, "typedef": true, "union": true, "unsigned": true,
	"void": true, "volatile": true, "while": true,
	"class": true, "typename": true, "template": true, "this": true,
	"new": true, "delete": true, "public": true, "private": true,
	"protected": true, "friend": true, "virtual": true, "operator": true,
	"namespace": true, "using": true, "try": true, "catch": true,
	"throw": true,
	// Python
	"import": true, "from": true, "as": true, "pass": true, "raise": true,
	"def": true, "yield": true, "lambda": true, "with": true,
	"nonlocal": true, "global": true, "assert": true, "del": true,
	"elif": true, "except": true, "finally": true,
	"True": true, "False": true, "None": true,
	"and": true, "or": true, "not": true, "is": true, "in": true,
	"async": true, "await": true,
	// JavaScript
	"var": true, "let": true, "function": true, "export": true,
	"undefined": true, "null": true, "instanceof": true, "typeof": true,
	"super": true, "extends": true,
	// Preprocessor words
	"#include": true, "define": true, "pragma": true, "include": true,
	"guard": true,
}
