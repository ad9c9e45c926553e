package jimple

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var keywords = map[string]struct{}{
	"abstract": {}, "boolean": {}, "break": {}, "byte": {}, "case": {}, "catch": {},
	"char": {}, "class": {}, "cmp": {}, "cmpg": {}, "cmpl": {}, "default": {},
	"double": {}, "entermonitor": {}, "exitmonitor": {}, "extends": {}, "final": {},
	"float": {}, "goto": {}, "if": {}, "instanceof": {}, "int": {}, "interface": {},
	"interfaceinvoke": {}, "length": {}, "long": {}, "lookupswitch": {}, "neg": {},
	"new": {}, "newarray": {}, "newmultiarray": {}, "nop": {}, "null": {},
	"private": {}, "protected": {}, "public": {}, "ret": {}, "return": {},
	"short": {}, "specialinvoke": {}, "static": {}, "staticinvoke": {}, "tableswitch": {},
	"throw": {}, "throws": {}, "void": {}, "virtualinvoke": {},
}

// ID turns a source-level name into a valid Jimple identifier. The result only
// contains letters, digits, '_' and '$'; GCC's '.' separators (x.0, D.1234)
// become '$' so that distinct source names stay distinct.
func ID(name string) string {
	name = norm.NFC.String(name)
	var sb strings.Builder
	sb.Grow(len(name))
	for i, r := range name {
		switch {
		case r == '_' || r == '$':
			sb.WriteRune(r)
		case r == '.':
			sb.WriteByte('$')
		case unicode.IsLetter(r) && r < unicode.MaxASCII:
			sb.WriteRune(r)
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	id := sb.String()
	if id == "" {
		return "_"
	}
	if _, ok := keywords[id]; ok {
		return id + "_"
	}
	return id
}
