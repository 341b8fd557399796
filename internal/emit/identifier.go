package emit

// isIdentifier reports whether key matches the bare-object-key
// pattern [A-Za-z_$][A-Za-z0-9_$]*. Ported in the style of esbuild's
// js_ast.IsIdentifier (a per-position start/continue check) but
// restricted to ASCII rather than the full Unicode identifier grammar
// esbuild's syntax target requires.
func isIdentifier(key string) bool {
	if len(key) == 0 {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if i == 0 {
			if !isIdentifierStart(c) {
				return false
			}
			continue
		}
		if !isIdentifierPart(c) {
			return false
		}
	}
	return true
}

func isIdentifierStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentifierPart(c byte) bool {
	return isIdentifierStart(c) || (c >= '0' && c <= '9')
}

// isBareNumericKey reports whether key parses as a non-negative
// integer written in canonical form (no leading zeros other than the
// literal "0" itself, no leading "+"). "01" is deliberately rejected
// here — see DESIGN.md's resolution of the leading-zero open question.
func isBareNumericKey(key string) bool {
	if len(key) == 0 {
		return false
	}
	if key == "0" {
		return true
	}
	if key[0] == '0' {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return false
		}
	}
	return true
}

// canEmitBareKey reports whether key can be written without quotes in
// an object literal: a bare identifier, or a canonical non-negative
// integer.
func canEmitBareKey(key string) bool {
	return isIdentifier(key) || isBareNumericKey(key)
}
