// Package strescape implements §4.E: encoding a raw string for
// embedding in a double-quoted literal, and its exact inverse.
//
// The run-detection fast path (scan a contiguous span of characters
// that need no escaping, append it in one slice operation, then
// handle the single escaped character before resuming the scan) is
// ported from esbuild's QuoteForJSON (internal/js_printer/js_printer.go),
// adapted from JSON's escape set to this spec's ten-sequence table.
package strescape

import "strings"

// Escape transforms text into the body of a double-quoted literal
// (without the surrounding quotes). The ten handled sequences are:
// " \ \n \r \b \t \f < U+2028 U+2029; all other code points pass
// through unchanged.
func Escape(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 2)

	start := 0
	for i, r := range text {
		var esc string
		switch r {
		case '"':
			esc = `\"`
		case '\\':
			esc = `\\`
		case '\n':
			esc = `\n`
		case '\r':
			esc = `\r`
		case '\b':
			esc = `\b`
		case '\t':
			esc = `\t`
		case '\f':
			esc = `\f`
		case '<':
			esc = `\x3C`
		case ' ':
			esc = `\u2028`
		case ' ':
			esc = `\u2029`
		default:
			continue
		}
		b.WriteString(text[start:i])
		b.WriteString(esc)
		start = i + len(string(r))
	}
	b.WriteString(text[start:])
	return b.String()
}

// Unescape is the exact inverse of Escape over the same ten
// sequences: deserializeString(serializeString(s)) == s (§8, property 6).
func Unescape(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); {
		c := text[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(text) {
			b.WriteByte(c)
			i++
			continue
		}
		switch text[i+1] {
		case '"':
			b.WriteByte('"')
			i += 2
		case '\\':
			b.WriteByte('\\')
			i += 2
		case 'n':
			b.WriteByte('\n')
			i += 2
		case 'r':
			b.WriteByte('\r')
			i += 2
		case 'b':
			b.WriteByte('\b')
			i += 2
		case 't':
			b.WriteByte('\t')
			i += 2
		case 'f':
			b.WriteByte('\f')
			i += 2
		case 'x':
			if i+3 < len(text) && text[i+2] == '3' && (text[i+3] == 'C' || text[i+3] == 'c') {
				b.WriteByte('<')
				i += 4
			} else {
				b.WriteByte(c)
				i++
			}
		case 'u':
			if i+5 < len(text) && text[i+2:i+6] == "2028" {
				b.WriteRune(' ')
				i += 6
			} else if i+5 < len(text) && text[i+2:i+6] == "2029" {
				b.WriteRune(' ')
				i += 6
			} else {
				b.WriteByte(c)
				i++
			}
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// Quote wraps Escape(text) in double quotes, for call sites that want
// the full literal rather than just its body.
func Quote(text string) string {
	return `"` + Escape(text) + `"`
}
