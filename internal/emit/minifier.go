package emit

// nameMinifier allocates short, valid-identifier variable names in a
// fixed base-54/base-64 sequence (54 possible first characters since
// a digit can't start an identifier, 64 possible continuation
// characters). Ported from esbuild's internal/js_ast.NameMinifier /
// NumberToMinifiedName.
//
// esbuild additionally reorders head/tail by a whole-program character
// frequency histogram (CharFreq) to shave a few bytes off heavily
// reused short names; this port skips that reordering and always
// starts from the fixed alphabetical order, since this library
// allocates a handful of names per call rather than minifying an
// entire bundle — the frequency pass would add a full extra traversal
// for a gain that doesn't matter at this scale.
type nameMinifier struct {
	head string
	tail string
}

var defaultNameMinifier = nameMinifier{
	head: "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_$",
	tail: "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_$",
}

// numberToMinifiedName maps a dense, zero-based allocation index to a
// short variable name: v0, v1, ... conceptually, but using the
// minifier's own alphabet rather than a "v"-prefix scheme, the same
// way esbuild names minified bundle-local symbols.
func (m *nameMinifier) numberToMinifiedName(i int) string {
	j := i % 54
	name := m.head[j : j+1]
	i /= 54

	for i > 0 {
		i--
		j := i % 64
		name += m.tail[j : j+1]
		i /= 64
	}

	return name
}
