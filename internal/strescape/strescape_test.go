package strescape

import "testing"

func TestEscapeHandlesAllTenSequences(t *testing.T) {
	in := "a\"b\\c\nd\re\bf\tg\fh<i j k"
	got := Escape(in)
	want := `a\"b\\c\nd\re\bf\tg\fh\x3Ci\u2028j\u2029k`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeLeavesOrdinaryRunsAlone(t *testing.T) {
	in := "hello world, nothing to see here"
	if got := Escape(in); got != in {
		t.Fatalf("got %q, want unchanged %q", got, in)
	}
}

func TestUnescapeIsExactInverse(t *testing.T) {
	cases := []string{
		"",
		"plain text",
		"a\"b\\c\nd\re\bf\tg\fh<i j k",
		"<<<<<",
		"   ",
	}
	for _, c := range cases {
		escaped := Escape(c)
		if got := Unescape(escaped); got != c {
			t.Fatalf("round trip failed: Unescape(Escape(%q)) = %q", c, got)
		}
	}
}

func TestQuoteWrapsInDoubleQuotes(t *testing.T) {
	got := Quote(`he said "hi"`)
	want := `"he said \"hi\""`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestUnescapeLeavesUnknownEscapeAlone(t *testing.T) {
	in := `\q`
	if got := Unescape(in); got != in {
		t.Fatalf("got %q, want %q", got, in)
	}
}
