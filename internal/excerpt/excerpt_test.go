package excerpt

import (
	"strings"
	"testing"
)

// visibleText strips highlight tags and decodes the escaper's entities so
// the result can be measured like the text a reader sees.
func visibleText(out string) string {
	out = strings.ReplaceAll(out, markOpen, "")
	out = strings.ReplaceAll(out, markClose, "")
	return strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&amp;", "&",
	).Replace(out)
}

// ---------------------------------------------------------------------------
// Tests: Smart
// ---------------------------------------------------------------------------

func TestSmart_TwoDistantTokens(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog"

	got := Smart(text, []string{"fox", "dog"}, 30)

	want := "...k brown <mark>fox</mark> jumps ... lazy <mark>dog</mark>"
	if got != want {
		t.Errorf("Smart:\n got  %q\n want %q", got, want)
	}
	if n := len([]rune(visibleText(got))); n > 36 {
		t.Errorf("visible length = %d, want <= 36", n)
	}
}

func TestSmart_NoTokensTruncates(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		tokens []string
		max    int
		want   string
	}{
		{"nil tokens", "hello world", nil, 5, "hello"},
		{"blank tokens", "hello world", []string{" ", ""}, 5, "hello"},
		{"no escaping", "<b>bold</b>", nil, 80, "<b>bold</b>"},
		{"shorter than budget", "short", []string{}, 80, "short"},
		{"runes not bytes", "日本語のテキスト", nil, 3, "日本語"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Smart(tc.text, tc.tokens, tc.max)
			if got != tc.want {
				t.Errorf("Smart(%q, %v, %d) = %q, want %q", tc.text, tc.tokens, tc.max, got, tc.want)
			}
		})
	}
}

func TestSmart_TokenNotFound(t *testing.T) {
	got := Smart("short text", []string{"zzz"}, 80)
	if got != "short text" {
		t.Errorf("expected plain fallback, got %q", got)
	}
}

func TestSmart_DefaultBudget(t *testing.T) {
	text := strings.Repeat("x", 200)
	got := Smart(text, nil, 0)
	if len(got) != DefaultMaxLength {
		t.Errorf("expected maxLength 0 to use default %d, got length %d", DefaultMaxLength, len(got))
	}
}

func TestSmart_SingleFragmentGrowsToContext(t *testing.T) {
	got := Smart("alpha beta", []string{"beta"}, 80)
	if got != "alpha <mark>beta</mark>" {
		t.Errorf("got %q", got)
	}
}

func TestSmart_CaseInsensitive(t *testing.T) {
	got := Smart("Go is fun. GO go", []string{"go"}, 80)
	if strings.Count(got, "<mark>") != 3 {
		t.Errorf("expected three highlighted occurrences, got %q", got)
	}
	if !strings.Contains(got, "<mark>Go</mark>") || !strings.Contains(got, "<mark>GO</mark>") {
		t.Errorf("expected original casing to be preserved inside marks, got %q", got)
	}
}

func TestSmart_MarksEveryLocatedMatch(t *testing.T) {
	tests := []struct {
		text  string
		token string
		want  string
	}{
		{"İstanbul guide", "i", "gu<mark>i</mark>de"},
		{"\u212Aelvin scale", "k", "<mark>\u212A</mark>elvin"},
		{"ΣΊΣΥΦΟΣ σίσυφος", "σ", "<mark>Σ</mark>Ί<mark>Σ</mark>"},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			tokens := []string{tc.token}
			got := Smart(tc.text, tokens, 80)
			located := len(Locate([]rune(tc.text), tokens))
			if n := strings.Count(got, markOpen); n != located {
				t.Errorf("Smart marked %d occurrences, Locate found %d: %q", n, located, got)
			}
			if !strings.Contains(got, tc.want) {
				t.Errorf("Smart = %q, want it to contain %q", got, tc.want)
			}
		})
	}
}

func TestSmart_CJKBudgetCountsRunes(t *testing.T) {
	text := "今天我们讨论搜索引擎的摘要算法"

	got := Smart(text, []string{"搜索"}, 6)

	want := "...讨论<mark>搜索</mark>引擎..."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSmart_EscapesHTML(t *testing.T) {
	got := Smart(`a <b> & "c" 'd' token`, []string{"token"}, 80)

	for _, frag := range []string{"&lt;b&gt;", "&amp;", "&quot;c&quot;", "&#39;d&#39;", "<mark>token</mark>"} {
		if !strings.Contains(got, frag) {
			t.Errorf("expected %q in output, got %q", frag, got)
		}
	}
	if strings.Contains(got, "<b>") {
		t.Errorf("raw tag leaked into output: %q", got)
	}
}

func TestSmart_TokenNeverMatchesInsideEntity(t *testing.T) {
	got := Smart("a < b lt", []string{"lt"}, 80)

	if strings.Contains(got, "&<mark>") {
		t.Errorf("token highlighted inside an entity: %q", got)
	}
	if strings.Count(got, "<mark>lt</mark>") != 1 {
		t.Errorf("expected exactly one highlight, got %q", got)
	}
}

func TestSmart_LongerTokenWins(t *testing.T) {
	got := Smart("searching for search", []string{"search", "searching"}, 80)
	if !strings.Contains(got, "<mark>searching</mark>") {
		t.Errorf("expected longer token to be highlighted whole, got %q", got)
	}
}

func TestSmart_NoHTMLInjection(t *testing.T) {
	inputs := []struct {
		text   string
		tokens []string
	}{
		{`<script>alert("x")</script> payload here`, []string{"payload", "script"}},
		{`it's "quoted" & <tagged>`, []string{"quoted", "tagged", "'"}},
		{`a&b<c>d"e'f`, []string{"&", "<", "c"}},
	}

	for _, in := range inputs {
		got := Smart(in.text, in.tokens, 40)
		stripped := strings.ReplaceAll(strings.ReplaceAll(got, markOpen, ""), markClose, "")
		if strings.ContainsAny(stripped, `<>"'`) {
			t.Errorf("unescaped markup in %q", got)
		}
		rest := stripped
		for {
			i := strings.IndexByte(rest, '&')
			if i < 0 {
				break
			}
			rest = rest[i:]
			ok := false
			for _, ent := range []string{"&amp;", "&lt;", "&gt;", "&quot;", "&#39;"} {
				if strings.HasPrefix(rest, ent) {
					ok = true
					break
				}
			}
			if !ok {
				t.Errorf("bare ampersand in %q", got)
				break
			}
			rest = rest[1:]
		}
	}
}

func TestSmart_LengthBound(t *testing.T) {
	text := "Go makes it easy to build simple, reliable, and efficient software. " +
		"Search excerpts cluster matches, prune fragments, and grow context. " +
		"Channels and goroutines make concurrency approachable for search services."
	queries := [][]string{
		{"go"},
		{"search", "channels"},
		{"software", "context", "services"},
		{"e"},
	}

	for _, tokens := range queries {
		for _, max := range []int{10, 30, 80, 200} {
			got := Smart(text, tokens, max)
			visible := len([]rune(visibleText(got)))
			if visible > max+2*len(ellipsis) {
				t.Errorf("Smart(%v, %d): visible length %d exceeds budget: %q", tokens, max, visible, got)
			}
		}
	}
}

func TestSmart_CoversEveryReachableToken(t *testing.T) {
	text := "alpha one two three four five six seven eight nine ten beta"
	got := Smart(text, []string{"alpha", "beta"}, 40)
	if !strings.Contains(got, "<mark>alpha</mark>") || !strings.Contains(got, "<mark>beta</mark>") {
		t.Errorf("expected both tokens highlighted, got %q", got)
	}
}

func TestHighlighter(t *testing.T) {
	h := Highlighter{MaxLength: 10, TitleMode: ModeCombined}

	if got := h.Excerpt("hello wide world", nil); got != "hello wide" {
		t.Errorf("Excerpt = %q", got)
	}
	if got := h.Title("React", []string{"react", "act"}); got != "<mark>React</mark>" {
		t.Errorf("Title = %q", got)
	}
}

func TestSmartHTML(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		tokens []string
		max    int
		want   string
	}{
		{"no match is escaped", "<b>x</b>", []string{"zzz"}, 80, "&lt;b&gt;x&lt;/b&gt;"},
		{"no tokens is escaped", "a < b & c", nil, 80, "a &lt; b &amp; c"},
		{"truncated before escaping", "<b>x</b>", nil, 3, "&lt;b&gt;"},
		{"match is unchanged", "a <b> fox", []string{"fox"}, 80, Smart("a <b> fox", []string{"fox"}, 80)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SmartHTML(tc.text, tc.tokens, tc.max); got != tc.want {
				t.Errorf("SmartHTML(%q, %v, %d) = %q, want %q", tc.text, tc.tokens, tc.max, got, tc.want)
			}
		})
	}

	if got := Smart("<b>x</b>", []string{"zzz"}, 80); got != "<b>x</b>" {
		t.Errorf("Smart fallback must stay unescaped, got %q", got)
	}
}

func TestHighlighter_HTML(t *testing.T) {
	h := Highlighter{MaxLength: 80, TitleMode: ModeSequential}

	if got := h.ExcerptHTML("<i>hi</i>", []string{"zzz"}); got != "&lt;i&gt;hi&lt;/i&gt;" {
		t.Errorf("ExcerptHTML = %q", got)
	}
	if got := h.TitleHTML("Go & <Fox>", nil); got != "Go &amp; &lt;Fox&gt;" {
		t.Errorf("TitleHTML = %q", got)
	}
}
