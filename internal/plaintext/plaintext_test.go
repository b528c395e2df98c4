package plaintext

import "testing"

// ---------------------------------------------------------------------------
// Tests: FromMarkdown
// ---------------------------------------------------------------------------

func TestFromMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"heading with emphasis", "# Hello **world**", "Hello world"},
		{"image alt", "![cat photo](x.png)", "[cat photo]"},
		{"image without alt", "![](x.png)", "[图片]"},
		{"paragraphs", "First para.\n\nSecond para.", "First para. Second para."},
		{"soft break", "line one\nline two", "line one line two"},
		{"list items", "- one\n- two\n- three", "one two three"},
		{"link text", "[Go](https://go.dev) site", "Go site"},
		{"autolink", "<https://go.dev>", "https://go.dev"},
		{"code span", "Use `fmt.Println` here", "Use fmt.Println here"},
		{"code span tags stripped", "Use `<b>` tags", "Use tags"},
		{"fenced code kept", "```go\nfmt.Println(\"hi\")\n```", `fmt.Println("hi")`},
		{"indented code kept", "    x := 1", "x := 1"},
		{"table cells", "| a | b |\n|---|---|\n| 1 | 2 |", "a b 1 2"},
		{"blockquote", "> quoted\n\nafter", "quoted after"},
		{"thematic break", "a\n\n---\n\nb", "a b"},
		{"strikethrough", "~~old~~ new", "old new"},
		{"html block", "<div class=\"note\">\nImportant\n</div>\n\nAfter", "Important After"},
		{"inline html", "Press <kbd>Ctrl</kbd> now", "Press Ctrl now"},
		{"entity", "Fish &amp; chips", "Fish & chips"},
		{"unmatched emphasis", "a **b", "a b"},
		{"insert and mark decorators", "This is ++inserted++ and ==marked== text", "This is inserted and marked text"},
		{"inline math dropped", "Euler: $e^{i\\pi}+1=0$ done", "Euler: done"},
		{"display math dropped", "Before $$x^2$$ after", "Before after"},
		{"prices are not math", "Costs $5 and $10 total", "Costs $5 and $10 total"},
		{"nfc", "café", "café"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FromMarkdown(tc.in)
			if got != tc.want {
				t.Errorf("FromMarkdown(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFromMarkdown_Idempotent(t *testing.T) {
	inputs := []string{
		"# Title\n\nSome *text* here.",
		"- a\n- b\n\n> quote",
		"Some `code` and a [link](/x).",
		"| h1 | h2 |\n|----|----|\n| c1 | c2 |",
	}

	for _, in := range inputs {
		once := FromMarkdown(in)
		twice := FromMarkdown(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

// ---------------------------------------------------------------------------
// Tests: Extract outline
// ---------------------------------------------------------------------------

func TestExtract_Outline(t *testing.T) {
	src := "# Intro\n\ntext\n\n## Setup Guide\n\nmore\n\n### Deep"
	doc := NewConverter(nil).Extract([]byte(src))

	if doc.Text != "Intro text Setup Guide more Deep" {
		t.Errorf("Text = %q", doc.Text)
	}

	want := []struct {
		level int
		title string
	}{
		{1, "Intro"},
		{2, "Setup Guide"},
		{3, "Deep"},
	}
	if len(doc.Outline) != len(want) {
		t.Fatalf("expected %d headings, got %+v", len(want), doc.Outline)
	}
	for i, w := range want {
		h := doc.Outline[i]
		if h.Level != w.level || h.Title != w.title {
			t.Errorf("heading %d = %+v, want level %d %q", i, h, w.level, w.title)
		}
		if h.ID == "" {
			t.Errorf("heading %d has no ID", i)
		}
	}
}

func TestExtract_OutlineSkipsPlaceholders(t *testing.T) {
	doc := NewConverter(nil).Extract([]byte("## Only"))
	if len(doc.Outline) != 1 {
		t.Fatalf("expected 1 heading, got %+v", doc.Outline)
	}
	if doc.Outline[0].Level != 2 || doc.Outline[0].Title != "Only" {
		t.Errorf("heading = %+v", doc.Outline[0])
	}
}

func TestExtract_Empty(t *testing.T) {
	doc := NewConverter(nil).Extract(nil)
	if doc.Text != "" || doc.Outline != nil {
		t.Errorf("expected zero Document, got %+v", doc)
	}
}

// ---------------------------------------------------------------------------
// Tests: clean / fallback
// ---------------------------------------------------------------------------

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a&nbsp;b", "a b"},
		{"&lt;tag&gt;", ""},
		{"&lt; 3 &amp; &quot;q&quot; &#39;s", `< 3 & "q" 's`},
		{"x --- y === z", "x y z"},
		{"__bold__ and `tick`", "bold and tick"},
		{"  spaced\n\n\tout  ", "spaced out"},
		{"keep a < b", "keep a < b"},
	}

	for _, tc := range tests {
		if got := clean(tc.in); got != tc.want {
			t.Errorf("clean(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFallback(t *testing.T) {
	got := fallback("<p>Hi\n   there</p>")
	if got != "Hi there" {
		t.Errorf("fallback = %q, want %q", got, "Hi there")
	}
}
