package excerpt

import "testing"

func TestHighlightTitle(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		tokens []string
		want   string
	}{
		{
			name:   "every occurrence",
			title:  "React vs React Native",
			tokens: []string{"react"},
			want:   "<mark>React</mark> vs <mark>React</mark> Native",
		},
		{
			name:   "no tokens leaves title untouched",
			title:  "Hello World",
			tokens: nil,
			want:   "Hello World",
		},
		{
			name:   "no tokens does not escape",
			title:  "Tom & <Jerry>",
			tokens: []string{"  "},
			want:   "Tom & <Jerry>",
		},
		{
			name:   "escapes before highlighting",
			title:  "<script> tips",
			tokens: []string{"script"},
			want:   "&lt;<mark>script</mark>&gt; tips",
		},
		{
			name:   "regex metacharacters are literal",
			title:  "C++ in 2024 (part 1)",
			tokens: []string{"c++", "(part"},
			want:   "<mark>C++</mark> in 2024 <mark>(part</mark> 1)",
		},
		{
			name:   "substring tokens nest in sequential mode",
			title:  "React",
			tokens: []string{"act", "react"},
			want:   "<mark>Re<mark>act</mark></mark>",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := HighlightTitle(tc.title, tc.tokens)
			if got != tc.want {
				t.Errorf("HighlightTitle(%q, %v) = %q, want %q", tc.title, tc.tokens, got, tc.want)
			}
		})
	}
}

func TestHighlightTitleMode_Combined(t *testing.T) {
	tests := []struct {
		title  string
		tokens []string
		want   string
	}{
		{"React", []string{"act", "react"}, "<mark>React</mark>"},
		{"Go & Rust", []string{"go", "rust"}, "<mark>Go</mark> &amp; <mark>Rust</mark>"},
		{"Marked text", []string{"mark", "text"}, "<mark>Mark</mark>ed <mark>text</mark>"},
		{"Plain", nil, "Plain"},
	}

	for _, tc := range tests {
		got := HighlightTitleMode(tc.title, tc.tokens, ModeCombined)
		if got != tc.want {
			t.Errorf("HighlightTitleMode(%q, %v, combined) = %q, want %q", tc.title, tc.tokens, got, tc.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeSequential, false},
		{"sequential", ModeSequential, false},
		{" Combined ", ModeCombined, false},
		{"fuzzy", ModeSequential, true},
	}

	for _, tc := range tests {
		got, err := ParseMode(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if ModeCombined.String() != "combined" || ModeSequential.String() != "sequential" {
		t.Error("unexpected Mode.String values")
	}
}

func TestHighlightTitleHTML(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		tokens []string
		mode   Mode
		want   string
	}{
		{"no tokens is escaped", "<script>x</script>", nil, ModeSequential, "&lt;script&gt;x&lt;/script&gt;"},
		{"blank tokens are escaped", "A & B", []string{" ", ""}, ModeCombined, "A &amp; B"},
		{"sequential match", "Go & Fox", []string{"fox"}, ModeSequential, "Go &amp; <mark>Fox</mark>"},
		{"combined match", "Go Fox", []string{"go", "fox"}, ModeCombined, "<mark>Go</mark> <mark>Fox</mark>"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HighlightTitleHTML(tc.title, tc.tokens, tc.mode); got != tc.want {
				t.Errorf("HighlightTitleHTML(%q, %v) = %q, want %q", tc.title, tc.tokens, got, tc.want)
			}
		})
	}

	if got := HighlightTitle("<b>", nil); got != "<b>" {
		t.Errorf("HighlightTitle without tokens must stay unescaped, got %q", got)
	}
}
