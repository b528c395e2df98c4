package mcpserver

import (
	"slices"
	"testing"
)

// Integration tests are in server_integration_test.go.

func TestFindSimilarTerms(t *testing.T) {
	existing := []string{"kubernetes", "javascript", "python", "search", "markdown"}

	tests := []struct {
		input string
		want  []string
	}{
		{"k8s", []string{"kubernetes"}},
		{"js", []string{"javascript"}},
		{"kubernetez", []string{"kubernetes"}},
		{"serch", []string{"search"}},
		{"md", []string{"markdown"}},
		{"search", nil},
		{"", nil},
		{"unrelated", nil},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := findSimilarTerms(tc.input, existing, 2)
			if !slices.Equal(got, tc.want) {
				t.Errorf("findSimilarTerms(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestFindSimilarTerms_LongFormFindsAbbreviation(t *testing.T) {
	got := findSimilarTerms("Kubernetes", []string{"k8s", "go"}, 1)
	if !slices.Equal(got, []string{"k8s"}) {
		t.Errorf("got %v, want [k8s]", got)
	}
}

func TestValidateFrontmatter(t *testing.T) {
	tags := []string{"go", "kubernetes", "search"}
	cats := []string{"programming"}

	t.Run("valid frontmatter", func(t *testing.T) {
		fm := `title: "My Post"
date: 2025-01-15T10:00:00Z
tags:
  - go
`
		result := validateFrontmatter(fm, tags, cats)
		if !result.Valid {
			t.Errorf("expected valid, got errors: %v", result.Errors)
		}
		if len(result.Warnings) != 0 {
			t.Errorf("expected no warnings, got %v", result.Warnings)
		}
		if result.NormalizedFrontmatter == "" {
			t.Error("expected normalized frontmatter")
		}
	})

	t.Run("missing title only warns", func(t *testing.T) {
		result := validateFrontmatter(`date: 2025-01-15`, tags, cats)
		if !result.Valid {
			t.Errorf("expected valid, got errors: %v", result.Errors)
		}
		if len(result.Warnings) != 1 || result.Warnings[0].Field != "title" {
			t.Errorf("expected a title warning, got %v", result.Warnings)
		}
	})

	t.Run("invalid date format", func(t *testing.T) {
		fm := `title: "My Post"
date: "January 15, 2025"
lastmod: "2025-01-16 08:30"`
		result := validateFrontmatter(fm, tags, cats)
		if result.Valid {
			t.Error("expected invalid due to bad date format")
		}
		if len(result.Errors) != 1 || result.Errors[0].Field != "date" {
			t.Errorf("expected one date error, got %v", result.Errors)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		result := validateFrontmatter("title: [unclosed", tags, cats)
		if result.Valid || result.Errors[0].Field != "_yaml" {
			t.Errorf("expected YAML error, got %+v", result)
		}
	})

	t.Run("draft warns", func(t *testing.T) {
		result := validateFrontmatter("title: x\ndraft: true", tags, cats)
		if len(result.Warnings) != 1 || result.Warnings[0].Field != "draft" {
			t.Errorf("expected draft warning, got %v", result.Warnings)
		}
	})

	t.Run("similar tag and category", func(t *testing.T) {
		fm := `title: "My Post"
tags:
  - k8s
categories:
  - programing
`
		result := validateFrontmatter(fm, tags, cats)
		if len(result.Warnings) != 2 {
			t.Fatalf("expected 2 warnings, got %v", result.Warnings)
		}
		if result.Warnings[0].Suggestion != "kubernetes" || result.Warnings[1].Suggestion != "programming" {
			t.Errorf("unexpected suggestions: %v", result.Warnings)
		}
	})
}
