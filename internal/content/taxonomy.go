package content

import (
	"sort"
	"strings"
)

// Taxonomy holds all terms of one classification and the posts filed under
// each.
type Taxonomy struct {
	Name  string             // "tags" or "categories"
	Terms map[string][]*Post // normalized term -> posts, newest first
}

// Term is a taxonomy term with its post count.
type Term struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// BuildTaxonomies groups posts by tag and by category. Terms are
// lower-cased and trimmed; empty terms are skipped.
func BuildTaxonomies(posts []*Post) map[string]*Taxonomy {
	result := map[string]*Taxonomy{
		"tags":       {Name: "tags", Terms: make(map[string][]*Post)},
		"categories": {Name: "categories", Terms: make(map[string][]*Post)},
	}

	for _, p := range posts {
		addTerms(result["tags"], p, p.Tags)
		addTerms(result["categories"], p, p.Categories)
	}

	for _, tax := range result {
		for term := range tax.Terms {
			SortByDate(tax.Terms[term])
		}
	}

	return result
}

func addTerms(tax *Taxonomy, p *Post, terms []string) {
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		normalized := normalizeTerm(term)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		tax.Terms[normalized] = append(tax.Terms[normalized], p)
	}
}

// Counts lists the terms of t by descending post count, then by name.
func (t *Taxonomy) Counts() []Term {
	terms := make([]Term, 0, len(t.Terms))
	for name, posts := range t.Terms {
		terms = append(terms, Term{Name: name, Count: len(posts)})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Name < terms[j].Name
	})
	return terms
}

func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsFold(list []string, s string) bool {
	want := normalizeTerm(s)
	for _, item := range list {
		if normalizeTerm(item) == want {
			return true
		}
	}
	return false
}
