package cv

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SkillDefinition is one taxonomy entry. Aliases are alternative spellings
// that count toward the canonical Name (e.g. "golang" for "Go").
type SkillDefinition struct {
	Name    string   `json:"name" validate:"required"`
	Aliases []string `json:"aliases,omitempty" validate:"dive,required"`
}

// Taxonomy is an immutable, case-insensitive skill vocabulary. It is safe for
// concurrent use.
type Taxonomy struct {
	defs   []SkillDefinition
	lookup map[string]int
	forms  map[byte][]surfaceForm
}

type surfaceForm struct {
	text  string
	skill int
}

// NewTaxonomy builds a taxonomy preserving the order of defs. Names and
// aliases must be unique case-insensitively across the whole taxonomy.
func NewTaxonomy(defs []SkillDefinition) (*Taxonomy, error) {
	t := &Taxonomy{
		defs:   make([]SkillDefinition, 0, len(defs)),
		lookup: make(map[string]int),
		forms:  make(map[byte][]surfaceForm),
	}

	for _, def := range defs {
		name := strings.TrimSpace(def.Name)
		if Normalize(name) == "" {
			return nil, &TaxonomyError{Message: "skill name is empty"}
		}

		idx := len(t.defs)
		aliases := make([]string, 0, len(def.Aliases))
		for _, form := range append([]string{name}, def.Aliases...) {
			normalized := Normalize(form)
			if normalized == "" {
				return nil, &TaxonomyError{Skill: name, Message: "alias is empty"}
			}
			if prev, exists := t.lookup[normalized]; exists {
				if prev == idx {
					continue
				}
				return nil, &TaxonomyError{Skill: name, Message: "duplicates " + t.defs[prev].Name}
			}
			t.lookup[normalized] = idx
			t.forms[normalized[0]] = append(t.forms[normalized[0]], surfaceForm{text: normalized, skill: idx})
			if form != name {
				aliases = append(aliases, strings.TrimSpace(form))
			}
		}
		t.defs = append(t.defs, SkillDefinition{Name: name, Aliases: aliases})
	}

	// Longest forms first so the first hit at a position is the longest match.
	for b := range t.forms {
		bucket := t.forms[b]
		sort.SliceStable(bucket, func(i, j int) bool {
			return len(bucket[i].text) > len(bucket[j].text)
		})
	}

	return t, nil
}

// Len returns the number of canonical skills.
func (t *Taxonomy) Len() int {
	return len(t.defs)
}

// Skills returns a copy of the definitions in taxonomy order.
func (t *Taxonomy) Skills() []SkillDefinition {
	out := make([]SkillDefinition, len(t.defs))
	for i, def := range t.defs {
		out[i] = SkillDefinition{Name: def.Name, Aliases: append([]string(nil), def.Aliases...)}
	}
	return out
}

// Canonical resolves a skill name or alias to its canonical display name.
func (t *Taxonomy) Canonical(name string) (string, bool) {
	idx, ok := t.lookup[Normalize(name)]
	if !ok {
		return "", false
	}
	return t.defs[idx].Name, true
}

// longestMatchAt returns the longest surface form that starts at text[i] and
// sits on token boundaries.
func (t *Taxonomy) longestMatchAt(text string, i int) (surfaceForm, bool) {
	for _, form := range t.forms[text[i]] {
		end := i + len(form.text)
		if end > len(text) || text[i:end] != form.text {
			continue
		}
		if onBoundaries(text, i, end, form.text) {
			return form, true
		}
	}
	return surfaceForm{}, false
}

// isWordRune reports whether r continues a token. '+' and '#' are included
// so that "c" never matches inside "c++" or "c#".
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '_'
}

func onBoundaries(text string, start, end int, form string) bool {
	first, _ := utf8.DecodeRuneInString(form)
	if start > 0 && isWordRune(first) {
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(prev) {
			return false
		}
	}
	last, _ := utf8.DecodeLastRuneInString(form)
	if end < len(text) && isWordRune(last) {
		next, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(next) {
			return false
		}
	}
	return true
}
