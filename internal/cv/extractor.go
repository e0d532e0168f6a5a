package cv

import (
	"strings"
	"unicode/utf8"
)

// SkillMention is one distinct skill found in a document.
type SkillMention struct {
	Name        string `json:"name"`
	Count       int    `json:"count"`
	FirstOffset int    `json:"-"`
}

// SkillSet is ordered by taxonomy order, never by position in the text.
type SkillSet []SkillMention

// Names returns the skill names in set order.
func (s SkillSet) Names() []string {
	names := make([]string, len(s))
	for i, m := range s {
		names[i] = m.Name
	}
	return names
}

// TotalMentions sums the mention counts of every skill.
func (s SkillSet) TotalMentions() int {
	total := 0
	for _, m := range s {
		total += m.Count
	}
	return total
}

// ExtractSkills scans normalized text for taxonomy skills. At each position
// the longest matching name or alias wins and the matched span is consumed,
// so "objective-c" never also counts as "c".
func ExtractSkills(text string, taxonomy *Taxonomy) SkillSet {
	if taxonomy == nil || taxonomy.Len() == 0 {
		return SkillSet{}
	}

	counts := make([]int, taxonomy.Len())
	first := make([]int, taxonomy.Len())

	scanSkills(Normalize(text), taxonomy, func(start, _ int, skill int) {
		if counts[skill] == 0 {
			first[skill] = start
		}
		counts[skill]++
	})

	skills := SkillSet{}
	for idx, count := range counts {
		if count == 0 {
			continue
		}
		skills = append(skills, SkillMention{
			Name:        taxonomy.defs[idx].Name,
			Count:       count,
			FirstOffset: first[idx],
		})
	}
	return skills
}

// StripSkills returns the normalized text with every span ExtractSkills
// would count removed. Phrases interrupted by a skill mention read as if the
// mention were not there: "head python of" becomes "head of".
func StripSkills(text string, taxonomy *Taxonomy) string {
	text = Normalize(text)
	if taxonomy == nil || taxonomy.Len() == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	scanSkills(text, taxonomy, func(start, end int, _ int) {
		b.WriteString(text[last:start])
		b.WriteByte(' ')
		last = end
	})
	b.WriteString(text[last:])
	return Normalize(b.String())
}

// scanSkills walks text left to right and calls fn for each non-overlapping
// longest match with its byte span and skill index.
func scanSkills(text string, taxonomy *Taxonomy, fn func(start, end, skill int)) {
	for i := 0; i < len(text); {
		if form, ok := taxonomy.longestMatchAt(text, i); ok {
			fn(i, i+len(form.text), form.skill)
			i += len(form.text)
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
}
