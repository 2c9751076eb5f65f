package usecase

import (
	"regexp"
	"strings"
)

// sheetDraft is one decomposed unit before persistence.
type sheetDraft struct {
	Title   string
	Content string
}

// Fragments at or under this length are preamble or provider noise.
const minFragmentLen = 50

var titleLineRe = regexp.MustCompile(`(?m)^#{1,2}[ \t]+(.+)$`)

// headingPattern matches a heading line that opens a numbered unit,
// e.g. "# Fiche 1" or "## fiche 2" for the French marker word.
func headingPattern(marker string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^#{1,2}[ \t]+(?i:` + regexp.QuoteMeta(marker) + `)[ \t]*\d`)
}

// splitSheets decomposes provider output into unit drafts. It is
// deterministic and never fails: when the text does not carry at least
// two detectable unit headings, the whole text becomes a single draft
// titled with the requested topic.
func splitSheets(text, topic, marker string, target int) []sheetDraft {
	text = strings.TrimSpace(text)
	whole := []sheetDraft{{Title: topic, Content: text}}
	if target <= 1 {
		return whole
	}

	locs := headingPattern(marker).FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return whole
	}

	// Cut at each heading start; the slice before the first heading is
	// kept as a candidate too and usually dies on the length filter.
	starts := make([]int, 0, len(locs)+1)
	if locs[0][0] > 0 {
		starts = append(starts, 0)
	}
	for _, l := range locs {
		starts = append(starts, l[0])
	}

	var parts []string
	for i, s := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		p := strings.TrimSpace(text[s:end])
		if len(p) > minFragmentLen {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return whole
	}

	drafts := make([]sheetDraft, 0, len(parts))
	for _, p := range parts {
		drafts = append(drafts, sheetDraft{Title: fragmentTitle(p, topic), Content: p})
	}
	return drafts
}

// fragmentTitle derives a unit title from its first heading line, with
// markdown marker characters stripped.
func fragmentTitle(fragment, topic string) string {
	m := titleLineRe.FindStringSubmatch(fragment)
	if m == nil {
		return topic + " - Partie"
	}
	title := strings.NewReplacer("#", "", "*", "").Replace(m[1])
	title = strings.TrimSpace(title)
	if title == "" {
		return topic + " - Partie"
	}
	return title
}
