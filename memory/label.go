package memory

import "strings"

// labelStopwords are filler words skipped when picking label words.
var labelStopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "that": {}, "with": {}, "this": {},
	"from": {}, "have": {}, "are": {}, "was": {}, "were": {}, "will": {},
	"been": {}, "has": {}, "had": {}, "would": {}, "not": {}, "you": {},
}

// threeWordLabel builds a what-three-words style mnemonic for a block, used
// only in logs and stats. Cosmetic: collisions are fine.
func threeWordLabel(content string) string {
	words := splitWords(strings.ToLower(content))

	var picked []string
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:\"'()[]")
		if len(w) < 3 {
			continue
		}
		if _, stop := labelStopwords[w]; stop {
			continue
		}
		picked = append(picked, w)
		if len(picked) == 3 {
			break
		}
	}

	// Not enough significant words: fall back to whatever is there.
	if len(picked) < 3 {
		picked = picked[:0]
		for _, w := range words {
			w = strings.Trim(w, ".,!?;:\"'()[]")
			if w == "" {
				continue
			}
			picked = append(picked, w)
			if len(picked) == 3 {
				break
			}
		}
	}
	for len(picked) < 3 {
		picked = append(picked, "blank")
	}
	return strings.Join(picked, ".")
}
