package bitable

// Text chunking for the remote field-size cap. The split is a pure partition:
// concatenating the fragments reproduces the input exactly.

const (
	// newlineLookahead is how far past the limit a fragment may run to end
	// on a newline instead of mid-paragraph.
	newlineLookahead = 100
	// sentenceLookback is how far before the limit to scan for sentence-
	// ending punctuation when no newline is in reach.
	sentenceLookback = 50
)

var sentenceEnders = map[rune]bool{
	'.': true, '!': true, '?': true,
	'。': true, '！': true, '？': true,
}

// SplitContent splits content into fragments of at most maxLen runes, with a
// lookahead of up to newlineLookahead runes to break after a newline.
// Break preference per fragment: newline in [maxLen, maxLen+100), else
// sentence end in [maxLen-50, maxLen), else a hard break at maxLen.
// Empty content yields nil; content within the cap yields one fragment.
func SplitContent(content string, maxLen int) []string {
	if content == "" {
		return nil
	}
	runes := []rune(content)
	if maxLen <= 0 || len(runes) <= maxLen {
		return []string{content}
	}

	var parts []string
	for len(runes) > maxLen {
		splitPos := maxLen

		end := min(maxLen+newlineLookahead, len(runes))
		for i := maxLen; i < end; i++ {
			if runes[i] == '\n' {
				splitPos = i + 1
				break
			}
		}

		if splitPos == maxLen {
			for i := max(maxLen-sentenceLookback, 0); i < maxLen; i++ {
				if sentenceEnders[runes[i]] {
					splitPos = i + 1
					break
				}
			}
		}

		parts = append(parts, string(runes[:splitPos]))
		runes = runes[splitPos:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
