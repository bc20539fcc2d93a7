package translate

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the largest chunk, in characters, sent in one call.
const DefaultChunkSize = 500

// sentenceSep separates sentences for chunking.
const sentenceSep = ". "

// Split breaks text into sentence-aligned chunks of at most limit
// characters. Sentences are accumulated greedily while the chunk stays
// under limit; a sentence that alone exceeds limit is split at word
// boundaries, or mid-word when a single word is too long. Joining the
// chunks with a single space reproduces text with whitespace trimmed at
// the chunk edges.
func Split(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultChunkSize
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if runeLen(text) <= limit {
		return []string{text}
	}

	sentences := strings.Split(text, sentenceSep)
	for i := 0; i < len(sentences)-1; i++ {
		sentences[i] += "."
	}

	var (
		chunks  []string
		current string
	)
	flush := func() {
		if c := strings.TrimSpace(current); c != "" {
			chunks = append(chunks, c)
		}
		current = ""
	}

	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		candidate := s
		if current != "" {
			candidate = current + " " + s
		}
		if runeLen(candidate) < limit {
			current = candidate
			continue
		}
		flush()
		if runeLen(s) < limit {
			current = s
			continue
		}
		pieces := hardSplit(s, limit)
		chunks = append(chunks, pieces[:len(pieces)-1]...)
		current = pieces[len(pieces)-1]
	}
	flush()
	return chunks
}

// hardSplit cuts s into pieces of at most limit runes, preferring the last
// space inside each window.
func hardSplit(s string, limit int) []string {
	var pieces []string
	runes := []rune(s)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		if piece := strings.TrimSpace(string(runes[:cut])); piece != "" {
			pieces = append(pieces, piece)
		}
		runes = []rune(strings.TrimLeft(string(runes[cut:]), " "))
	}
	if len(runes) > 0 {
		pieces = append(pieces, string(runes))
	}
	return pieces
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
