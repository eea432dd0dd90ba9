package capture

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxContextLength = 200

const edgePunctuation = ".,!?;:'\"()[]{}"

// CleanSelection strips punctuation picked up at the edges of a selection,
// so "word." or "(hello," become plain words
func CleanSelection(text string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(text), edgePunctuation))
}

// IsValidSelection accepts text of at least two characters containing at
// least one letter in any script. Pure numbers and symbols are rejected.
func IsValidSelection(text string) bool {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < 2 {
		return false
	}
	return strings.IndexFunc(trimmed, unicode.IsLetter) >= 0
}

func isSentenceBoundary(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// ExtractContext returns the sentence of fullText that contains the first
// occurrence of selected. Sentences longer than 200 characters are cut
// around the word and marked with "...". It returns "" when selected does
// not occur.
func ExtractContext(fullText, selected string) string {
	selected = strings.TrimSpace(selected)
	if selected == "" || strings.TrimSpace(fullText) == "" {
		return ""
	}

	text := []rune(fullText)
	sel := []rune(selected)
	pos := runeIndex(text, sel, false)
	if pos < 0 {
		return ""
	}

	start := 0
	for i := pos - 1; i >= 0; i-- {
		if isSentenceBoundary(text[i]) {
			start = i + 1
			break
		}
	}
	end := len(text)
	for i := pos + len(sel); i < len(text); i++ {
		if isSentenceBoundary(text[i]) {
			end = i + 1 // keep the punctuation mark
			break
		}
	}

	sentence := strings.TrimSpace(string(text[start:end]))
	if utf8.RuneCountInString(sentence) > maxContextLength {
		sentence = truncateAround(sentence, selected)
	}
	return sentence
}

func truncateAround(sentence, selected string) string {
	text := []rune(sentence)
	sel := []rune(selected)

	pos := runeIndex(text, sel, true)
	if pos < 0 {
		return string(text[:maxContextLength-3]) + "..."
	}

	half := (maxContextLength - len(sel)) / 2
	start := pos - half
	if start < 0 {
		start = 0
	}
	end := pos + len(sel) + half
	if end > len(text) {
		end = len(text)
	}

	result := string(text[start:end])
	if start > 0 {
		result = "..." + strings.TrimLeftFunc(result, unicode.IsSpace)
	}
	if end < len(text) {
		result = strings.TrimRightFunc(result, unicode.IsSpace) + "..."
	}
	return result
}

// runeIndex finds needle in hay and returns the rune offset, or -1
func runeIndex(hay, needle []rune, foldCase bool) int {
	if len(needle) == 0 || len(needle) > len(hay) {
		return -1
	}
	eq := func(a, b rune) bool {
		if foldCase {
			return unicode.ToLower(a) == unicode.ToLower(b)
		}
		return a == b
	}
outer:
	for i := 0; i+len(needle) <= len(hay); i++ {
		for j := range needle {
			if !eq(hay[i+j], needle[j]) {
				continue outer
			}
		}
		return i
	}
	return -1
}
