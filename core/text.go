package core

import "strings"

// Tokenize splits text into normalized tokens: lowercased, with leading
// and trailing punctuation trimmed. Empty tokens are dropped. Stop words
// are kept because router heuristics count every token.
func Tokenize(text string) []string {
	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" {
			tokens = append(tokens, cleaned)
		}
	}

	return tokens
}

// NormalizeText returns the normalized form of text: its tokens joined by
// single spaces.
func NormalizeText(text string) string {
	return joinTokens(Tokenize(text))
}

func joinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}
