package ocr

import "strings"

// TokenSequence is the ordered text output of recognition for one image.
// Order is detection order, which does not necessarily match reading order.
type TokenSequence []string

// Document joins the tokens into the single string fed to the embedder.
func (t TokenSequence) Document() string {
	return strings.Join(t, " ")
}

// GuessTitleAuthor derives a rough title and author from a token sequence:
// the first three tokens are treated as the title and the next two as the
// author. Cover text rarely carries enough structure for anything smarter,
// and the guess is only used to seed the metadata lookup.
func GuessTitleAuthor(tokens TokenSequence) (title, author string) {
	if len(tokens) > 3 {
		title = strings.Join(tokens[:3], " ")
		author = strings.Join(tokens[3:min(5, len(tokens))], " ")
		return title, author
	}
	return strings.Join(tokens, " "), ""
}
