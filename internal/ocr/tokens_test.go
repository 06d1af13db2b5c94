package ocr

import (
	"reflect"
	"testing"
)

func TestDocument(t *testing.T) {
	tests := []struct {
		name     string
		tokens   TokenSequence
		expected string
	}{
		{
			name:     "joins tokens with single spaces",
			tokens:   TokenSequence{"Dune", "Frank", "Herbert"},
			expected: "Dune Frank Herbert",
		},
		{
			name:     "single token",
			tokens:   TokenSequence{"Cooking"},
			expected: "Cooking",
		},
		{
			name:     "empty sequence yields empty document",
			tokens:   TokenSequence{},
			expected: "",
		},
		{
			name:     "nil sequence yields empty document",
			tokens:   nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tokens.Document(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestGuessTitleAuthor(t *testing.T) {
	tests := []struct {
		name       string
		tokens     TokenSequence
		wantTitle  string
		wantAuthor string
	}{
		{
			name:       "five or more tokens",
			tokens:     TokenSequence{"The", "Great", "Gatsby", "F.", "Scott", "Fitzgerald"},
			wantTitle:  "The Great Gatsby",
			wantAuthor: "F. Scott",
		},
		{
			name:       "four tokens",
			tokens:     TokenSequence{"Dune", "Messiah", "Frank", "Herbert"},
			wantTitle:  "Dune Messiah Frank",
			wantAuthor: "Herbert",
		},
		{
			name:       "three tokens become the title",
			tokens:     TokenSequence{"One", "Two", "Three"},
			wantTitle:  "One Two Three",
			wantAuthor: "",
		},
		{
			name:       "single token",
			tokens:     TokenSequence{"Dune"},
			wantTitle:  "Dune",
			wantAuthor: "",
		},
		{
			name:       "empty sequence",
			tokens:     TokenSequence{},
			wantTitle:  "",
			wantAuthor: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, author := GuessTitleAuthor(tt.tokens)
			if title != tt.wantTitle {
				t.Errorf("Expected title %q, got %q", tt.wantTitle, title)
			}
			if author != tt.wantAuthor {
				t.Errorf("Expected author %q, got %q", tt.wantAuthor, author)
			}
		})
	}
}

func TestGuessTitleAuthorDoesNotMutate(t *testing.T) {
	tokens := TokenSequence{"A", "B", "C", "D", "E", "F"}
	original := make(TokenSequence, len(tokens))
	copy(original, tokens)

	GuessTitleAuthor(tokens)

	if !reflect.DeepEqual(tokens, original) {
		t.Errorf("GuessTitleAuthor mutated its input: %v", tokens)
	}
}
