package request

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrTextRequired     = errors.New("text is required")
	ErrTextTooLong      = errors.New("text is too long")
	ErrQuestionRequired = errors.New("question is required")
)

type TextRequest struct {
	Text        string   `json:"text"`
	CustomWords []string `json:"custom_toxic_words,omitempty"`
}

// Validate only rejects oversized payloads; empty text is a valid request
// that yields an empty analysis.
func (r *TextRequest) Validate(maxRunes int) error {
	if maxRunes > 0 && utf8.RuneCountInString(r.Text) > maxRunes {
		return fmt.Errorf("%w: limit is %d characters", ErrTextTooLong, maxRunes)
	}
	return nil
}

// Words returns the custom words trimmed and lowercased, without blanks.
func (r *TextRequest) Words() []string {
	out := make([]string, 0, len(r.CustomWords))
	for _, w := range r.CustomWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

type AskRequest struct {
	Question string `json:"question"`
}

func (r *AskRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return ErrQuestionRequired
	}
	return nil
}
