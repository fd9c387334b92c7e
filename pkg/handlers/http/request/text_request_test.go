package request_test

import (
	"strings"
	"testing"

	"github.com/NeuralTrust/DetoxGate/pkg/handlers/http/request"
	"github.com/stretchr/testify/assert"
)

func TestTextRequest_Validate(t *testing.T) {
	assert.NoError(t, (&request.TextRequest{}).Validate(10))
	assert.NoError(t, (&request.TextRequest{Text: "héllo"}).Validate(5))
	assert.ErrorIs(t, (&request.TextRequest{Text: strings.Repeat("a", 11)}).Validate(10), request.ErrTextTooLong)
	assert.NoError(t, (&request.TextRequest{Text: strings.Repeat("a", 11)}).Validate(0))
}

func TestTextRequest_Words(t *testing.T) {
	r := request.TextRequest{CustomWords: []string{" Potato ", "", "  ", "IDIOT"}}
	assert.Equal(t, []string{"potato", "idiot"}, r.Words())
}

func TestAskRequest_Validate(t *testing.T) {
	assert.ErrorIs(t, (&request.AskRequest{Question: "  "}).Validate(), request.ErrQuestionRequired)
	assert.NoError(t, (&request.AskRequest{Question: "what model?"}).Validate())
}
