package fusion_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NeuralTrust/DetoxGate/pkg/analysis/contextual"
	"github.com/NeuralTrust/DetoxGate/pkg/analysis/fusion"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/classifier"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/classifier/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newEngine(client classifier.Client) *fusion.Engine {
	return fusion.New(fusion.DefaultConfig(), nil, nil, nil, client)
}

func TestFuse_EmptyInput(t *testing.T) {
	engine := newEngine(nil)

	for _, text := range []string{"", "   \n\t"} {
		res := engine.Fuse(context.Background(), text, []string{"idiot"})

		assert.False(t, res.Enhanced)
		assert.False(t, res.IsToxic)
		assert.Equal(t, 0.0, res.Confidence)
		assert.Empty(t, res.ToxicLabels)
		assert.NotNil(t, res.ToxicLabels)
		assert.Empty(t, res.ToxicWords)
		assert.NotNil(t, res.ToxicWords)
		assert.Nil(t, res.Sarcasm)
		assert.Nil(t, res.Contextual)
		assert.Equal(t, []string{fusion.NoteEmptyInput}, res.ProcessingNotes)
		assert.Len(t, res.ModelVersions, 4)
	}
}

func TestFuse_ClassifierUnavailable(t *testing.T) {
	client := new(mocks.MockClassifier)
	client.On("Classify", mock.Anything, mock.Anything).Return(nil, errors.New("model offline"))

	res := newEngine(client).Fuse(context.Background(), "you are wonderful", nil)

	require.True(t, res.Enhanced)
	assert.False(t, res.IsToxic)
	assert.False(t, res.Contextual.HasNonNeutral())
	assert.InDelta(t, 0.35*res.ContextToxicity, res.Confidence, 1e-9)
	assert.Contains(t, res.ProcessingNotes, "Classifier unavailable: model offline")
	assert.Empty(t, res.ToxicLabels)
	client.AssertNumberOfCalls(t, "Classify", 2)
}

func TestFuse_NoClassifier(t *testing.T) {
	res := newEngine(nil).Fuse(context.Background(), "you are wonderful", nil)

	assert.False(t, res.IsToxic)
	assert.NotContains(t, res.ProcessingNotes, fusion.NoteHiddenToxicity)
	assert.Equal(t, res.ContextToxicity, res.Scores[fusion.ScoreContextual])
	assert.Equal(t, res.Confidence, res.Scores[fusion.ScoreFinal])
}

func TestFuse_ClassifierLabelsComeFirst(t *testing.T) {
	client := new(mocks.MockClassifier)
	client.On("Classify", mock.Anything, mock.Anything).Return([]classifier.LabelScore{
		{Label: "toxic", Score: 0.95},
		{Label: "insult", Score: 0.75},
		{Label: "threat", Score: 0.2},
		{Label: "not toxic", Score: 0.9},
	}, nil)

	res := newEngine(client).Fuse(context.Background(), "You are an idiot", []string{"idiot", "IDIOT", "", "moron"})

	require.GreaterOrEqual(t, len(res.ToxicLabels), 2)
	assert.Equal(t, []string{"toxic", "insult"}, res.ToxicLabels[:2])
	assert.NotContains(t, res.ToxicLabels, "not toxic")
	assert.NotContains(t, res.ToxicLabels, "threat")
	assert.Equal(t, []string{"idiot", "IDIOT"}, res.ToxicWords)
	assert.True(t, res.IsToxic)
	assert.Equal(t, 0.95, res.Scores["toxic"])
	assert.Equal(t, 0.2, res.Scores["threat"])
	assert.Equal(t, 0.95, res.Features["classifier_toxic"])
	assert.GreaterOrEqual(t, res.Confidence, 0.4*0.95)
	assert.Contains(t, res.ProcessingNotes, "External classifier detected toxicity (confidence: 0.950)")
}

func TestFuse_NormalizationRevealsHiddenToxicity(t *testing.T) {
	original := "wtf r u doing???"
	normalized := "what the fuck are you doing??"

	client := new(mocks.MockClassifier)
	client.On("Classify", mock.Anything, original).Return([]classifier.LabelScore{{Label: "toxic", Score: 0.2}}, nil)
	client.On("Classify", mock.Anything, normalized).Return([]classifier.LabelScore{{Label: "toxic", Score: 0.9}}, nil)

	res := newEngine(client).Fuse(context.Background(), original, nil)

	assert.Equal(t, normalized, res.NormalizedText)
	assert.True(t, res.NormalizationApplied)
	assert.Contains(t, res.ProcessingNotes, fusion.NoteHiddenToxicity)
	assert.Contains(t, res.ProcessingNotes, fusion.NoteNormalizedBoost)
	assert.Contains(t, res.RiskFactors, fusion.RiskHiddenToxicity)
	assert.Equal(t, "toxic", res.ToxicLabels[0])
	assert.Equal(t, 0.9, res.Scores["toxic"])

	expected := 0.9*0.4 + res.ContextToxicity*0.35 + 0.2*0.1
	if res.IsSarcastic && res.SarcasmConfidence > 0.6 {
		expected += min(0.3, res.SarcasmConfidence*0.5) * 0.15
	}
	assert.InDelta(t, min(expected, 1.0), res.Confidence, 1e-9)
	assert.Equal(t, 1.0, res.Features[fusion.FeatureTextWasNormalized])
	assert.Equal(t, float64(len(normalized)-len(original)), res.Features[fusion.FeatureTextLengthChange])
	client.AssertExpectations(t)
}

func TestFuse_MarginNotExceeded(t *testing.T) {
	client := new(mocks.MockClassifier)
	client.On("Classify", mock.Anything, "wtf r u doing???").Return([]classifier.LabelScore{{Label: "toxic", Score: 0.75}}, nil)
	client.On("Classify", mock.Anything, mock.Anything).Return([]classifier.LabelScore{{Label: "toxic", Score: 0.8}}, nil)

	res := newEngine(client).Fuse(context.Background(), "wtf r u doing???", nil)

	assert.NotContains(t, res.ProcessingNotes, fusion.NoteHiddenToxicity)
	assert.Equal(t, 0.75, res.Scores["toxic"])
}

func TestFuse_SarcasticLabel(t *testing.T) {
	text := "Oh really? I love how you hate this. Just what I needed, a perfect disaster, terrible. Yeah right."

	res := newEngine(nil).Fuse(context.Background(), text, nil)

	require.Greater(t, res.SarcasmConfidence, 0.6)
	assert.True(t, res.IsSarcastic)
	assert.Contains(t, res.ToxicLabels, fusion.LabelSarcastic)
	assert.Equal(t, res.SarcasmConfidence, res.Scores[fusion.ScoreSarcasm])
	assert.Contains(t, res.RiskFactors[len(res.RiskFactors)-1], "Sarcasm detected (confidence: ")
	assert.Equal(t, 1.0, res.Features[fusion.FeatureIsSarcastic])

	adjustment := min(0.3, res.SarcasmConfidence*0.5)
	assert.InDelta(t, res.ContextToxicity*0.35+adjustment*0.15, res.Confidence, 1e-9)
}

func TestFuse_ContextualLabelTrigger(t *testing.T) {
	text := "I will kill you in the game tomorrow."

	on := newEngine(nil).Fuse(context.Background(), text, nil)
	require.True(t, on.Contextual.HasNonNeutral())
	assert.True(t, on.IsToxic)
	for _, tok := range on.Contextual.SequenceLabels {
		if tok.Label != contextual.Neutral {
			assert.Contains(t, on.ToxicLabels, string(tok.Label))
		}
	}

	cfg := fusion.DefaultConfig()
	cfg.ContextualLabelTrigger = false
	off := fusion.New(cfg, nil, nil, nil, nil).Fuse(context.Background(), text, nil)
	assert.False(t, off.IsToxic)
	assert.Equal(t, on.Confidence, off.Confidence)
}

func TestFuse_Invariants(t *testing.T) {
	client := new(mocks.MockClassifier)
	client.On("Classify", mock.Anything, mock.Anything).Return([]classifier.LabelScore{
		{Label: "toxic", Score: 1.7},
		{Label: "toxic", Score: 0.8},
	}, nil)
	engine := newEngine(client)

	inputs := []string{
		"YOU ARE SO STUPID!!! I HATE YOU!!!",
		"shut up or else i will kill you, you fucking idiot",
		"lol jk ur gr8 😂",
		"Oh really? How wonderful for you.",
	}
	for _, text := range inputs {
		t.Run(text, func(t *testing.T) {
			res := engine.Fuse(context.Background(), text, []string{"idiot", "idiot", "stupid"})

			assert.GreaterOrEqual(t, res.Confidence, 0.0)
			assert.LessOrEqual(t, res.Confidence, 1.0)
			for label, score := range res.Scores {
				assert.GreaterOrEqual(t, score, 0.0, label)
				assert.LessOrEqual(t, score, 1.0, label)
			}
			assertUnique(t, res.ToxicLabels)
			assertUnique(t, res.ToxicWords)

			again := engine.Fuse(context.Background(), text, []string{"idiot", "idiot", "stupid"})
			assert.Equal(t, res, again)
		})
	}
}

func assertUnique(t *testing.T, items []string) {
	t.Helper()
	seen := map[string]bool{}
	for _, item := range items {
		assert.False(t, seen[item], "duplicate entry %q", item)
		seen[item] = true
	}
}
