package rewrite

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/NeuralTrust/DetoxGate/pkg/analysis/textutil"
	"github.com/NeuralTrust/DetoxGate/pkg/common"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/providers"
	"github.com/sirupsen/logrus"
)

const (
	StrategyDictionary = "dictionary"
	StrategyGenerator  = "generator"
	StrategyFallback   = "fallback"

	minGeneratedRunes = 3
)

type Result struct {
	Text     string   `json:"text"`
	Strategy string   `json:"strategy"`
	Replaced []string `json:"replaced,omitempty"`
}

//go:generate mockery --name=Rewriter --dir=. --output=./mocks --filename=rewriter_mock.go --case=underscore --with-expecter
type Rewriter interface {
	Rewrite(ctx context.Context, text string) Result
}

// GeneratorConfig is passed unchanged to every generator call.
type GeneratorConfig = providers.Config

type replacement struct {
	word string
	with string
}

type rewriter struct {
	logger       *logrus.Logger
	replacements []replacement
	generator    providers.Client
	genConfig    *GeneratorConfig
	fallback     string
}

// NewRewriter matches dictionary entries as whole words, case-insensitively.
// Where entries overlap the longer one wins. A nil generator skips straight
// from the dictionary to the fallback message.
func NewRewriter(
	logger *logrus.Logger,
	dictionary map[string]string,
	generator providers.Client,
	genConfig *GeneratorConfig,
	fallback string,
) Rewriter {
	if fallback == "" {
		fallback = common.DefaultFallbackMessage
	}
	if genConfig == nil {
		genConfig = &GeneratorConfig{Sampling: providers.DefaultSampling()}
	}
	return &rewriter{
		logger:       logger,
		replacements: compile(dictionary),
		generator:    generator,
		genConfig:    genConfig,
		fallback:     fallback,
	}
}

func compile(dictionary map[string]string) []replacement {
	out := make([]replacement, 0, len(dictionary))
	for word, with := range dictionary {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		out = append(out, replacement{word: word, with: with})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].word) != len(out[j].word) {
			return len(out[i].word) > len(out[j].word)
		}
		return out[i].word < out[j].word
	})
	return out
}

func (r *rewriter) Rewrite(ctx context.Context, text string) Result {
	if rewritten, replaced := r.substitute(text); !strings.EqualFold(rewritten, text) {
		return Result{Text: rewritten, Strategy: StrategyDictionary, Replaced: replaced}
	}

	if generated, ok := r.generate(ctx, text); ok {
		return Result{Text: generated, Strategy: StrategyGenerator}
	}
	return Result{Text: r.fallback, Strategy: StrategyFallback}
}

// substitute scans the input once. Replacement text is emitted as is and
// never matched again.
func (r *rewriter) substitute(text string) (string, []string) {
	var (
		b        strings.Builder
		replaced []string
		seen     = map[string]struct{}{}
		last     int
	)
	for i := 0; i < len(text); {
		rep, end, ok := r.matchAt(text, i)
		if !ok {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
			continue
		}
		b.WriteString(text[last:i])
		b.WriteString(rep.with)
		if _, dup := seen[rep.word]; !dup {
			seen[rep.word] = struct{}{}
			replaced = append(replaced, rep.word)
		}
		last, i = end, end
	}
	if len(replaced) == 0 {
		return text, nil
	}
	b.WriteString(text[last:])
	return b.String(), replaced
}

func (r *rewriter) matchAt(text string, i int) (replacement, int, bool) {
	for _, rep := range r.replacements {
		end := i + len(rep.word)
		if end > len(text) || !strings.EqualFold(text[i:end], rep.word) {
			continue
		}
		if atBoundary(text, i, rep.word, end) {
			return rep, end, true
		}
	}
	return replacement{}, 0, false
}

// atBoundary reports whether text[start:end] sits on word boundaries. A
// boundary exists where a word rune meets a non-word rune or the text edge,
// with letters and digits of every script counted as word runes.
func atBoundary(text string, start int, word string, end int) bool {
	first, _ := utf8.DecodeRuneInString(word)
	lastRune, _ := utf8.DecodeLastRuneInString(word)

	before := false
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		before = textutil.IsWordRune(r)
	}
	after := false
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		after = textutil.IsWordRune(r)
	}
	return before != textutil.IsWordRune(first) && after != textutil.IsWordRune(lastRune)
}

func (r *rewriter) generate(ctx context.Context, text string) (string, bool) {
	if r.generator == nil {
		return "", false
	}
	resp, err := r.generator.Generate(ctx, r.genConfig, text)
	if err != nil {
		r.logger.WithError(err).Warn("generator rewrite failed, using fallback")
		return "", false
	}
	out := strings.TrimSpace(resp.Response)
	if strings.EqualFold(out, strings.TrimSpace(text)) || utf8.RuneCountInString(out) <= minGeneratedRunes {
		r.logger.WithField("length", utf8.RuneCountInString(out)).Debug("generator output rejected")
		return "", false
	}
	return out, true
}
