package dictionary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
)

type fileLoader struct {
	wordsPath        string
	replacementsPath string
	logger           *logrus.Logger
}

func NewFileLoader(wordsPath, replacementsPath string, logger *logrus.Logger) Loader {
	return &fileLoader{
		wordsPath:        wordsPath,
		replacementsPath: replacementsPath,
		logger:           logger,
	}
}

// Load reads both files. A missing or unset file yields an empty collection
// and a warning.
func (l *fileLoader) Load(ctx context.Context) (*Dictionary, error) {
	dict := Empty()

	words, err := loadFile(l.wordsPath, ParseWords)
	switch {
	case err == nil:
		dict.Words = words
	case errors.Is(err, fs.ErrNotExist):
		l.logger.WithField("path", l.wordsPath).Warn("toxic words file not found, using empty set")
	default:
		return nil, fmt.Errorf("failed to load toxic words: %w", err)
	}

	replacements, err := loadFile(l.replacementsPath, ParseReplacements)
	switch {
	case err == nil:
		dict.Replacements = replacements
	case errors.Is(err, fs.ErrNotExist):
		l.logger.WithField("path", l.replacementsPath).Warn("replacements file not found, using empty mapping")
	default:
		return nil, fmt.Errorf("failed to load replacements: %w", err)
	}

	l.logger.WithFields(logrus.Fields{
		"words":        len(dict.Words),
		"replacements": len(dict.Replacements),
	}).Info("dictionaries loaded from files")
	return dict, nil
}

func loadFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	if path == "" {
		return zero, fs.ErrNotExist
	}
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	return parse(f)
}
