package dictionary_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/dictionary"
	"github.com/go-redis/redismock/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestParseWords(t *testing.T) {
	words, err := dictionary.ParseWords(strings.NewReader("Idiot\n\n  moron \nidiot\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"idiot", "moron"}, words)
}

func TestParseReplacements(t *testing.T) {
	input := "idiot,silly person\nIDIOT ,silly person\nno comma here\nfool,a person, who errs\n,empty\n"

	replacements, err := dictionary.ParseReplacements(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"idiot": "silly person",
		"fool":  "a person, who errs",
	}, replacements)
}

func TestDictionary_Merge(t *testing.T) {
	d := &dictionary.Dictionary{
		Words:        []string{"moron"},
		Replacements: map[string]string{"idiot": "silly person", "moron": "person"},
	}
	assert.Equal(t, []string{"idiot", "moron"}, d.Merge().Words)
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	wordsPath := filepath.Join(dir, "toxic_words.txt")
	replacementsPath := filepath.Join(dir, "replacements.txt")
	require.NoError(t, os.WriteFile(wordsPath, []byte("idiot\nstupid\n"), 0o600))
	require.NoError(t, os.WriteFile(replacementsPath, []byte("idiot,silly person\n"), 0o600))

	t.Run("both files", func(t *testing.T) {
		dict, err := dictionary.NewFileLoader(wordsPath, replacementsPath, newLogger()).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"idiot", "stupid"}, dict.Words)
		assert.Equal(t, "silly person", dict.Replacements["idiot"])
	})

	t.Run("missing files are empty", func(t *testing.T) {
		dict, err := dictionary.NewFileLoader(filepath.Join(dir, "nope"), "", newLogger()).Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, dict.Words)
		assert.NotNil(t, dict.Words)
		assert.Empty(t, dict.Replacements)
		assert.NotNil(t, dict.Replacements)
	})
}

func TestRedisLoader(t *testing.T) {
	t.Run("set and hash", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectSMembers("words").SetVal([]string{"Moron", "idiot", " "})
		mock.ExpectHGetAll("replacements").SetVal(map[string]string{"Idiot": " silly person "})

		dict, err := dictionary.NewRedisLoader(client, "words", "replacements", newLogger()).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"idiot", "moron"}, dict.Words)
		assert.Equal(t, map[string]string{"idiot": "silly person"}, dict.Replacements)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("default keys", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectSMembers(dictionary.DefaultWordsKey).SetVal([]string{})
		mock.ExpectHGetAll(dictionary.DefaultReplacementsKey).SetVal(map[string]string{})

		dict, err := dictionary.NewRedisLoader(client, "", "", newLogger()).Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, dict.Words)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis failure", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectSMembers("words").SetErr(errors.New("connection refused"))

		_, err := dictionary.NewRedisLoader(client, "words", "r", newLogger()).Load(context.Background())
		assert.Error(t, err)
	})
}

func TestNewLoader(t *testing.T) {
	client, _ := redismock.NewClientMock()

	_, err := dictionary.NewLoader(dictionary.Settings{Source: "file"}, nil, newLogger())
	assert.NoError(t, err)

	_, err = dictionary.NewLoader(dictionary.Settings{Source: "redis"}, client, newLogger())
	assert.NoError(t, err)

	_, err = dictionary.NewLoader(dictionary.Settings{Source: "redis"}, nil, newLogger())
	assert.ErrorIs(t, err, dictionary.ErrUnknownSource)

	_, err = dictionary.NewLoader(dictionary.Settings{Source: "s3"}, nil, newLogger())
	assert.ErrorIs(t, err, dictionary.ErrUnknownSource)
}
