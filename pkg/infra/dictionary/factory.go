package dictionary

import (
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

var ErrUnknownSource = errors.New("unknown dictionary source")

type Settings struct {
	Source           string `mapstructure:"source"`
	WordsPath        string `mapstructure:"words_path"`
	ReplacementsPath string `mapstructure:"replacements_path"`
	WordsKey         string `mapstructure:"words_key"`
	ReplacementsKey  string `mapstructure:"replacements_key"`
}

// NewLoader picks the loader for the configured source. The redis client is
// only required for the redis source.
func NewLoader(settings Settings, client redis.Cmdable, logger *logrus.Logger) (Loader, error) {
	switch settings.Source {
	case "", SourceFile:
		return NewFileLoader(settings.WordsPath, settings.ReplacementsPath, logger), nil
	case SourceRedis:
		if client == nil {
			return nil, fmt.Errorf("%w: redis source requires a redis client", ErrUnknownSource)
		}
		return NewRedisLoader(client, settings.WordsKey, settings.ReplacementsKey, logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, settings.Source)
	}
}
