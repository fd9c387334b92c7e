package dictionary

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	DefaultWordsKey        = "detoxgate:dictionary:words"
	DefaultReplacementsKey = "detoxgate:dictionary:replacements"
)

type redisLoader struct {
	client          redis.Cmdable
	wordsKey        string
	replacementsKey string
	logger          *logrus.Logger
}

// NewRedisLoader reads words from a set (SMEMBERS) and replacements from a
// hash (HGETALL).
func NewRedisLoader(client redis.Cmdable, wordsKey, replacementsKey string, logger *logrus.Logger) Loader {
	if wordsKey == "" {
		wordsKey = DefaultWordsKey
	}
	if replacementsKey == "" {
		replacementsKey = DefaultReplacementsKey
	}
	return &redisLoader{
		client:          client,
		wordsKey:        wordsKey,
		replacementsKey: replacementsKey,
		logger:          logger,
	}
}

func (l *redisLoader) Load(ctx context.Context) (*Dictionary, error) {
	members, err := l.client.SMembers(ctx, l.wordsKey).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read toxic words from redis: %w", err)
	}
	hash, err := l.client.HGetAll(ctx, l.replacementsKey).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read replacements from redis: %w", err)
	}

	seen := map[string]struct{}{}
	for _, m := range members {
		if w := strings.ToLower(strings.TrimSpace(m)); w != "" {
			seen[w] = struct{}{}
		}
	}
	words := make([]string, 0, len(seen))
	for w := range seen {
		words = append(words, w)
	}
	sort.Strings(words)

	replacements := make(map[string]string, len(hash))
	for k, v := range hash {
		if w := strings.ToLower(strings.TrimSpace(k)); w != "" {
			replacements[w] = strings.TrimSpace(v)
		}
	}

	if len(words) == 0 && len(replacements) == 0 {
		l.logger.WithFields(logrus.Fields{
			"words_key":        l.wordsKey,
			"replacements_key": l.replacementsKey,
		}).Warn("redis dictionaries are empty")
	}
	return &Dictionary{Words: words, Replacements: replacements}, nil
}
