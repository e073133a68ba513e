package tmcache

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Backend is the translator being cached.
type Backend interface {
	Translate(ctx context.Context, texts []string, targetLang string) ([]string, error)
}

// Translator serves translations from the cache and forwards only misses to
// the backend. Cache failures are logged and treated as misses.
type Translator struct {
	cache   *Cache
	next    Backend
	service string
	model   string
	source  string
}

// Wrap returns a caching Translator over next. service and model partition
// the cache so switching services never reuses another service's output.
func Wrap(c *Cache, next Backend, service, model, sourceLang string) *Translator {
	return &Translator{cache: c, next: next, service: service, model: model, source: sourceLang}
}

func (t *Translator) key(text, target string) Key {
	return Key{Text: text, Source: t.source, Target: target, Service: t.service, Model: t.model}
}

// Translate implements the translator contract.
func (t *Translator) Translate(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	out := make([]string, len(texts))
	var missIdx []int
	var miss []string
	for i, text := range texts {
		tr, ok, err := t.cache.Get(ctx, t.key(text, targetLang))
		if err != nil {
			log.Warn().Err(err).Msg("translation memory lookup failed")
		}
		if ok {
			out[i] = tr
			continue
		}
		missIdx = append(missIdx, i)
		miss = append(miss, text)
	}
	log.Debug().Str("language", targetLang).Int("hits", len(texts)-len(miss)).Int("misses", len(miss)).Msg("translation memory")
	if len(miss) == 0 {
		return out, nil
	}

	res, err := t.next.Translate(ctx, miss, targetLang)
	if err != nil {
		return nil, err
	}
	if len(res) != len(miss) {
		return nil, fmt.Errorf("got %d translations for %d texts", len(res), len(miss))
	}
	for j, tr := range res {
		out[missIdx[j]] = tr
		if strings.TrimSpace(tr) == "" {
			continue
		}
		if err := t.cache.Put(ctx, t.key(miss[j], targetLang), tr); err != nil {
			log.Warn().Err(err).Msg("translation memory store failed")
		}
	}
	return out, nil
}
