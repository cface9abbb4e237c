// Package seed generates demo translations for local databases and load tests.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"transcatalog/internal/logger"
	"transcatalog/internal/model"
)

const (
	DefaultCount     = 100000
	DefaultBatchSize = 1000

	// keys are drawn without repetition from key_1..key_<keySpace>.
	keySpace = 200000
)

var (
	Locales = []string{"en", "fr", "es"}
	Tags    = []string{"web", "mobile", "desktop"}

	words = strings.Fields(`lorem ipsum dolor sit amet consectetur adipiscing elit sed do
eiusmod tempor incididunt ut labore et dolore magna aliqua enim ad minim veniam quis
nostrud exercitation ullamco laboris nisi aliquip ex ea commodo consequat duis aute irure
in reprehenderit voluptate velit esse cillum fugiat nulla pariatur excepteur sint occaecat`)
)

// BatchCreator is the repository method the seeder writes through.
type BatchCreator interface {
	CreateBatch(ctx context.Context, items []model.Translation) (int, error)
}

type Config struct {
	Count     int
	BatchSize int
	// Seed makes runs reproducible; zero picks a time based seed.
	Seed uint64
}

// Generator produces translations with unique keys.
type Generator struct {
	rng  *rand.Rand
	keys []int
	next int
}

func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return &Generator{rng: rng, keys: rng.Perm(keySpace)}
}

// Next returns the next translation, or false when the key space is used up.
func (g *Generator) Next() (model.Translation, bool) {
	if g.next >= len(g.keys) {
		return model.Translation{}, false
	}
	key := fmt.Sprintf("key_%d", g.keys[g.next]+1)
	g.next++

	tag := Tags[g.rng.IntN(len(Tags))]
	return model.Translation{
		Key:     key,
		Locale:  Locales[g.rng.IntN(len(Locales))],
		Content: g.sentence(),
		Tag:     &tag,
	}, true
}

func (g *Generator) sentence() string {
	n := 4 + g.rng.IntN(6)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[g.rng.IntN(len(words))]
	}
	s := strings.Join(parts, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

// Run inserts cfg.Count translations in batches and returns how many were written.
func Run(ctx context.Context, repo BatchCreator, cfg Config) (int, error) {
	if cfg.Count <= 0 {
		cfg.Count = DefaultCount
	}
	if cfg.Count > keySpace {
		return 0, fmt.Errorf("count %d exceeds the %d available keys", cfg.Count, keySpace)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	gen := NewGenerator(cfg.Seed)
	start := time.Now()
	written := 0
	batch := make([]model.Translation, 0, cfg.BatchSize)

	for written < cfg.Count {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		batch = batch[:0]
		for len(batch) < cfg.BatchSize && written+len(batch) < cfg.Count {
			t, ok := gen.Next()
			if !ok {
				break
			}
			batch = append(batch, t)
		}

		n, err := repo.CreateBatch(ctx, batch)
		if err != nil {
			return written, fmt.Errorf("seed batch at %d: %w", written, err)
		}
		written += n
		logger.Debug("seed batch written", "module", "seed", "action", "create", "resource", "translation", "result", "ok", "written", written)
	}

	logger.Info("seed completed", "module", "seed", "action", "create", "resource", "translation", "result", "ok",
		"count", written, "duration_ms", time.Since(start).Milliseconds())
	return written, nil
}
