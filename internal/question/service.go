package question

import (
	"context"
	"fmt"
	"hash/fnv"
	"html"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/quizplanet/quiz-planet/internal/db/repository"
	"github.com/quizplanet/quiz-planet/internal/question/external"
)

// Store is the curated-pool behavior required from the repository.
type Store interface {
	FetchRandom(ctx context.Context, limit int) ([]repository.QuestionRow, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// PackCache shares the candidate pool across games (implemented by the
// Redis-backed Cache). Packs themselves are per-seed and never cached; the
// pool is what offloads the DB and the external API.
type PackCache interface {
	GetPool(ctx context.Context, count int) ([]Candidate, error)
	SetPool(ctx context.Context, count int, pool []Candidate) error
}

type fallbackProvider interface {
	Fetch(ctx context.Context, amount int, qType string) ([]external.OpenTDBQuestion, error)
}

var defaultCategories = []string{
	"Entertainment",
	"General Knowledge",
	"Geography",
	"History",
	"Science",
	"Sports",
}

// Service builds question packs, respecting the priority: curated DB ->
// external API.
type Service struct {
	store    Store
	cache    PackCache
	fallback fallbackProvider
}

// NewService creates the pack builder. Cache and fallback may be nil.
func NewService(store Store, cache PackCache, fallback fallbackProvider) *Service {
	return &Service{
		store:    store,
		cache:    cache,
		fallback: fallback,
	}
}

// BuildPack returns a question sequence for one game. The candidate pool is
// shared; the per-game seed decides question order and option placement.
func (s *Service) BuildPack(ctx context.Context, req PackRequest) (PackResponse, error) {
	if req.Count <= 0 {
		return PackResponse{}, fmt.Errorf("invalid pack size %d", req.Count)
	}

	pool, err := s.candidatePool(ctx, req.Count)
	if err != nil {
		return PackResponse{}, err
	}
	if len(pool) < req.Count {
		return PackResponse{}, fmt.Errorf("insufficient questions: need %d got %d", req.Count, len(pool))
	}

	rng := rand.New(rand.NewSource(seedFrom(req.Seed)))
	shuffled := make([]Candidate, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	questions := make([]Question, req.Count)
	for i, c := range shuffled[:req.Count] {
		questions[i] = assemble(c, rng)
	}

	return PackResponse{
		Questions: questions,
		Seed:      req.Seed,
		ExpiresAt: time.Now().Add(10 * time.Minute).Unix(),
	}, nil
}

// Categories lists curated category labels, falling back to the static set
// while the pool is empty.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	if s.store != nil {
		categories, err := s.store.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		if len(categories) > 0 {
			return categories, nil
		}
	}
	return defaultCategories, nil
}

// candidatePool prefers the shared cache, then the curated pool, then the
// external fallback. A pool that covers count is written back to the cache.
func (s *Service) candidatePool(ctx context.Context, count int) ([]Candidate, error) {
	if s.cache != nil {
		if pool, err := s.cache.GetPool(ctx, count); err == nil && len(pool) >= count {
			return pool, nil
		}
	}

	var pool []Candidate
	if s.store != nil {
		rows, err := s.store.FetchRandom(ctx, count)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			pool = append(pool, Candidate{
				ID:        row.ID.String(),
				Text:      row.Prompt,
				Category:  row.Category,
				Incorrect: row.IncorrectOptions,
				Correct:   row.CorrectAnswer,
				Source:    "curated",
			})
		}
	}

	if len(pool) < count && s.fallback != nil {
		if fetched, err := s.fallback.Fetch(ctx, count-len(pool), "multiple"); err == nil {
			for _, q := range fetched {
				pool = append(pool, candidateFromOpenTDB(q))
				if len(pool) >= count {
					break
				}
			}
		}
	}

	if s.cache != nil && len(pool) >= count {
		_ = s.cache.SetPool(ctx, count, pool)
	}
	return pool, nil
}

func candidateFromOpenTDB(q external.OpenTDBQuestion) Candidate {
	incorrect := make([]string, len(q.IncorrectAnswers))
	for i, a := range q.IncorrectAnswers {
		incorrect[i] = html.UnescapeString(a)
	}
	return Candidate{
		Text:      html.UnescapeString(q.Question),
		Category:  html.UnescapeString(q.Category),
		Incorrect: incorrect,
		Correct:   html.UnescapeString(q.CorrectAnswer),
		Source:    "opentdb",
	}
}

func assemble(c Candidate, rng *rand.Rand) Question {
	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}
	options, correct := shuffleOptions(c.Incorrect, c.Correct, rng)
	return Question{
		ID:           id,
		Text:         c.Text,
		Category:     c.Category,
		Options:      options,
		CorrectIndex: correct,
		Source:       c.Source,
	}
}

// shuffleOptions deals the correct answer into a random position, tracking
// its index through the swaps: duplicate option text must not be able to
// misplace it.
func shuffleOptions(incorrect []string, correct string, rng *rand.Rand) ([]string, int) {
	options := append(append([]string{}, incorrect...), correct)
	correctIdx := len(options) - 1
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
		switch correctIdx {
		case i:
			correctIdx = j
		case j:
			correctIdx = i
		}
	})
	return options, correctIdx
}

func seedFrom(seed string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return int64(h.Sum64())
}
