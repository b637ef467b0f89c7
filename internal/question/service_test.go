package question

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizplanet/quiz-planet/internal/db/repository"
	"github.com/quizplanet/quiz-planet/internal/question/external"
)

type stubStore struct {
	rows       []repository.QuestionRow
	categories []string
	err        error
	fetchCalls int
}

func (s *stubStore) FetchRandom(_ context.Context, limit int) ([]repository.QuestionRow, error) {
	s.fetchCalls++
	if s.err != nil {
		return nil, s.err
	}
	if limit > len(s.rows) {
		limit = len(s.rows)
	}
	return s.rows[:limit], nil
}

func (s *stubStore) ListCategories(_ context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.categories, nil
}

type stubProvider struct {
	questions []external.OpenTDBQuestion
	err       error
}

func (s *stubProvider) Fetch(_ context.Context, amount int, _ string) ([]external.OpenTDBQuestion, error) {
	if s.err != nil {
		return nil, s.err
	}
	if amount > len(s.questions) {
		amount = len(s.questions)
	}
	return s.questions[:amount], nil
}

type memoryCache struct {
	pools map[int][]Candidate
}

func newMemoryCache() *memoryCache {
	return &memoryCache{pools: map[int][]Candidate{}}
}

func (c *memoryCache) GetPool(_ context.Context, count int) ([]Candidate, error) {
	return c.pools[count], nil
}

func (c *memoryCache) SetPool(_ context.Context, count int, pool []Candidate) error {
	c.pools[count] = pool
	return nil
}

func curatedRow(prompt string) repository.QuestionRow {
	return repository.QuestionRow{
		ID:               uuid.New(),
		Prompt:           prompt,
		Category:         "Science",
		IncorrectOptions: []string{"wrong a", "wrong b", "wrong c"},
		CorrectAnswer:    "right",
	}
}

func TestBuildPackFromCuratedPool(t *testing.T) {
	store := &stubStore{rows: []repository.QuestionRow{
		curatedRow("q1"), curatedRow("q2"), curatedRow("q3"),
	}}
	svc := NewService(store, nil, nil)

	resp, err := svc.BuildPack(context.Background(), PackRequest{Count: 3, Seed: "seed-1"})
	require.NoError(t, err)
	require.Len(t, resp.Questions, 3)

	for _, q := range resp.Questions {
		assert.Len(t, q.Options, 4)
		assert.Equal(t, "right", q.Options[q.CorrectIndex])
		assert.Equal(t, "curated", q.Source)
	}
}

func TestBuildPackShuffleIsSeeded(t *testing.T) {
	rows := []repository.QuestionRow{curatedRow("q1"), curatedRow("q2")}
	req := PackRequest{Count: 2, Seed: "fixed-seed"}

	first, err := NewService(&stubStore{rows: rows}, nil, nil).BuildPack(context.Background(), req)
	require.NoError(t, err)
	second, err := NewService(&stubStore{rows: rows}, nil, nil).BuildPack(context.Background(), req)
	require.NoError(t, err)

	for i := range first.Questions {
		assert.Equal(t, first.Questions[i].Options, second.Questions[i].Options)
		assert.Equal(t, first.Questions[i].CorrectIndex, second.Questions[i].CorrectIndex)
	}
}

func TestBuildPackTopsUpFromFallback(t *testing.T) {
	store := &stubStore{rows: []repository.QuestionRow{curatedRow("q1")}}
	provider := &stubProvider{questions: []external.OpenTDBQuestion{
		{
			Category:         "Entertainment",
			Question:         "What is &quot;big&quot;?",
			CorrectAnswer:    "large",
			IncorrectAnswers: []string{"small", "tiny", "modest"},
		},
	}}
	svc := NewService(store, nil, provider)

	resp, err := svc.BuildPack(context.Background(), PackRequest{Count: 2, Seed: "s"})
	require.NoError(t, err)
	require.Len(t, resp.Questions, 2)

	var ext Question
	for _, q := range resp.Questions {
		if q.Source == "opentdb" {
			ext = q
		}
	}
	require.Equal(t, "opentdb", ext.Source)
	assert.Equal(t, `What is "big"?`, ext.Text, "HTML entities are unescaped")
	assert.Equal(t, "large", ext.Options[ext.CorrectIndex])
}

func TestBuildPackInsufficientQuestions(t *testing.T) {
	store := &stubStore{rows: []repository.QuestionRow{curatedRow("q1")}}
	svc := NewService(store, nil, &stubProvider{err: errors.New("api down")})

	_, err := svc.BuildPack(context.Background(), PackRequest{Count: 5, Seed: "s"})
	assert.ErrorContains(t, err, "insufficient questions")
}

func TestBuildPackPoolCacheSharedAcrossSeeds(t *testing.T) {
	store := &stubStore{rows: []repository.QuestionRow{curatedRow("q1")}}
	cache := newMemoryCache()
	svc := NewService(store, cache, nil)

	_, err := svc.BuildPack(context.Background(), PackRequest{Count: 1, Seed: "alice-1700000000"})
	require.NoError(t, err)
	_, err = svc.BuildPack(context.Background(), PackRequest{Count: 1, Seed: "bob-1700000042"})
	require.NoError(t, err)

	assert.Equal(t, 1, store.fetchCalls, "second game with a fresh seed reuses the pool")
}

func TestShuffleOptionsTracksDuplicateText(t *testing.T) {
	seen := map[int]bool{}
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		options, idx := shuffleOptions([]string{"Paris", "Paris", "Paris"}, "Paris", rng)
		require.Len(t, options, 4)
		for _, opt := range options {
			assert.Equal(t, "Paris", opt)
		}
		seen[idx] = true
	}
	assert.GreaterOrEqual(t, len(seen), 2, "correct index follows the shuffled position")
}

func TestCategoriesFallsBackToDefaults(t *testing.T) {
	svc := NewService(&stubStore{}, nil, nil)

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Contains(t, categories, "Science")
	assert.Contains(t, categories, "Sports")
}

func TestCategoriesPrefersCuratedLabels(t *testing.T) {
	svc := NewService(&stubStore{categories: []string{"Movies", "Music"}}, nil, nil)

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Movies", "Music"}, categories)
}
