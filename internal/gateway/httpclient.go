package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a remote scoring backend over its REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a REST gateway client. baseURL points at the backend
// root, without a trailing slash.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) StartNewGame(ctx context.Context, playerName string) error {
	body, _ := json.Marshal(map[string]string{"name": playerName})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/games", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		return nil
	}
	if resp.StatusCode == http.StatusConflict {
		return fmt.Errorf("%s: %w", playerName, ErrUsernameTaken)
	}
	return c.errorFrom(resp, "start game")
}

func (c *Client) CheckUsernameAvailable(ctx context.Context, username string) (bool, error) {
	var out struct {
		Available bool `json:"available"`
	}
	query := url.Values{"name": []string{username}}
	if err := c.getJSON(ctx, "/v1/names/availability?"+query.Encode(), &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

func (c *Client) GetQuestion(ctx context.Context, playerName string) (Question, error) {
	var out Question
	if err := c.getJSON(ctx, "/v1/players/"+url.PathEscape(playerName)+"/question", &out); err != nil {
		return Question{}, err
	}
	return out, nil
}

func (c *Client) AnswerQuestion(ctx context.Context, playerName string, optionIndex int) (bool, error) {
	body, _ := json.Marshal(map[string]int{"option_index": optionIndex})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/players/"+url.PathEscape(playerName)+"/answers", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("submit answer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, c.errorFrom(resp, "submit answer")
	}

	var out struct {
		Correct bool `json:"correct"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode answer response: %w", err)
	}
	return out.Correct, nil
}

func (c *Client) AbandonGame(ctx context.Context, playerName string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/v1/players/"+url.PathEscape(playerName), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("abandon game: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.errorFrom(resp, "abandon game")
	}
	return nil
}

func (c *Client) GetPlayerScore(ctx context.Context, playerName string) (int, error) {
	var out struct {
		Score int `json:"score"`
	}
	if err := c.getJSON(ctx, "/v1/players/"+url.PathEscape(playerName)+"/score", &out); err != nil {
		return 0, err
	}
	return out.Score, nil
}

func (c *Client) IsGameFinished(ctx context.Context, playerName string) (bool, error) {
	var out struct {
		Finished bool `json:"finished"`
	}
	if err := c.getJSON(ctx, "/v1/players/"+url.PathEscape(playerName)+"/finished", &out); err != nil {
		return false, err
	}
	return out.Finished, nil
}

func (c *Client) HighScores(ctx context.Context) ([]HighScore, error) {
	var out struct {
		Top []HighScore `json:"top"`
	}
	if err := c.getJSON(ctx, "/v1/leaderboard", &out); err != nil {
		return nil, err
	}
	return out.Top, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	if err := c.getJSON(ctx, "/v1/categories", &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.errorFrom(resp, "GET "+path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) errorFrom(resp *http.Response, op string) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr apiError
	if json.Unmarshal(data, &apiErr) == nil && apiErr.Code != "" {
		return fmt.Errorf("%s: %s (%s)", op, apiErr.Message, apiErr.Code)
	}
	return fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
}
