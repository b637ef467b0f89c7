package question

// Question is the normalized multiple-choice payload dealt to players.
type Question struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	Category     string   `json:"category"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Source       string   `json:"source"`
}

// Candidate is a pool entry before per-game assembly. Option order and the
// correct index are decided per seed at assembly time, never in the pool.
type Candidate struct {
	ID        string   `json:"id,omitempty"`
	Text      string   `json:"text"`
	Category  string   `json:"category"`
	Incorrect []string `json:"incorrect"`
	Correct   string   `json:"correct"`
	Source    string   `json:"source"`
}

// PackRequest asks for a player's full question sequence. The seed fixes the
// option shuffle, so rebuilding the same request yields the same pack.
type PackRequest struct {
	Count int    `json:"count"`
	Seed  string `json:"seed"`
}

// PackResponse is a built sequence plus the seed that shuffled it.
type PackResponse struct {
	Questions []Question `json:"questions"`
	Seed      string     `json:"seed"`
	ExpiresAt int64      `json:"expires_at"`
}
