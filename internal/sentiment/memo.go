package sentiment

import "sync"

// Memo caches the scores of a wrapped Scorer for the lifetime of the process.
type Memo struct {
	next Scorer

	mu     sync.RWMutex
	scores map[string]float64
}

func NewMemo(next Scorer) *Memo {
	return &Memo{
		next:   next,
		scores: make(map[string]float64),
	}
}

func (m *Memo) Polarity(text string) float64 {
	m.mu.RLock()
	p, ok := m.scores[text]
	m.mu.RUnlock()
	if ok {
		return p
	}

	p = m.next.Polarity(text)

	m.mu.Lock()
	// keep the first score if another goroutine got there first
	if prev, exists := m.scores[text]; exists {
		p = prev
	} else {
		m.scores[text] = p
	}
	m.mu.Unlock()
	return p
}

// Seed records an externally computed score, e.g. one read back from the
// polarity cache. An existing score for text is not overwritten.
func (m *Memo) Seed(text string, polarity float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.scores[text]; !exists {
		m.scores[text] = clamp(polarity)
	}
}

// Known reports whether text already has a score.
func (m *Memo) Known(text string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.scores[text]
	return ok
}

func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.scores)
}
