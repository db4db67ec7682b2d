package generator

import (
    "fmt"
    "sync"
    "time"

    "github.com/alovak/cardgen-playground/generator/models"
    "github.com/alovak/cardgen-playground/internal/cardgen"
    "github.com/google/uuid"
)

var ErrNotFound = fmt.Errorf("not found")

const binLen = 6

// Session accumulates saved records for one caller. It lives only in memory
// and is owned by whoever created it.
type Session struct {
    ID        string
    CreatedAt time.Time

    mu      sync.RWMutex
    cards   []*models.SavedCard
    uniqIdx map[string]struct{}
    hashKey []byte
}

func NewSession(id string, hashKey []byte, now time.Time) *Session {
    return &Session{
        ID:        id,
        CreatedAt: now,
        uniqIdx:   make(map[string]struct{}),
        hashKey:   hashKey,
    }
}

// Save appends records stamped with at and returns the stored copies.
func (s *Session) Save(records []models.Record, at time.Time) []*models.SavedCard {
    s.mu.Lock()
    defer s.mu.Unlock()
    saved := make([]*models.SavedCard, 0, len(records))
    for _, r := range records {
        card := &models.SavedCard{
            ID:      uuid.New().String(),
            Record:  r,
            Line:    r.Line(),
            SavedAt: at,
        }
        s.cards = append(s.cards, card)
        s.uniqIdx[cardgen.Fingerprint(r.Number, s.hashKey)] = struct{}{}
        saved = append(saved, card)
    }
    return saved
}

// List returns the most recent limit cards, oldest first. limit <= 0 returns all.
func (s *Session) List(limit int) []*models.SavedCard {
    s.mu.RLock()
    defer s.mu.RUnlock()
    start := 0
    if limit > 0 && len(s.cards) > limit {
        start = len(s.cards) - limit
    }
    out := make([]*models.SavedCard, len(s.cards)-start)
    copy(out, s.cards[start:])
    return out
}

func (s *Session) All() []*models.SavedCard { return s.List(0) }

func (s *Session) Records() []models.Record {
    cards := s.All()
    out := make([]models.Record, len(cards))
    for i, c := range cards {
        out[i] = c.Record
    }
    return out
}

func (s *Session) Len() int {
    s.mu.RLock()
    defer s.mu.RUnlock()
    return len(s.cards)
}

func (s *Session) Clear() {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.cards = nil
    s.uniqIdx = make(map[string]struct{})
}

// Stats reports totals and the most frequent 6-digit BIN; ties go to the BIN seen first.
func (s *Session) Stats() models.Stats {
    s.mu.RLock()
    defer s.mu.RUnlock()
    st := models.Stats{Total: len(s.cards), Unique: len(s.uniqIdx)}
    counts := make(map[string]int)
    var order []string
    for _, c := range s.cards {
        bin := c.Record.Number
        if len(bin) > binLen {
            bin = bin[:binLen]
        }
        if counts[bin] == 0 {
            order = append(order, bin)
        }
        counts[bin]++
    }
    for _, bin := range order {
        if counts[bin] > st.TopBINCount {
            st.TopBIN, st.TopBINCount = bin, counts[bin]
        }
    }
    return st
}

// SessionStore keeps sessions by ID for the HTTP layer.
type SessionStore struct {
    mu       sync.RWMutex
    sessions map[string]*Session
    hashKey  []byte
}

func NewSessionStore(hashKey []byte) *SessionStore {
    return &SessionStore{
        sessions: make(map[string]*Session),
        hashKey:  hashKey,
    }
}

func (r *SessionStore) Create(now time.Time) *Session {
    s := NewSession(uuid.New().String(), r.hashKey, now)
    r.mu.Lock()
    defer r.mu.Unlock()
    r.sessions[s.ID] = s
    return s
}

func (r *SessionStore) Get(id string) (*Session, error) {
    r.mu.RLock()
    defer r.mu.RUnlock()
    s, ok := r.sessions[id]
    if !ok {
        return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
    }
    return s, nil
}

func (r *SessionStore) Delete(id string) error {
    r.mu.Lock()
    defer r.mu.Unlock()
    if _, ok := r.sessions[id]; !ok {
        return fmt.Errorf("session %s: %w", id, ErrNotFound)
    }
    delete(r.sessions, id)
    return nil
}

func (r *SessionStore) Len() int {
    r.mu.RLock()
    defer r.mu.RUnlock()
    return len(r.sessions)
}
