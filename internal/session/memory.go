package session

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
)

// MemoryCookieName is the cookie carrying the session id of a MemoryStore
const MemoryCookieName = "warbler_sid"

// MemoryStore keeps sessions in process memory, keyed by an opaque id in a
// cookie. Tests use it to seed or inspect sessions directly.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memoryData
}

type memoryData struct {
	values  map[string]interface{}
	flashes []Flash
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]*memoryData{}}
}

// Seed stores a session holding values and returns its id
func (m *MemoryStore) Seed(values map[string]interface{}) string {
	id := newSessionID()
	data := &memoryData{values: map[string]interface{}{}}
	for k, v := range values {
		data.values[k] = v
	}

	m.mu.Lock()
	m.sessions[id] = data
	m.mu.Unlock()
	return id
}

// Cookie returns the cookie that selects session id
func (m *MemoryStore) Cookie(id string) *http.Cookie {
	return &http.Cookie{Name: MemoryCookieName, Value: id, Path: "/"}
}

// Values returns a copy of the values saved for session id
func (m *MemoryStore) Values(id string) map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := map[string]interface{}{}
	if data, ok := m.sessions[id]; ok {
		for k, v := range data.values {
			out[k] = v
		}
	}
	return out
}

func (m *MemoryStore) Open(r *http.Request) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &memorySession{store: m, values: map[string]interface{}{}}
	if c, err := r.Cookie(MemoryCookieName); err == nil {
		if data, ok := m.sessions[c.Value]; ok {
			s.id = c.Value
			for k, v := range data.values {
				s.values[k] = v
			}
			s.flashes = append(s.flashes, data.flashes...)
		}
	}
	return s, nil
}

type memorySession struct {
	store   *MemoryStore
	id      string
	values  map[string]interface{}
	flashes []Flash
}

func (s *memorySession) Get(key string) (interface{}, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *memorySession) Set(key string, value interface{}) {
	s.values[key] = value
}

func (s *memorySession) Delete(key string) {
	delete(s.values, key)
}

func (s *memorySession) Clear() {
	s.values = map[string]interface{}{}
}

func (s *memorySession) AddFlash(message, category string) {
	s.flashes = append(s.flashes, Flash{Message: message, Category: category})
}

func (s *memorySession) Flashes() []Flash {
	out := s.flashes
	s.flashes = nil
	return out
}

func (s *memorySession) Save(_ *http.Request, w http.ResponseWriter) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if s.id == "" {
		s.id = newSessionID()
		http.SetCookie(w, s.store.Cookie(s.id))
	}
	data := &memoryData{values: map[string]interface{}{}}
	for k, v := range s.values {
		data.values[k] = v
	}
	data.flashes = append(data.flashes, s.flashes...)
	s.store.sessions[s.id] = data
	return nil
}

func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
