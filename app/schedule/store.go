package schedule

import (
	"sort"
	"sync"
	"time"

	"github.com/makerconf/agenda-comb/app/program"
)

// Where the published manifests came from.
const (
	SourceUpstream = "upstream"
	SourceSnapshot = "snapshot"
)

// Stats summarizes the currently published agenda.
type Stats struct {
	Entries     int       `json:"entries"`
	Days        int       `json:"days"`
	Venues      int       `json:"venues"`
	Sessions    int       `json:"sessions"`
	Speakers    int       `json:"speakers"`
	Version     string    `json:"version,omitempty"`
	Source      string    `json:"source,omitempty"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

// Store holds the latest reconciled agenda and its companion views.
// Refresh tasks publish a complete replacement; handlers read whatever
// is current. A nil schedule means no refresh has succeeded yet.
type Store struct {
	mu           sync.RWMutex
	schedule     *Schedule
	programView  []program.Session
	speakerIndex map[string][]program.SpeakerSession
	source       string
	refreshedAt  time.Time
}

func NewStore() *Store {
	return &Store{}
}

// Publish replaces the store's contents atomically. The source tag
// records where the manifests came from (upstream or snapshot).
func (s *Store) Publish(schedule *Schedule, programView []program.Session, speakerIndex map[string][]program.SpeakerSession, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule = schedule
	s.programView = programView
	s.speakerIndex = speakerIndex
	s.source = source
	s.refreshedAt = time.Now().UTC()
}

// Schedule returns the published agenda, or nil before the first
// successful refresh.
func (s *Store) Schedule() *Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule
}

// ProgramView returns the published program sessions.
func (s *Store) ProgramView() []program.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.programView
}

// SpeakerSessions returns the published sessions for one speaker key.
func (s *Store) SpeakerSessions(key string) ([]program.SpeakerSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessions, ok := s.speakerIndex[key]
	return sessions, ok
}

// SpeakerKeys returns every indexed speaker key, sorted.
func (s *Store) SpeakerKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.speakerIndex))
	for key := range s.speakerIndex {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Loaded reports whether a refresh has published an agenda.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule != nil
}

// Stats reports counts for the published agenda.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		Sessions:    len(s.programView),
		Speakers:    len(s.speakerIndex),
		Source:      s.source,
		RefreshedAt: s.refreshedAt,
	}
	if s.schedule != nil {
		stats.Entries = len(s.schedule.Entries)
		stats.Days = len(s.schedule.Days)
		stats.Venues = len(s.schedule.Venues)
		stats.Version = s.schedule.Version
	}
	return stats
}
