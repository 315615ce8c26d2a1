package favorites

import (
	"strings"
	"time"
)

// Record is a favorite as owned by the remote source.
type Record struct {
	StationID string    `json:"ideess"`
	CreatedAt time.Time `json:"created_at"`
}

// Set is an insertion-ordered set of station IDs. The zero value is empty and usable.
type Set struct {
	index map[string]struct{}
	order []string
}

func NewSet(ids ...string) Set {
	var s Set
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func SetFromRecords(records []Record) Set {
	var s Set
	for _, record := range records {
		s.Add(record.StationID)
	}
	return s
}

func (s *Set) Has(id string) bool {
	_, ok := s.index[strings.TrimSpace(id)]
	return ok
}

// Add reports whether id was newly inserted.
func (s *Set) Add(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Remove reports whether id was present.
func (s *Set) Remove(id string) bool {
	id = strings.TrimSpace(id)
	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	for i, candidate := range s.order {
		if candidate == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *Set) Len() int {
	return len(s.order)
}

// Clone returns an independent copy; plain assignment shares the index.
func (s *Set) Clone() Set {
	return NewSet(s.order...)
}

func (s *Set) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
