package session

import "github.com/linh30121998/proteus/internal/keys"

// StateMap keys ratchet states by session tag while remembering insertion
// order. Encoding iterates states in the order they were inserted, and
// every entry carries a monotonically increasing insertion index so a
// pruning policy can identify the oldest state when a maximum is exceeded.
type StateMap struct {
	order []keys.SessionTag
	items map[keys.SessionTag]*IndexedState
	next  uint32
}

// IndexedState pairs a ratchet state with its insertion index.
type IndexedState struct {
	Index uint32
	State *State
}

// NewStateMap returns an empty map.
func NewStateMap() *StateMap {
	return &StateMap{items: make(map[keys.SessionTag]*IndexedState)}
}

// Put inserts or replaces the state stored under tag. A replaced tag keeps
// its position in the iteration order but receives a fresh insertion
// index, so recency-based pruning sees the overwrite as recent.
func (m *StateMap) Put(tag keys.SessionTag, st *State) {
	if e, ok := m.items[tag]; ok {
		e.State = st
		e.Index = m.next
		m.next++
		return
	}
	m.items[tag] = &IndexedState{Index: m.next, State: st}
	m.order = append(m.order, tag)
	m.next++
}

// Get returns the state stored under tag.
func (m *StateMap) Get(tag keys.SessionTag) (*State, bool) {
	e, ok := m.items[tag]
	if !ok {
		return nil, false
	}
	return e.State, true
}

// Index returns the insertion index recorded for tag.
func (m *StateMap) Index(tag keys.SessionTag) (uint32, bool) {
	e, ok := m.items[tag]
	if !ok {
		return 0, false
	}
	return e.Index, true
}

// Len returns the number of states.
func (m *StateMap) Len() int { return len(m.order) }

// Tags returns the tags in insertion order. The slice is a copy.
func (m *StateMap) Tags() []keys.SessionTag {
	out := make([]keys.SessionTag, len(m.order))
	copy(out, m.order)
	return out
}

// Oldest returns the tag with the lowest insertion index.
func (m *StateMap) Oldest() (keys.SessionTag, bool) {
	var (
		oldest keys.SessionTag
		min    uint32
		found  bool
	)
	for tag, e := range m.items {
		if !found || e.Index < min {
			oldest, min, found = tag, e.Index, true
		}
	}
	return oldest, found
}

// Delete removes tag and its state. Unknown tags are a no-op.
func (m *StateMap) Delete(tag keys.SessionTag) {
	if _, ok := m.items[tag]; !ok {
		return
	}
	delete(m.items, tag)
	for i, t := range m.order {
		if t == tag {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}
