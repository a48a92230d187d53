// Package catalog holds the in-memory startup program and optimization
// setting collections of the mock machine, and derives the optimization
// score from them.
package catalog

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stepherg/rigtune"
)

// Store owns both collections. All mutation goes through its methods; reads
// hand out copies so callers never observe a bulk update half-applied.
type Store struct {
	mu       sync.RWMutex
	system   rigtune.SystemInfo
	programs []rigtune.StartupProgram
	settings []rigtune.OptimizationSetting

	listenersMu sync.RWMutex
	listeners   map[*storeSub]struct{}

	now func() time.Time
}

// New builds a store from seed. The seed slices are copied.
func New(seed Seed) (*Store, error) {
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &Store{
		system:    seed.System,
		programs:  append([]rigtune.StartupProgram(nil), seed.Programs...),
		settings:  append([]rigtune.OptimizationSetting(nil), seed.Settings...),
		listeners: make(map[*storeSub]struct{}),
		now:       time.Now,
	}, nil
}

// Default returns a store seeded with the embedded reference catalog.
func Default() *Store {
	s, err := New(DefaultSeed())
	if err != nil {
		panic(fmt.Sprintf("catalog: default seed: %v", err))
	}
	return s
}

func (s *Store) StartupPrograms() []rigtune.StartupProgram {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]rigtune.StartupProgram, 0, len(s.programs)), s.programs...)
}

func (s *Store) StartupProgram(id string) (rigtune.StartupProgram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.programIndex(id)
	if i < 0 {
		return rigtune.StartupProgram{}, fmt.Errorf("%w: %s", rigtune.ErrProgramNotFound, id)
	}
	return s.programs[i], nil
}

// ToggleStartupProgram flips the enabled flag of program id. An enabled
// essential program is left as is and returned unchanged.
func (s *Store) ToggleStartupProgram(id string) (rigtune.StartupProgram, error) {
	s.mu.Lock()
	i := s.programIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return rigtune.StartupProgram{}, fmt.Errorf("%w: %s", rigtune.ErrProgramNotFound, id)
	}
	p := &s.programs[i]
	if p.Category == rigtune.CategoryEssential && p.Enabled {
		out := *p
		s.mu.Unlock()
		return out, nil
	}
	p.Enabled = !p.Enabled
	out := *p
	score := s.scoreLocked()
	s.mu.Unlock()

	s.publish(rigtune.EventProgramToggled, []string{id}, score)
	return out, nil
}

// DisableAllBloatware disables every bloatware program and returns all of
// them in collection order, whether or not they were enabled before.
func (s *Store) DisableAllBloatware() []rigtune.StartupProgram {
	s.mu.Lock()
	disabled := []rigtune.StartupProgram{}
	var changed []string
	for i := range s.programs {
		p := &s.programs[i]
		if p.Category != rigtune.CategoryBloatware {
			continue
		}
		if p.Enabled {
			p.Enabled = false
			changed = append(changed, p.ID)
		}
		disabled = append(disabled, *p)
	}
	score := s.scoreLocked()
	s.mu.Unlock()

	if len(changed) > 0 {
		s.publish(rigtune.EventBloatwareDisabled, changed, score)
	}
	return disabled
}

func (s *Store) OptimizationSettings() []rigtune.OptimizationSetting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]rigtune.OptimizationSetting, 0, len(s.settings)), s.settings...)
}

func (s *Store) OptimizationSetting(id string) (rigtune.OptimizationSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.settingIndex(id)
	if i < 0 {
		return rigtune.OptimizationSetting{}, fmt.Errorf("%w: %s", rigtune.ErrSettingNotFound, id)
	}
	return s.settings[i], nil
}

// ToggleOptimizationSetting flips setting id. An unknown id yields a result
// with Success=false and leaves the catalog untouched.
func (s *Store) ToggleOptimizationSetting(id string) rigtune.OptimizationResult {
	s.mu.Lock()
	i := s.settingIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return rigtune.OptimizationResult{Success: false, Message: "Setting not found", SettingID: id}
	}
	st := &s.settings[i]
	st.Enabled = !st.Enabled
	state := "disabled"
	if st.Enabled {
		state = "enabled"
	}
	res := rigtune.OptimizationResult{
		Success:   true,
		Message:   fmt.Sprintf("%s has been %s", st.Name, state),
		SettingID: id,
	}
	score := s.scoreLocked()
	s.mu.Unlock()

	s.publish(rigtune.EventSettingToggled, []string{id}, score)
	return res
}

// ApplyRecommendedSettings enables every recommended setting that is still
// off and reports one result per setting it changed.
func (s *Store) ApplyRecommendedSettings() []rigtune.OptimizationResult {
	s.mu.Lock()
	results := []rigtune.OptimizationResult{}
	var changed []string
	for i := range s.settings {
		st := &s.settings[i]
		if !st.Recommended || st.Enabled {
			continue
		}
		st.Enabled = true
		changed = append(changed, st.ID)
		results = append(results, rigtune.OptimizationResult{
			Success:   true,
			Message:   st.Name + " has been enabled",
			SettingID: st.ID,
		})
	}
	score := s.scoreLocked()
	s.mu.Unlock()

	if len(changed) > 0 {
		s.publish(rigtune.EventRecommendedApplied, changed, score)
	}
	return results
}

func (s *Store) SystemInfo() rigtune.SystemInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.system
}

// OptimizationScore recomputes the score from the current collections.
func (s *Store) OptimizationScore() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scoreLocked()
}

// Summary returns the dashboard counters and score from one snapshot.
func (s *Store) Summary() rigtune.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := rigtune.Summary{
		Score:         s.scoreLocked(),
		TotalPrograms: len(s.programs),
		TotalSettings: len(s.settings),
	}
	for _, p := range s.programs {
		if !p.Enabled {
			continue
		}
		if p.Category == rigtune.CategoryBloatware {
			sum.EnabledBloatware++
		}
		if p.Impact == rigtune.ImpactHigh {
			sum.EnabledHighImpact++
		}
	}
	for _, st := range s.settings {
		if st.Recommended && !st.Enabled {
			sum.PendingRecommended++
		}
	}
	return sum
}

func (s *Store) scoreLocked() int {
	return Score(s.programs, s.settings)
}

func (s *Store) programIndex(id string) int {
	for i := range s.programs {
		if s.programs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) settingIndex(id string) int {
	for i := range s.settings {
		if s.settings[i].ID == id {
			return i
		}
	}
	return -1
}

// Subscribe returns a subscription receiving an event after every mutation
// that changed state. Events are dropped for subscribers whose buffer is full.
func (s *Store) Subscribe(buffer int) rigtune.EventSubscription {
	sub := &storeSub{ch: make(chan rigtune.Event, buffer), store: s}
	s.listenersMu.Lock()
	s.listeners[sub] = struct{}{}
	s.listenersMu.Unlock()
	return sub
}

func (s *Store) publish(kind rigtune.EventKind, ids []string, score int) {
	e := rigtune.Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		EntityIDs:  ids,
		OccurredAt: s.now(),
		Score:      score,
	}
	s.listenersMu.RLock()
	defer s.listenersMu.RUnlock()
	for sub := range s.listeners {
		select {
		case sub.ch <- e:
		default: /* drop if slow */
		}
	}
}

type storeSub struct {
	ch        chan rigtune.Event
	store     *Store
	closeOnce sync.Once
}

func (e *storeSub) C() <-chan rigtune.Event { return e.ch }

func (e *storeSub) Close() error {
	e.closeOnce.Do(func() {
		e.store.listenersMu.Lock()
		delete(e.store.listeners, e)
		e.store.listenersMu.Unlock()
		close(e.ch)
	})
	return nil
}
