package match

import (
	"strings"
	"sync"

	"github.com/1broseidon/tabgroup/internal/config"
	"github.com/1broseidon/tabgroup/internal/platform"
)

// Matcher decides which windows take part in grouping.
type Matcher struct {
	mu      sync.RWMutex
	allowed map[string]bool
	ignored map[string]bool
	types   map[platform.WindowType]bool
}

// NewMatcher creates a matcher from the window_match section.
func NewMatcher(wm config.WindowMatch) *Matcher {
	m := &Matcher{}
	m.Update(wm)
	return m
}

// Update replaces the match rules, e.g. after a config reload.
func (m *Matcher) Update(wm config.WindowMatch) {
	allowed := classMap(wm.Classes.Allowed())
	ignored := classMap(wm.Classes.Ignored())
	types := make(map[platform.WindowType]bool, len(wm.Types))
	for _, t := range wm.Types {
		types[platform.WindowType(strings.ToLower(strings.TrimSpace(t)))] = true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.allowed = allowed
	m.ignored = ignored
	m.types = types
}

func classMap(classes []string) map[string]bool {
	out := make(map[string]bool, len(classes))
	for _, class := range classes {
		out[strings.ToLower(class)] = true
	}
	return out
}

// Matches reports whether the window should be managed.
func (m *Matcher) Matches(info platform.WindowInfo) bool {
	if info.Invisible {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	typ := info.Type
	if typ == "" {
		typ = platform.TypeUnknown
	}
	if !m.types[typ] {
		return false
	}

	class := strings.ToLower(info.Class)
	if m.ignored[class] {
		return false
	}
	if len(m.allowed) > 0 && !m.allowed[class] {
		return false
	}
	return true
}
