package ufs

import (
	"github.com/gobwas/glob"
)

// ============================================================================
// Selector Interface
// ============================================================================

// Selector filters the entries returned by Container.List.
//
// Example usage:
//
//	// Simple glob selector
//	entries, err := dir.List(ctx, ufs.WithSelector(ufs.Glob("*.txt")))
//
//	// Composed selector
//	sel := ufs.And(
//	    ufs.Glob("*.jpg"),
//	    ufs.KindOf(ufs.KindFile),
//	)
type Selector interface {
	// Match returns true if the entry should be included in results.
	Match(e Entry) bool
}

// Select returns the entries matched by sel. A nil selector matches all.
func Select(entries []Entry, sel Selector) []Entry {
	if sel == nil {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if sel.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// ============================================================================
// Built-in Selectors
// ============================================================================

type allSelector struct{}

func (allSelector) Match(Entry) bool { return true }

// All returns a selector that matches every entry.
func All() Selector {
	return allSelector{}
}

type globSelector struct {
	g glob.Glob
}

// Glob creates a selector matching entry names against a glob pattern.
// Supports: *, ?, [abc], [a-z], {a,b}. An invalid pattern matches nothing.
//
// Examples:
//
//	Glob("*.txt")           // All .txt entries
//	Glob("image_????.jpg")  // image_0001.jpg, etc.
//	Glob("*.{jpg,png}")     // Either extension
func Glob(pattern string) Selector {
	g, err := glob.Compile(pattern)
	if err != nil {
		return FuncSelector(func(Entry) bool { return false })
	}
	return &globSelector{g: g}
}

func (s *globSelector) Match(e Entry) bool {
	return s.g.Match(e.Name())
}

// KindOf matches entries of the given kinds.
func KindOf(kinds ...Kind) Selector {
	return FuncSelector(func(e Entry) bool {
		for _, k := range kinds {
			if e.Kind() == k {
				return true
			}
		}
		return false
	})
}

// ============================================================================
// Composable Selectors (And, Or, Not)
// ============================================================================

type andSelector struct {
	selectors []Selector
}

// And matches only if ALL selectors match.
func And(selectors ...Selector) Selector {
	return &andSelector{selectors: selectors}
}

func (s *andSelector) Match(e Entry) bool {
	for _, sel := range s.selectors {
		if !sel.Match(e) {
			return false
		}
	}
	return true
}

type orSelector struct {
	selectors []Selector
}

// Or matches if ANY selector matches.
func Or(selectors ...Selector) Selector {
	return &orSelector{selectors: selectors}
}

func (s *orSelector) Match(e Entry) bool {
	for _, sel := range s.selectors {
		if sel.Match(e) {
			return true
		}
	}
	return false
}

type notSelector struct {
	selector Selector
}

// Not inverts a selector's match result.
func Not(selector Selector) Selector {
	return &notSelector{selector: selector}
}

func (s *notSelector) Match(e Entry) bool {
	return !s.selector.Match(e)
}

// ============================================================================
// FuncSelector - Custom logic
// ============================================================================

type funcSelector struct {
	matchFn func(Entry) bool
}

// FuncSelector creates a selector from a custom function.
func FuncSelector(fn func(Entry) bool) Selector {
	return &funcSelector{matchFn: fn}
}

func (s *funcSelector) Match(e Entry) bool { return s.matchFn(e) }
