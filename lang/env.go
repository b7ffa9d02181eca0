package lang

import (
	"iter"
	"strings"
	"sync"

	"github.com/google/btree"
)

// envDegree is the B-tree degree of an Env. Environments are small, so a
// low degree keeps copy-on-write node copies cheap.
const envDegree = 8

type binding struct {
	name string
	val  Value
}

func lessBinding(a, b binding) bool { return a.name < b.name }

// Env maps identifiers to values. It is the environment against which
// programs evaluate.
//
// Env is an ordered copy-on-write tree: Clone is O(1) and the clone shares
// structure with its source until either side is modified. Methods are safe
// for concurrent use, but evaluating two programs against the same Env
// concurrently interleaves their assignments; hosts serialize such access.
type Env struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[binding]
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{tree: btree.NewG(envDegree, lessBinding)}
}

// Get returns the value bound to name.
func (e *Env) Get(name string) (Value, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	b, ok := e.tree.Get(binding{name: name})

	return b.val, ok
}

// Has reports whether name is bound.
func (e *Env) Has(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.tree.Has(binding{name: name})
}

// Set binds name to v, replacing any previous binding.
func (e *Env) Set(name string, v Value) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tree.ReplaceOrInsert(binding{name: name, val: v})
}

// SetFunction binds name to a native function of the same name.
func (e *Env) SetFunction(name string, fn NativeFunc) {
	e.Set(name, NewFunction(name, fn))
}

// Delete removes the binding of name and reports whether it existed.
func (e *Env) Delete(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.tree.Delete(binding{name: name})

	return ok
}

// Len returns the number of bindings.
func (e *Env) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.tree.Len()
}

// Clone returns an independent copy of e.
func (e *Env) Clone() *Env {
	// btree.Clone marks the shared nodes copy-on-write in the source too, so
	// it counts as a write.
	e.mu.Lock()
	defer e.mu.Unlock()

	return &Env{tree: e.tree.Clone()}
}

// Merge copies every binding of src into e, replacing existing bindings.
func (e *Env) Merge(src *Env) {
	for name, val := range src.All() {
		e.Set(name, val)
	}
}

// All iterates over the bindings of e in name order. The iteration observes
// a snapshot, so the body may modify e.
func (e *Env) All() iter.Seq2[string, Value] {
	snap := e.Clone()

	return func(yield func(string, Value) bool) {
		snap.tree.Ascend(func(b binding) bool {
			return yield(b.name, b.val)
		})
	}
}

// Keys returns the bound names in order.
func (e *Env) Keys() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	keys := make([]string, 0, e.tree.Len())

	e.tree.Ascend(func(b binding) bool {
		keys = append(keys, b.name)

		return true
	})

	return keys
}

// KeysWithPrefix returns the bound names beginning with prefix, in order.
func (e *Env) KeysWithPrefix(prefix string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var keys []string

	e.tree.AscendGreaterOrEqual(binding{name: prefix}, func(b binding) bool {
		if !strings.HasPrefix(b.name, prefix) {
			return false
		}

		keys = append(keys, b.name)

		return true
	})

	return keys
}

// List reifies e as a List of (name, value) pairs in name order.
func (e *Env) List() List {
	out := make(List, 0, e.Len())

	for name, val := range e.All() {
		out = append(out, List{Str(name), val})
	}

	return out
}

// EnvFromList builds an environment from a List of (name, value) pairs, the
// shape produced by [Env.List]. It reports false if v has any other shape.
func EnvFromList(v Value) (*Env, bool) {
	list, ok := v.(List)
	if !ok {
		return nil, false
	}

	env := NewEnv()

	for _, item := range list {
		pair, ok := item.(List)
		if !ok || len(pair) != 2 {
			return nil, false
		}

		name, ok := pair[0].(Str)
		if !ok {
			return nil, false
		}

		env.Set(string(name), pair[1])
	}

	return env, true
}
