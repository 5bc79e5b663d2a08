package gen

import "strconv"

// Registry hands out unique block identifiers. The first request for a
// name returns it unchanged; later requests return name_1, name_2, ...
// Identifiers reserved up front (fixed blocks already in a table) are
// never handed out.
type Registry struct {
	counts map[string]int
	taken  map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{counts: map[string]int{}, taken: map[string]struct{}{}}
}

// Reserve marks ids as used without counting them as requests.
func (r *Registry) Reserve(ids ...string) {
	for _, id := range ids {
		r.taken[id] = struct{}{}
	}
}

// Taken reports whether id was handed out or reserved.
func (r *Registry) Taken(id string) bool {
	_, ok := r.taken[id]
	return ok
}

// Unique returns the next free identifier derived from name.
func (r *Registry) Unique(name string) string {
	for {
		n := r.counts[name]
		r.counts[name] = n + 1
		id := name
		if n > 0 {
			id = name + "_" + strconv.Itoa(n)
		}
		if _, ok := r.taken[id]; ok {
			continue
		}
		r.taken[id] = struct{}{}
		return id
	}
}

// Fork returns an independent copy. Synthesis runs against a fork that is
// adopted only when the whole batch succeeds.
func (r *Registry) Fork() *Registry {
	f := NewRegistry()
	for k, v := range r.counts {
		f.counts[k] = v
	}
	for k := range r.taken {
		f.taken[k] = struct{}{}
	}
	return f
}
