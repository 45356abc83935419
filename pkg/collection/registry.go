package collection

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/labels"
)

// Registry holds collections by name.
type Registry struct {
	m           sync.RWMutex
	collections map[string]Collection
	log         logr.Logger
}

func NewRegistry(log logr.Logger) *Registry {
	return &Registry{
		collections: map[string]Collection{},
		log:         log.WithName("registry"),
	}
}

func (r *Registry) Add(c Collection) error {
	r.m.Lock()
	defer r.m.Unlock()

	if _, ok := r.collections[c.Name()]; ok {
		return fmt.Errorf("collection %s already exists", c.Name())
	}
	r.collections[c.Name()] = c
	r.log.V(1).Info("added collection", "name", c.Name(), "labels", c.Labels().String(), "count", c.Count())
	return nil
}

func (r *Registry) Get(name string) (Collection, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	c, ok := r.collections[name]
	if !ok {
		return nil, fmt.Errorf("no match found for: %s", name)
	}
	return c, nil
}

func (r *Registry) Delete(name string) error {
	r.m.Lock()
	defer r.m.Unlock()

	if _, ok := r.collections[name]; !ok {
		return fmt.Errorf("collection %s not found", name)
	}
	delete(r.collections, name)
	r.log.V(1).Info("deleted collection", "name", name)
	return nil
}

// List returns all collections sorted by name.
func (r *Registry) List() []Collection {
	return r.GetByLabel(labels.Everything())
}

// GetByLabel returns the collections whose labels match selector, sorted by
// name.
func (r *Registry) GetByLabel(selector labels.Selector) []Collection {
	r.m.RLock()
	defer r.m.RUnlock()

	out := make([]Collection, 0, len(r.collections))
	for _, c := range r.collections {
		if selector.Matches(c.Labels()) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out
}

// Total returns the number of owned items over all collections.
func (r *Registry) Total() uint64 {
	r.m.RLock()
	defer r.m.RUnlock()

	var total uint64
	for _, c := range r.collections {
		total += c.Count()
	}
	return total
}
