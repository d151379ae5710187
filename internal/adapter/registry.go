package adapter

// Registry is an ordered list of adapters. Order is significant: the first
// adapter whose predicate matches wins.
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates a registry consulting adapters in the given order.
func NewRegistry(adapters ...Adapter) *Registry {
	return &Registry{adapters: adapters}
}

// Default returns the registry of built-in platform adapters.
func Default() *Registry {
	return NewRegistry(
		Ticketmaster(),
		Eventbrite(),
		Facebook(),
		Meetup(),
		Eventful(),
	)
}

// Select returns the first adapter matching url, or nil.
func (r *Registry) Select(url string) Adapter {
	if r == nil {
		return nil
	}
	for _, a := range r.adapters {
		if a.Matches(url) {
			return a
		}
	}
	return nil
}

// Adapters returns the registered adapters in order.
func (r *Registry) Adapters() []Adapter {
	return append([]Adapter(nil), r.adapters...)
}

// Select returns the first built-in adapter matching url, or nil.
func Select(url string) Adapter {
	return Default().Select(url)
}
