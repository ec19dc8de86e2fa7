package ai

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

type ProviderFactory func(ctx context.Context, model string) (Provider, error)

type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

func (r *Registry) Register(name string, f ProviderFactory) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

func (r *Registry) Get(ctx context.Context, name string, model string) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown ai provider: %s", name)
	}
	return f(ctx, model)
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lazy returns a Provider that builds the named provider on its first Chat
// call and reuses it afterwards. A failed build is retried on the next call.
func (r *Registry) Lazy(name, model string) Provider {
	return &lazyProvider{registry: r, name: name, model: model}
}

type lazyProvider struct {
	registry *Registry
	name     string
	model    string

	mu sync.Mutex
	p  Provider
}

func (l *lazyProvider) resolve(ctx context.Context) (Provider, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.p != nil {
		return l.p, nil
	}
	p, err := l.registry.Get(ctx, l.name, l.model)
	if err != nil {
		return nil, err
	}
	l.p = p
	return p, nil
}

func (l *lazyProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	p, err := l.resolve(ctx)
	if err != nil {
		return "", err
	}
	return p.Chat(ctx, messages)
}

// Close releases the resolved provider if it holds resources. A later Chat
// builds a fresh one.
func (l *lazyProvider) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.p
	l.p = nil
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
