package ai

import (
	"context"
	"sync"

	"github.com/outvoice/backend/internal/domain/shared"
)

// Token identifies one call on a surface key
type Token struct {
	Key        string
	Generation uint64
}

type surface struct {
	generation uint64
	cancel     context.CancelFunc
}

// Generations hands out monotonically increasing generation tokens per
// surface key. Starting a call on a key cancels the call it supersedes;
// a call that finishes after being superseded is reported stale.
// A key is forgotten once its latest call finishes.
type Generations struct {
	mu       sync.Mutex
	next     uint64
	surfaces map[string]*surface
}

// NewGenerations creates an empty tracker
func NewGenerations() *Generations {
	return &Generations{surfaces: make(map[string]*surface)}
}

// Begin starts a call on key and returns a context that is cancelled when
// a newer call on the same key begins. An empty key is not tracked.
func (g *Generations) Begin(ctx context.Context, key string) (context.Context, Token, context.CancelFunc) {
	if key == "" {
		ctx, cancel := context.WithCancel(ctx)
		return ctx, Token{}, cancel
	}
	ctx, cancel := context.WithCancel(ctx)

	g.mu.Lock()
	s, ok := g.surfaces[key]
	if !ok {
		s = &surface{}
		g.surfaces[key] = s
	}
	if s.cancel != nil {
		s.cancel()
	}
	g.next++
	s.generation = g.next
	s.cancel = cancel
	tok := Token{Key: key, Generation: s.generation}
	g.mu.Unlock()

	return ctx, tok, cancel
}

// Finish ends the call. It returns ErrStaleRequest when a newer call on the
// same key has begun since.
func (g *Generations) Finish(tok Token) error {
	if tok.Key == "" {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.surfaces[tok.Key]
	if !ok || s.generation != tok.Generation {
		return shared.ErrStaleRequest
	}
	delete(g.surfaces, tok.Key)
	return nil
}

// Track runs fn as a tracked call on key. A superseded call returns
// ErrStaleRequest whatever fn produced.
func Track[T any](ctx context.Context, g *Generations, key string, fn func(context.Context) (T, error)) (T, error) {
	callCtx, tok, cancel := g.Begin(ctx, key)
	defer cancel()

	result, err := fn(callCtx)
	if staleErr := g.Finish(tok); staleErr != nil {
		var zero T
		return zero, staleErr
	}
	return result, err
}
