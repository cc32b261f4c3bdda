// Package glprog compiles generated program source bundles into GPU programs
// and keeps them alive for as long as the backing bundle is cached.
package glprog

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/soypat/gshade"
)

// Registry pairs a [gshade.Cache] with the compiled form P of each cached bundle.
// A bundle is compiled once on first use and released when the cache evicts it.
// Registry is not safe for concurrent use: GPU objects belong to the thread owning the context.
type Registry[P any] struct {
	cache    *gshade.Cache
	compile  func(*gshade.ProgramSource) (P, error)
	release  func(P)
	compiled map[string]P
	log      *slog.Logger
}

// NewRegistry returns a registry drawing sources from cache. compile turns a bundle into
// its compiled form and release frees it once the bundle is evicted.
func NewRegistry[P any](cache *gshade.Cache, compile func(*gshade.ProgramSource) (P, error), release func(P)) (*Registry[P], error) {
	if cache == nil || compile == nil || release == nil {
		return nil, errors.New("nil cache, compile or release argument")
	}
	return &Registry[P]{
		cache:    cache,
		compile:  compile,
		release:  release,
		compiled: make(map[string]P),
		log:      gshade.Logger(),
	}, nil
}

// Get returns the compiled programs for st and the state hash to release them with.
// Every successful Get must be balanced by one [Registry.Put] with the returned hash.
func (r *Registry[P]) Get(st *gshade.RenderState) (hash string, prog P, err error) {
	hash = gshade.StateHash(st)
	ps, err := r.cache.GetSource(hash, st)
	if err != nil {
		return "", prog, err
	}
	if prog, ok := r.compiled[hash]; ok {
		return hash, prog, nil
	}
	prog, err = r.compile(ps)
	if err != nil {
		r.cache.PutSource(hash)
		return "", prog, fmt.Errorf("compiling %q: %w", hash, err)
	}
	r.compiled[hash] = prog
	r.log.Debug("compiled program", slog.String("hash", hash))
	return hash, prog, nil
}

// Put releases one use of the programs returned by Get under hash.
// The programs are released when the source bundle is evicted.
func (r *Registry[P]) Put(hash string) {
	r.cache.PutSource(hash)
	if r.cache.Contains(hash) {
		return
	}
	prog, ok := r.compiled[hash]
	if !ok {
		return
	}
	delete(r.compiled, hash)
	r.release(prog)
	r.log.Debug("released program", slog.String("hash", hash))
}

// Len returns the number of live compiled programs.
func (r *Registry[P]) Len() int { return len(r.compiled) }

// Close releases all compiled programs and resets the cache.
func (r *Registry[P]) Close() {
	for hash, prog := range r.compiled {
		r.release(prog)
		delete(r.compiled, hash)
	}
	r.cache.Reset()
}
