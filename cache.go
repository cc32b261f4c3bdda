package gshade

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/soypat/gshade/glsrc"
)

// ProgramSource is the bundle of shader sources generated for one render state hash:
// the draw pass pair and the two picking pass pairs. Source strings are ready to be
// compiled; they are never modified after the bundle is returned by [Cache.GetSource].
type ProgramSource struct {
	// Hash is the cache key the bundle is stored under.
	Hash string

	// Whole-object picking pass.
	VertexPickObject   string
	FragmentPickObject string
	// Per-primitive picking pass.
	VertexPickPrimitive   string
	FragmentPickPrimitive string
	// Draw pass, generated or custom.
	VertexDraw   string
	FragmentDraw string

	useCount atomic.Int32
}

// UseCount returns the number of outstanding [Cache.GetSource] calls not yet balanced by [Cache.PutSource].
func (ps *ProgramSource) UseCount() int { return int(ps.useCount.Load()) }

// CacheConfig configures a [Cache].
type CacheConfig struct {
	// Dialect is the GLSL dialect generated sources are wrapped for.
	// Custom shader sources are never modified.
	Dialect glsrc.Dialect
	// Logger overrides the package logger set with [SetLogger].
	Logger *slog.Logger
}

// Cache memoizes [ProgramSource] bundles by hash and manages their lifetime with
// a reference count. A renderer owns one Cache for its lifetime. Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	sources map[string]*ProgramSource
	dialect glsrc.Dialect
	log     *slog.Logger
	// scratch is reused across builds; guarded by mu.
	scratch []byte
}

// NewCache returns an empty cache configured by cfg.
func NewCache(cfg CacheConfig) (*Cache, error) {
	if err := cfg.Dialect.Validate(); err != nil {
		return nil, err
	}
	return &Cache{
		sources: make(map[string]*ProgramSource),
		dialect: cfg.Dialect,
		log:     cfg.Logger,
		scratch: make([]byte, 0, 4096),
	}, nil
}

// NewDefaultCache returns an empty cache generating WebGL 1 (GLSL ES 1.00) sources.
func NewDefaultCache() *Cache {
	c, err := NewCache(CacheConfig{Dialect: glsrc.DialectWebGL1})
	if err != nil {
		panic(err)
	}
	return c
}

// Dialect returns the dialect generated sources are wrapped for.
func (c *Cache) Dialect() glsrc.Dialect { return c.dialect }

// GetSource returns the bundle cached under hash, incrementing its use count.
// If hash is not cached a new bundle is generated from st with a use count of 1.
// The caller must compute hash from the same fields that determine the generated
// source (see [StateHash]) and balance every successful call with one [Cache.PutSource].
//
// An error wrapping [ErrInvalidRenderState] is returned if st is unusable.
func (c *Cache) GetSource(hash string, st *RenderState) (*ProgramSource, error) {
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("program source %q: %w", hash, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ps, ok := c.sources[hash]; ok {
		ps.useCount.Add(1)
		return ps, nil
	}
	ps := c.build(hash, st)
	ps.useCount.Store(1)
	c.sources[hash] = ps
	log := c.logger()
	if log.Enabled(context.Background(), slog.LevelDebug) {
		f := Classify(st)
		log.Debug("built program source",
			slog.String("hash", hash),
			slog.Bool("textures", f.Textures),
			slog.Bool("shading", f.Shading),
			slog.Bool("normalMapping", f.NormalMapping),
			slog.Int("lights", len(st.Lights)),
			slog.Int("vertexLines", glsrc.CountLines(ps.VertexDraw)),
			slog.Int("fragmentLines", glsrc.CountLines(ps.FragmentDraw)),
		)
	}
	return ps, nil
}

// PutSource releases one use of the bundle cached under hash. The bundle is evicted
// when its use count reaches zero. Releasing a hash that is not cached does nothing.
func (c *Cache) PutSource(hash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ps, ok := c.sources[hash]
	if !ok {
		c.logger().Warn("release of program source not in cache", slog.String("hash", hash))
		return
	}
	if ps.useCount.Add(-1) <= 0 {
		ps.useCount.Store(0)
		delete(c.sources, hash)
		c.logger().Debug("evicted program source", slog.String("hash", hash))
	}
}

// Contains reports whether a bundle is cached under hash.
func (c *Cache) Contains(hash string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sources[hash]
	return ok
}

// UseCount returns the use count of the bundle cached under hash or 0 if not cached.
func (c *Cache) UseCount(hash string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	ps, ok := c.sources[hash]
	if !ok {
		return 0
	}
	return ps.UseCount()
}

// Len returns the number of cached bundles.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sources)
}

// Reset evicts all bundles regardless of use count. Used on renderer shutdown.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for hash, ps := range c.sources {
		ps.useCount.Store(0)
		delete(c.sources, hash)
	}
}

func (c *Cache) logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	return Logger()
}

// build classifies st once and generates all six sources. Must be called with mu held.
func (c *Cache) build(hash string, st *RenderState) *ProgramSource {
	f := Classify(st)
	p := st.fragmentPrecision()
	d := c.dialect
	custom := st.customShader()
	ps := &ProgramSource{Hash: hash}
	b := c.scratch[:0]

	b = AppendPickObjectVertex(d.AppendVertexHeader(b))
	ps.VertexPickObject = string(b)
	b = AppendPickObjectFragment(d.AppendFragmentHeader(b[:0]), p)
	ps.FragmentPickObject = string(b)

	b = AppendPickPrimitiveVertex(d.AppendVertexHeader(b[:0]))
	ps.VertexPickPrimitive = string(b)
	b = AppendPickPrimitiveFragment(d.AppendFragmentHeader(b[:0]), p)
	ps.FragmentPickPrimitive = string(b)

	b = b[:0]
	if custom.Vertex == "" {
		b = d.AppendVertexHeader(b)
	}
	b = AppendDrawVertex(b, st, f)
	ps.VertexDraw = string(b)

	b = b[:0]
	if custom.Fragment == "" {
		b = d.AppendFragmentHeader(b)
	}
	b = AppendDrawFragment(b, st, f)
	ps.FragmentDraw = string(b)

	c.scratch = b[:0]
	return ps
}
