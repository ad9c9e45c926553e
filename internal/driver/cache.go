package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"gccbridge/internal/config"
	"gccbridge/internal/gimple"
	"gccbridge/internal/jimple"
)

// Current schema version - increment when cacheEntry or the lowering output
// changes.
const cacheSchemaVersion uint16 = 1

// Digest identifies one cached function body.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Cache keeps lowered function bodies on disk so that unchanged functions are
// not lowered again. It is safe for concurrent use by the unit workers.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type cacheEntry struct {
	Schema uint16
	Decls  []jimple.VarDecl
	Lines  []jimple.Line
}

// OpenCache returns the cache under $XDG_CACHE_HOME/<app>, or ~/.cache/<app>.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewCache(filepath.Join(base, app))
}

// NewCache returns a cache rooted at dir, creating it if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// FunctionKey digests everything that determines the lowered body of fn:
// the function itself plus the naming and runtime settings.
func FunctionKey(fn *gimple.Function, cfg config.Config) (Digest, error) {
	h := sha256.New()
	enc := msgpack.NewEncoder(h)
	enc.UseCompactInts(true)
	for _, v := range []any{cacheSchemaVersion, cfg.Naming, cfg.Runtime, fn} {
		if err := enc.Encode(v); err != nil {
			return Digest{}, fmt.Errorf("cache key for %s: %w", fn.Name, err)
		}
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}

func (c *Cache) pathFor(key Digest) string {
	s := key.String()
	return filepath.Join(c.dir, "fn", s[:2], s+".mp")
}

// Put stores a lowered body. The file is replaced atomically.
func (c *Cache) Put(key Digest, body *jimple.Builder) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	entry := cacheEntry{Schema: cacheSchemaVersion, Decls: body.Decls(), Lines: body.Lines()}
	if err := msgpack.NewEncoder(f).Encode(&entry); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), p); err != nil {
		return err
	}
	committed = true
	return nil
}

// Get rebuilds a cached body. Entries from another schema count as misses.
func (c *Cache) Get(key Digest) (*jimple.Builder, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var entry cacheEntry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	if entry.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	b := jimple.NewBuilder()
	for _, d := range entry.Decls {
		b.AddVarDecl(d.Type, d.Name)
	}
	for _, l := range entry.Lines {
		if l.Kind == jimple.LineLabel {
			b.AddLabel(l.Text)
		} else {
			b.AddStatement(l.Text)
		}
	}
	return b, true, nil
}

// DropAll removes every cached entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "fn"))
}
