package lang

import (
	"context"
	"encoding/binary"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"
)

// MaxCacheEntries bounds the number of parsed sources retained by
// [ParseString]. The cache is emptied whenever the bound is reached.
var MaxCacheEntries int64 = 4096

var (
	// parseCache stores *cacheEntry keyed by (source_hash:options_hash).
	parseCache sync.Map

	// cacheSize counts the entries added to parseCache since it was last
	// emptied.
	cacheSize atomic.Int64
)

// cacheEntry holds the outcome of parsing one source text. Expression trees
// are immutable, so a cached tree may be shared by any number of callers.
type cacheEntry struct {
	once sync.Once
	expr Expr
	err  error
}

// hashOptions hashes the options that affect the parse result.
func hashOptions(cfg config) uint64 {
	return xxh3.Hash(binary.AppendVarint(nil, int64(cfg.maxDepth)))
}

// parseCached parses source, reusing the result of any earlier parse of
// the same text under the same options.
func parseCached(ctx context.Context, source string, cfg config) (Expr, error) {
	sourceHash := xxh3.Hash([]byte(source))
	key := strconv.FormatUint(sourceHash, 36) + ":" +
		strconv.FormatUint(hashOptions(cfg), 36)

	value, hit := parseCache.LoadOrStore(key, new(cacheEntry))
	if !hit && cacheSize.Add(1) > MaxCacheEntries {
		ResetCache()
	}

	entry, _ := value.(*cacheEntry)

	cfg.logger.TraceContext(ctx, "parse cache",
		slog.String("key", key),
		slog.Bool("hit", hit))

	entry.once.Do(func() {
		var tokens []Token

		tokens, entry.err = LexContext(ctx, source, WithLogger(cfg.logger))
		if entry.err != nil {
			return
		}

		entry.expr, entry.err = parseTokens(tokens, cfg)
	})

	return entry.expr, entry.err
}

// ResetCache discards every cached parse result.
func ResetCache() {
	parseCache.Clear()
	cacheSize.Store(0)
}
