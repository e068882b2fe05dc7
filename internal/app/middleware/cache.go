package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"reflect"
	"strconv"
	"time"

	"imoveis/internal/app/queries"
)

// CacheableQuery is implemented by queries whose results may be reused for
// identical requests until the TTL expires.
type CacheableQuery interface {
	queries.Query
	CacheKey() string
	ResultPrototype() any // pointer to a value of the handler result type
}

// ResultCache stores encoded query results.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Purge(ctx context.Context) error
}

// GenerationalCache is a ResultCache whose Purge bumps a generation counter.
// Keys are versioned with the generation read before the query runs, so a
// result computed across a purge lands under a key no reader will ask for.
type GenerationalCache interface {
	ResultCache
	Generation(ctx context.Context) (uint64, error)
}

type ResultCodec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, out any) error
}

type JSONResultCodec struct{}

func (JSONResultCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONResultCodec) Decode(data []byte, out any) error {
	return json.Unmarshal(data, out)
}

var errMissingPrototype = errors.New("middleware: cacheable query requires result prototype")

// Cache serves CacheableQuery results from store. Store failures are logged
// and the query runs uncached. Errors are never cached.
func Cache(store ResultCache, ttl time.Duration, codec ResultCodec, logger *slog.Logger) QueryMiddleware {
	if store == nil {
		panic("middleware: result cache required")
	}
	if codec == nil {
		codec = JSONResultCodec{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			cq, ok := q.(CacheableQuery)
			if !ok || ttl <= 0 {
				return nextFn(ctx, q)
			}
			key := cq.CacheKey()
			if key == "" {
				return nextFn(ctx, q)
			}
			key = q.Key() + ":" + key
			if gc, ok := store.(GenerationalCache); ok {
				gen, err := gc.Generation(ctx)
				if err != nil {
					logger.WarnContext(ctx, "query cache generation unavailable", "query", q.Key(), "error", err)
					return nextFn(ctx, q)
				}
				key += "#" + strconv.FormatUint(gen, 10)
			}

			payload, found, err := store.Get(ctx, key)
			if err != nil {
				logger.WarnContext(ctx, "query cache read failed", "query", q.Key(), "error", err)
			}
			if found {
				proto := cq.ResultPrototype()
				if proto == nil {
					return nil, errMissingPrototype
				}
				if err := codec.Decode(payload, proto); err == nil {
					return derefPrototype(proto), nil
				}
				logger.WarnContext(ctx, "query cache entry undecodable", "query", q.Key())
			}

			result, err := nextFn(ctx, q)
			if err != nil {
				return nil, err
			}
			encoded, encErr := codec.Encode(result)
			if encErr != nil {
				logger.WarnContext(ctx, "query cache encode failed", "query", q.Key(), "error", encErr)
				return result, nil
			}
			if err := store.Set(ctx, key, encoded, ttl); err != nil {
				logger.WarnContext(ctx, "query cache write failed", "query", q.Key(), "error", err)
			}
			return result, nil
		})
	}
}

// derefPrototype turns the decoded *T back into the T handlers return.
func derefPrototype(proto any) any {
	rv := reflect.ValueOf(proto)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return proto
}
