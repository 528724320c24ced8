// Package redissource implements a second additional row source: a
// "redis://host/db/pattern" target scans hashes matching pattern and
// yields one Row per matching key, built from that key's HGETALL. It is
// deliberately read-only and single-pass, matching spec §5's no-spill,
// no-mutation executor model.
package redissource

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/omniql-engine/queryengine/engine/ast"
	"github.com/omniql-engine/queryengine/engine/row"
	"github.com/omniql-engine/queryengine/engine/source"
	"github.com/omniql-engine/queryengine/engine/value"
)

func init() {
	source.RegisterScheme("redis", Open)
}

// Source replays the keys of one SCAN pass over a Redis hash pattern.
type Source struct {
	ctx    context.Context
	client *redis.Client
	keys   []string
	pos    int
}

// Open connects to the database named by target's path and scans for
// hash keys matching its second path segment (default "*").
func Open(target string) (source.Source, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, source.Wrap(err)
	}

	db, pattern := splitDBAndPattern(u)
	client := redis.NewClient(&redis.Options{Addr: u.Host, DB: db})

	ctx := context.Background()
	var keys []string
	var cursor uint64
	for {
		batch, next, err := client.Scan(ctx, cursor, pattern, 0).Result()
		if err != nil {
			_ = client.Close()
			return nil, source.Wrap(err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return &Source{ctx: ctx, client: client, keys: keys}, nil
}

func splitDBAndPattern(u *url.URL) (db int, pattern string) {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	pattern = "*"
	if len(parts) > 0 && parts[0] != "" {
		if n, err := strconv.Atoi(parts[0]); err == nil {
			db = n
		}
	}
	if len(parts) > 1 && parts[1] != "" {
		pattern = parts[1]
	}
	return db, pattern
}

// Next implements source.Source.
func (s *Source) Next() (*row.Row, error, bool) {
	if s.pos >= len(s.keys) {
		_ = s.client.Close()
		return nil, nil, true
	}
	key := s.keys[s.pos]
	s.pos++

	fields, err := s.client.HGetAll(s.ctx, key).Result()
	if err != nil {
		return nil, source.Wrap(err), false
	}

	r := row.New()
	r.Insert(ast.NewColumn("key"), value.NewString(key))
	for field, raw := range fields {
		r.Insert(ast.NewColumn(field), parseScalar(raw))
	}
	return r, nil, false
}

// parseScalar yields an Int when strconv.ParseInt accepts raw, else a
// Float when strconv.ParseFloat accepts it (signs, exponents, "Inf" and
// "NaN" included), and a String for anything else.
func parseScalar(raw string) value.Value {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return value.NewInt(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return value.NewFloat(f)
	}
	return value.NewString(raw)
}
