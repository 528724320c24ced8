// Package mongosource implements an additional row source, beyond the
// spec's CSV/JSON pair, that reads a MongoDB collection when "from" is
// given as a "mongodb://" URI. The first path segment names the database
// and a second segment names the collection as written; with only one
// segment, the collection is that segment's English plural (the way the
// teacher's translators pluralize entity names for storage lookups).
// Either is overridden by a "?collection=" query parameter.
package mongosource

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/jinzhu/inflection"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/omniql-engine/queryengine/engine/ast"
	"github.com/omniql-engine/queryengine/engine/row"
	"github.com/omniql-engine/queryengine/engine/source"
	"github.com/omniql-engine/queryengine/engine/value"
)

func init() {
	source.RegisterScheme("mongodb", Open)
}

const connectTimeout = 10 * time.Second

// Source streams documents from one MongoDB collection, one Row per
// document. It owns the client it opened and closes it when the cursor
// is exhausted or fails.
type Source struct {
	ctx    context.Context
	cancel context.CancelFunc
	client *mongo.Client
	cursor *mongo.Cursor
}

// Open connects to the database named by target's first path segment and
// reads the collection named by the second segment, or the plural of the
// first when there is no second (the "collection" query parameter, if
// given, overrides both).
func Open(target string) (source.Source, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, source.Wrap(err)
	}

	dbName, collName := splitDatabaseAndCollection(u)
	if coll := u.Query().Get("collection"); coll != "" {
		collName = coll
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(target))
	if err != nil {
		cancel()
		return nil, source.Wrap(err)
	}

	cursor, err := client.Database(dbName).Collection(collName).Find(ctx, bson.M{})
	if err != nil {
		cancel()
		_ = client.Disconnect(context.Background())
		return nil, source.Wrap(err)
	}

	return &Source{ctx: ctx, cancel: cancel, client: client, cursor: cursor}, nil
}

func splitDatabaseAndCollection(u *url.URL) (db, collection string) {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], inflection.Plural(strings.ToLower(parts[0]))
	default:
		return parts[0], parts[1]
	}
}

// Next implements source.Source.
func (s *Source) Next() (*row.Row, error, bool) {
	if !s.cursor.Next(s.ctx) {
		err := s.cursor.Err()
		s.close()
		if err != nil {
			return nil, source.Wrap(err), false
		}
		return nil, nil, true
	}

	var doc bson.M
	if err := s.cursor.Decode(&doc); err != nil {
		return nil, source.Wrap(err), false
	}

	r := row.New()
	for key, raw := range doc {
		v, ok := toValue(raw)
		if !ok {
			continue
		}
		r.Insert(ast.NewColumn(key), v)
	}
	return r, nil, false
}

func (s *Source) close() {
	s.cursor.Close(context.Background())
	_ = s.client.Disconnect(context.Background())
	s.cancel()
}

func toValue(raw any) (value.Value, bool) {
	switch v := raw.(type) {
	case nil:
		return value.Null, true
	case bool:
		return value.NewBool(v), true
	case string:
		return value.NewString(v), true
	case int32:
		return value.NewInt(int64(v)), true
	case int64:
		return value.NewInt(v), true
	case float64:
		return value.NewFloat(v), true
	default:
		return value.Value{}, false
	}
}
