// Package jsonsource implements the JSON row source: the file must
// decode to a top-level array of objects, and each object becomes a Row
// keyed by Column(field name), with null/bool/number/string mapped onto
// the corresponding Value variant (non-scalar values are skipped).
package jsonsource

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/omniql-engine/queryengine/engine/ast"
	"github.com/omniql-engine/queryengine/engine/row"
	"github.com/omniql-engine/queryengine/engine/source"
	"github.com/omniql-engine/queryengine/engine/value"
)

func init() {
	source.RegisterExtension("json", Open)
}

// Source replays an in-memory slice of decoded JSON objects as Rows.
type Source struct {
	objects []map[string]any
	pos     int
}

// Open reads filename fully and decodes it as a top-level JSON array of
// objects. Non-object array elements are skipped (mirroring the original
// implementation's loop-until-object behavior).
func Open(filename string) (source.Source, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, source.Wrap(err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, source.Wrap(err)
	}

	arr, ok := raw.([]any)
	if !ok {
		return nil, source.NewError("invalid JSON")
	}

	objects := make([]map[string]any, 0, len(arr))
	for _, elem := range arr {
		if m, ok := elem.(map[string]any); ok {
			objects = append(objects, m)
		}
	}

	return &Source{objects: objects}, nil
}

// Next implements source.Source.
func (s *Source) Next() (*row.Row, error, bool) {
	if s.pos >= len(s.objects) {
		return nil, nil, true
	}
	obj := s.objects[s.pos]
	s.pos++

	r := row.New()
	for key, raw := range obj {
		v, ok := toValue(raw)
		if !ok {
			continue
		}
		r.Insert(ast.NewColumn(key), v)
	}
	return r, nil, false
}

func toValue(raw any) (value.Value, bool) {
	switch v := raw.(type) {
	case nil:
		return value.Null, true
	case bool:
		return value.NewBool(v), true
	case string:
		return value.NewString(v), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return value.NewInt(i), true
		}
		f, err := v.Float64()
		if err != nil {
			return value.Value{}, false
		}
		return value.NewFloat(f), true
	default:
		return value.Value{}, false
	}
}
