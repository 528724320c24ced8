// Package csvsource implements the CSV row source: the first record is
// treated as headers, and every other record becomes a Row of
// String-variant Value cells keyed by Column(header).
package csvsource

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/omniql-engine/queryengine/engine/ast"
	"github.com/omniql-engine/queryengine/engine/row"
	"github.com/omniql-engine/queryengine/engine/source"
	"github.com/omniql-engine/queryengine/engine/value"
)

func init() {
	source.RegisterExtension("csv", Open)
}

// Source reads rows from a CSV file, one Row per record after the header.
type Source struct {
	file    *os.File
	reader  *csv.Reader
	headers []string
}

// Open opens filename as a CSV source, reading its header row eagerly.
func Open(filename string) (source.Source, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, source.Wrap(err)
	}

	reader := csv.NewReader(f)
	headers, err := reader.Read()
	if err != nil {
		f.Close()
		return nil, source.Wrap(err)
	}

	return &Source{file: f, reader: reader, headers: headers}, nil
}

// Next implements source.Source.
func (s *Source) Next() (*row.Row, error, bool) {
	record, err := s.reader.Read()
	if err == io.EOF {
		s.file.Close()
		return nil, nil, true
	}
	if err != nil {
		return nil, source.Wrap(err), false
	}

	r := row.New()
	for i, field := range record {
		if i >= len(s.headers) {
			break
		}
		r.Insert(ast.NewColumn(s.headers[i]), value.NewString(field))
	}
	return r, nil, false
}
