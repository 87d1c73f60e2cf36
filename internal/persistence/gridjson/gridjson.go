// Package gridjson is the interchange format for city grids: a JSON document
// checked against an embedded schema before the cell invariants are applied.
package gridjson

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"urban-ca/internal/core"
	"urban-ca/internal/sims/city"
)

// Version is the document format written by Encode.
const Version = 1

// ErrSchema reports a document that does not match the grid schema.
var ErrSchema = errors.New("grid document does not match schema")

//go:embed grid.schema.json
var schemaSource string

var schema = jsonschema.MustCompileString("grid.schema.json", schemaSource)

type Cell struct {
	Type       city.BuildingType `json:"type"`
	Age        int               `json:"age"`
	Population int               `json:"population"`
	Energy     int               `json:"energy"`
}

type Document struct {
	Version    int    `json:"version"`
	Generation uint64 `json:"generation"`
	Size       int    `json:"size"`
	Cells      []Cell `json:"cells"`
}

// FromGrid builds the document for g.
func FromGrid(g *city.Grid, generation uint64) Document {
	doc := Document{
		Version:    Version,
		Generation: generation,
		Size:       g.N(),
		Cells:      make([]Cell, 0, g.N()*g.N()),
	}
	g.Each(func(_, _ int, c city.Cell) {
		doc.Cells = append(doc.Cells, Cell(c))
	})
	return doc
}

// Grid converts the document back, enforcing size and cell invariants.
func (d Document) Grid() (*city.Grid, error) {
	cells := make([]city.Cell, len(d.Cells))
	for i, c := range d.Cells {
		cells[i] = city.Cell(c)
	}
	g, err := core.FromCells(d.Size, cells)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", city.ErrGridSize, err)
	}
	if err := city.Validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Encode writes g as an indented JSON document.
func Encode(w io.Writer, g *city.Grid, generation uint64) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(FromGrid(g, generation))
}

// Decode reads, validates and converts a document.
func Decode(r io.Reader) (*city.Grid, uint64, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	doc, err := Parse(raw)
	if err != nil {
		return nil, 0, err
	}
	g, err := doc.Grid()
	if err != nil {
		return nil, 0, err
	}
	return g, doc.Generation, nil
}

// Parse validates raw against the schema and unmarshals it.
func Parse(raw []byte) (Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return doc, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := schema.Validate(v); err != nil {
		return doc, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return doc, nil
}
