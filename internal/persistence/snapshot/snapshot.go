// Package snapshot stores a city generation on disk: a JSON header line and a
// gob body, both inside one zstd stream.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"urban-ca/internal/core"
	"urban-ca/internal/sims/city"
)

// Version is the current snapshot format.
const Version = 1

// ErrVersion reports a snapshot written in a format this build cannot read.
var ErrVersion = errors.New("unsupported snapshot version")

type Header struct {
	Version    int    `json:"version"`
	Generation uint64 `json:"generation"`
	Size       int    `json:"size"`
	Seed       int64  `json:"seed"`
	Layout     string `json:"layout,omitempty"`
}

type CellV1 struct {
	Type       uint8 `json:"type"`
	Age        int   `json:"age"`
	Population int   `json:"population"`
	Energy     int   `json:"energy"`
}

type SnapshotV1 struct {
	Header Header   `json:"header"`
	Cells  []CellV1 `json:"cells"`
}

// FromGrid captures g in row-major order.
func FromGrid(g *city.Grid, generation uint64, seed int64, layout string) SnapshotV1 {
	snap := SnapshotV1{
		Header: Header{
			Version:    Version,
			Generation: generation,
			Size:       g.N(),
			Seed:       seed,
			Layout:     layout,
		},
		Cells: make([]CellV1, 0, g.N()*g.N()),
	}
	g.Each(func(_, _ int, c city.Cell) {
		snap.Cells = append(snap.Cells, CellV1{
			Type:       uint8(c.Type),
			Age:        c.Age,
			Population: c.Population,
			Energy:     c.Energy,
		})
	})
	return snap
}

// ToGrid rebuilds the grid and checks every cell.
func (s SnapshotV1) ToGrid() (*city.Grid, error) {
	cells := make([]city.Cell, len(s.Cells))
	for i, c := range s.Cells {
		cells[i] = city.Cell{
			Type:       city.BuildingType(c.Type),
			Age:        c.Age,
			Population: c.Population,
			Energy:     c.Energy,
		}
	}
	g, err := core.FromCells(s.Header.Size, cells)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", city.ErrGridSize, err)
	}
	if err := city.Validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Encode writes snap to w as a zstd stream.
func Encode(w io.Writer, snap SnapshotV1) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 64*1024)

	hb, err := json.Marshal(snap.Header)
	if err != nil {
		enc.Close()
		return err
	}
	if _, err := bw.Write(append(hb, '\n')); err != nil {
		enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (SnapshotV1, error) {
	var snap SnapshotV1
	dec, err := zstd.NewReader(r)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)
	h, err := readHeader(br)
	if err != nil {
		return snap, err
	}
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	if snap.Header != h {
		return snap, fmt.Errorf("header line %+v disagrees with body %+v", h, snap.Header)
	}
	return snap, nil
}

// Write stores snap at path, creating parent directories.
func Write(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := Encode(f, snap); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// Read loads the snapshot stored at path.
func Read(path string) (SnapshotV1, error) {
	f, err := os.Open(path)
	if err != nil {
		return SnapshotV1{}, err
	}
	defer f.Close()
	snap, err := Decode(f)
	if err != nil {
		return snap, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// ReadHeader decodes only the header line of the snapshot at path.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return Header{}, err
	}
	defer dec.Close()
	return readHeader(bufio.NewReader(dec))
}

func readHeader(br *bufio.Reader) (Header, error) {
	var h Header
	line, err := br.ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("parse header: %w", err)
	}
	if h.Version != Version {
		return h, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}
	return h, nil
}
