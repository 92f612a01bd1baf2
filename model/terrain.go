package model

import (
	"fmt"
	"strings"
)

// TerrainType classifies a single map tile.
type TerrainType byte

const (
	Land   TerrainType = 0 // passable ground
	Water  TerrainType = 1 // naval only
	Cliff  TerrainType = 2 // impassable (rock, tree, wall)
	Bridge TerrainType = 3 // land corridor over water
)

// Map is the tile grid the units live on.
type Map struct {
	Width  int
	Height int
	Tiles  []TerrainType // row-major: Tiles[y*Width + x]
}

// NewMap returns an all-land map.
func NewMap(w, h int) *Map {
	return &Map{Width: w, Height: h, Tiles: make([]TerrainType, w*h)}
}

// ParseMap builds a map from rows of glyphs: '.' land, '~' water,
// '#' cliff, '=' bridge.
func ParseMap(rows []string) (*Map, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse map: no rows")
	}
	m := NewMap(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != m.Width {
			return nil, fmt.Errorf("parse map: row %d has width %d, want %d", y, len(row), m.Width)
		}
		for x, c := range row {
			var t TerrainType
			switch c {
			case '.':
				t = Land
			case '~':
				t = Water
			case '#':
				t = Cliff
			case '=':
				t = Bridge
			default:
				return nil, fmt.Errorf("parse map: unknown glyph %q at (%d,%d)", c, x, y)
			}
			m.Tiles[y*m.Width+x] = t
		}
	}
	return m, nil
}

// String renders the map in the ParseMap glyphs.
func (m *Map) String() string {
	glyphs := [...]byte{Land: '.', Water: '~', Cliff: '#', Bridge: '='}
	var b strings.Builder
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			b.WriteByte(glyphs[m.Tiles[y*m.Width+x]])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Inside reports whether (x, y) is on the map.
func (m *Map) Inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// At returns the terrain at (x, y). Off-map tiles read as Cliff.
func (m *Map) At(x, y int) TerrainType {
	if !m.Inside(x, y) {
		return Cliff
	}
	return m.Tiles[y*m.Width+x]
}

// Passable reports whether a unit of domain d may stand on (x, y),
// ignoring other units.
func (m *Map) Passable(x, y int, d Domain) bool {
	if !m.Inside(x, y) {
		return false
	}
	switch t := m.At(x, y); d {
	case DomainAir:
		return true
	case DomainNaval:
		return t == Water
	default:
		return t == Land || t == Bridge
	}
}

// Clip clamps the half-open rectangle [x1,x2)x[y1,y2) to the map.
func (m *Map) Clip(x1, y1, x2, y2 int) (int, int, int, int) {
	return max(x1, 0), max(y1, 0), min(x2, m.Width), min(y2, m.Height)
}

// ClampX clamps x into the map's columns.
func (m *Map) ClampX(x int) int { return min(max(x, 0), m.Width-1) }

// ClampY clamps y into the map's rows.
func (m *Map) ClampY(y int) int { return min(max(y, 0), m.Height-1) }

// HasWater returns true if any tile is Water.
func (m *Map) HasWater() bool {
	for _, t := range m.Tiles {
		if t == Water {
			return true
		}
	}
	return false
}
