package geometry

import "math"

// World grid constants. The world is a fixed grid of tiles bucketed into
// coarse chunks; chunk index is the primary spatial index for entity queries.
const (
	TileSizePx           = 48.0
	FoundationTileSizePx = 96.0
	WorldWidthTiles      = 1000
	WorldHeightTiles     = 1000
	ChunkSizeTiles       = 20
	WorldWidthChunks     = WorldWidthTiles / ChunkSizeTiles
	WorldHeightChunks    = WorldHeightTiles / ChunkSizeTiles
)

// TileType categorizes a world tile for placement and movement rules.
type TileType uint8

const (
	TileGrass TileType = iota
	TileDirt
	TileDirtRoad
	TileSea
	TileBeach
	TileSand
	TileHotSpringWater
	TileQuarry
	TileAsphalt
	TileForest
	TileTundra
	TileAlpine
	TileTundraGrass
)

// IsWater reports whether the tile is any form of water.
func (t TileType) IsWater() bool {
	return t == TileSea || t == TileHotSpringWater
}

// BlocksPlacement reports whether structures may never be placed on the tile.
func (t TileType) BlocksPlacement() bool {
	return t.IsWater() || t == TileAsphalt
}

// TileForPosition converts a world position to tile coordinates.
func TileForPosition(p Vec) (int, int) {
	return int(math.Floor(p.X / TileSizePx)), int(math.Floor(p.Y / TileSizePx))
}

// CellForPosition converts a world position to a foundation-grid cell.
func CellForPosition(p Vec) (int, int) {
	return int(math.Floor(p.X / FoundationTileSizePx)), int(math.Floor(p.Y / FoundationTileSizePx))
}

// CellCenter returns the midpoint of a foundation cell.
func CellCenter(cellX, cellY int) Vec {
	return Vec{
		X: float64(cellX)*FoundationTileSizePx + FoundationTileSizePx/2,
		Y: float64(cellY)*FoundationTileSizePx + FoundationTileSizePx/2,
	}
}

// ChunkIndex maps a world position to its 1D chunk bucket, row-major.
// Positions past the world border clamp onto the edge chunks so the index is
// total.
func ChunkIndex(p Vec) uint32 {
	tx, ty := TileForPosition(p)
	if tx < 0 {
		tx = 0
	}
	if ty < 0 {
		ty = 0
	}
	cx := min(tx/ChunkSizeTiles, WorldWidthChunks-1)
	cy := min(ty/ChunkSizeTiles, WorldHeightChunks-1)
	return uint32(cy*WorldWidthChunks + cx)
}

// Edge identifies one side of a foundation-grid cell. Walls and fences
// occupy edges; the shared edge between adjacent cells is the same physical
// edge.
type Edge uint8

const (
	EdgeNorth Edge = iota
	EdgeEast
	EdgeSouth
	EdgeWest
)

func (e Edge) String() string {
	switch e {
	case EdgeNorth:
		return "north"
	case EdgeEast:
		return "east"
	case EdgeSouth:
		return "south"
	case EdgeWest:
		return "west"
	}
	return "unknown"
}

// Opposite returns the cell and edge that describe the same physical edge
// from the adjacent cell's point of view.
func (e Edge) Opposite(cellX, cellY int) (int, int, Edge) {
	switch e {
	case EdgeNorth:
		return cellX, cellY - 1, EdgeSouth
	case EdgeEast:
		return cellX + 1, cellY, EdgeWest
	case EdgeSouth:
		return cellX, cellY + 1, EdgeNorth
	default:
		return cellX - 1, cellY, EdgeEast
	}
}

// EdgeCenter returns the world position of the midpoint of a cell edge.
func EdgeCenter(cellX, cellY int, e Edge) Vec {
	left := float64(cellX) * FoundationTileSizePx
	top := float64(cellY) * FoundationTileSizePx
	switch e {
	case EdgeNorth:
		return Vec{X: left + FoundationTileSizePx/2, Y: top}
	case EdgeEast:
		return Vec{X: left + FoundationTileSizePx, Y: top + FoundationTileSizePx/2}
	case EdgeSouth:
		return Vec{X: left + FoundationTileSizePx/2, Y: top + FoundationTileSizePx}
	default:
		return Vec{X: left, Y: top + FoundationTileSizePx/2}
	}
}

// MonumentZone is a forbidden-placement region around a world monument
// (rune stones, quarries, hot springs, ALK stations).
type MonumentZone struct {
	Name   string
	Center Vec
	Radius float64
}

// InAnyZone reports whether the point lies inside any monument zone.
func InAnyZone(zones []MonumentZone, p Vec) bool {
	for _, z := range zones {
		if WithinRange(z.Center, p, z.Radius) {
			return true
		}
	}
	return false
}
