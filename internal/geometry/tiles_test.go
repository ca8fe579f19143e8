package geometry

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestChunkIndex(t *testing.T) {
	chunkPx := TileSizePx * ChunkSizeTiles

	tests := map[string]struct {
		pos Vec
		exp uint32
	}{
		"origin":             {pos: Vec{}, exp: 0},
		"second chunk east":  {pos: Vec{X: chunkPx, Y: 0}, exp: 1},
		"second chunk south": {pos: Vec{X: 0, Y: chunkPx}, exp: WorldWidthChunks},
		"clamped negative":   {pos: Vec{X: -500, Y: -500}, exp: 0},
		"clamped far corner": {
			pos: Vec{X: 1e9, Y: 1e9},
			exp: WorldWidthChunks*WorldHeightChunks - 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "chunk", ChunkIndex(tt.pos), tt.exp)
		})
	}
}

func TestEdgeOpposite(t *testing.T) {
	tests := map[string]struct {
		edge       Edge
		expX, expY int
		expEdge    Edge
	}{
		"north": {edge: EdgeNorth, expX: 5, expY: 4, expEdge: EdgeSouth},
		"south": {edge: EdgeSouth, expX: 5, expY: 6, expEdge: EdgeNorth},
		"east":  {edge: EdgeEast, expX: 6, expY: 5, expEdge: EdgeWest},
		"west":  {edge: EdgeWest, expX: 4, expY: 5, expEdge: EdgeEast},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			x, y, e := tt.edge.Opposite(5, 5)
			testutil.AssertEqual(t, "x", x, tt.expX)
			testutil.AssertEqual(t, "y", y, tt.expY)
			testutil.AssertEqual(t, "edge", e, tt.expEdge)
		})
	}
}

func TestTileTypeWater(t *testing.T) {
	testutil.AssertEqual(t, "sea", TileSea.IsWater(), true)
	testutil.AssertEqual(t, "hot spring", TileHotSpringWater.IsWater(), true)
	testutil.AssertEqual(t, "grass", TileGrass.IsWater(), false)
	testutil.AssertEqual(t, "sea blocks", TileSea.BlocksPlacement(), true)
	testutil.AssertEqual(t, "asphalt blocks", TileAsphalt.BlocksPlacement(), true)
	testutil.AssertEqual(t, "beach allows", TileBeach.BlocksPlacement(), false)
}
