package model

// Headings in Direction units, clockwise from north.
const (
	HeadingN  = 0 * NextDirection
	HeadingNE = 1 * NextDirection
	HeadingE  = 2 * NextDirection
	HeadingSE = 3 * NextDirection
	HeadingS  = 4 * NextDirection
	HeadingSW = 5 * NextDirection
	HeadingW  = 6 * NextDirection
	HeadingNW = 7 * NextDirection
)

// Heading2X and Heading2Y give the tile step for each of the 8 headings.
var (
	Heading2X = [8]int{0, +1, +1, +1, 0, -1, -1, -1}
	Heading2Y = [8]int{-1, -1, 0, +1, +1, +1, 0, -1}
)

// HeadingFromDelta maps a step to the nearest compass heading. A zero
// step returns -1.
func HeadingFromDelta(dx, dy int) int {
	dx, dy = sign(dx), sign(dy)
	for i := range Heading2X {
		if Heading2X[i] == dx && Heading2Y[i] == dy {
			return i * NextDirection
		}
	}
	return -1
}

// HeadingStep returns the tile step of a Direction value.
func HeadingStep(dir int) (dx, dy int) {
	i := ((dir + NextDirection/2) & 0xFF) / NextDirection
	return Heading2X[i], Heading2Y[i]
}

// MapDistance is the chessboard distance between two tiles.
func MapDistance(x1, y1, x2, y2 int) int {
	return max(abs(x1-x2), abs(y1-y2))
}

// DistanceToRect is the chessboard distance from (x, y) to the nearest
// tile of the w x h rectangle at (rx, ry).
func DistanceToRect(x, y, rx, ry, w, h int) int {
	dx := axisGap(x, x+1, rx, rx+w)
	dy := axisGap(y, y+1, ry, ry+h)
	return max(dx, dy)
}

// DistanceToUnit is the distance from (x, y) to u's footprint.
func DistanceToUnit(x, y int, u *Unit) int {
	ux, uy, w, h := u.Footprint()
	return DistanceToRect(x, y, ux, uy, w, h)
}

// DistanceBetweenUnits is the gap between two footprints. Adjacent units
// are at distance 1, overlapping ones at 0.
func DistanceBetweenUnits(a, b *Unit) int {
	ax, ay, aw, ah := a.Footprint()
	bx, by, bw, bh := b.Footprint()
	return RectDistance(ax, ay, aw, ah, bx, by, bw, bh)
}

// RectDistance is the chessboard gap between two rectangles.
func RectDistance(ax, ay, aw, ah, bx, by, bw, bh int) int {
	return max(axisGap(ax, ax+aw, bx, bx+bw), axisGap(ay, ay+ah, by, by+bh))
}

// RectsIntersect reports whether [ax,ax+aw)x[ay,ay+ah) and the second
// rectangle share a tile.
func RectsIntersect(ax, ay, aw, ah, bx, by, bw, bh int) bool {
	return ax < bx+bw && bx < ax+aw && ay < by+bh && by < ay+ah
}

// axisGap returns the tile distance between [a1,a2) and [b1,b2) on one
// axis: 0 when they overlap, 1 when they touch.
func axisGap(a1, a2, b1, b2 int) int {
	switch {
	case a2 <= b1:
		return b1 - a2 + 1
	case b2 <= a1:
		return a1 - b2 + 1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
