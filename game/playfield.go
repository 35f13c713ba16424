package game

// Default playfield dimensions.
const (
	Width  = 10
	Height = 20
)

// Playfield is the grid of settled cells. Row 0 is the top.
type Playfield struct {
	Width  int
	Height int
	// rows[y][x] is 0 when empty, otherwise the settled Kind plus one.
	rows [][]uint8
}

// NewPlayfield returns an empty width x height grid.
func NewPlayfield(width, height int) Playfield {
	rows := make([][]uint8, height)
	for y := range rows {
		rows[y] = make([]uint8, width)
	}
	return Playfield{Width: width, Height: height, rows: rows}
}

// At returns the kind settled at (x, y) and whether the cell is filled.
// Cells outside the grid are reported empty.
func (p *Playfield) At(x, y int) (Kind, bool) {
	if !p.inside(x, y) || p.rows[y][x] == 0 {
		return 0, false
	}
	return Kind(p.rows[y][x] - 1), true
}

// Set fills (x, y) with kind.
func (p *Playfield) Set(x, y int, kind Kind) {
	if p.inside(x, y) {
		p.rows[y][x] = uint8(kind) + 1
	}
}

func (p *Playfield) inside(x, y int) bool {
	return x >= 0 && x < p.Width && y >= 0 && y < p.Height
}

// Collides reports whether shape placed with its origin at (x, y) leaves
// the grid or overlaps a settled cell.
func (p *Playfield) Collides(shape Shape, x, y int) bool {
	for _, c := range shape.cells {
		cx, cy := x+c.X, y+c.Y
		if !p.inside(cx, cy) || p.rows[cy][cx] != 0 {
			return true
		}
	}
	return false
}

// Place settles shape at (x, y).
func (p *Playfield) Place(shape Shape, x, y int, kind Kind) {
	for _, c := range shape.cells {
		p.Set(x+c.X, y+c.Y, kind)
	}
}

// DropRow returns the lowest row the shape can reach from y by moving
// straight down.
func (p *Playfield) DropRow(shape Shape, x, y int) int {
	for !p.Collides(shape, x, y+1) {
		y++
	}
	return y
}

// RowFull reports whether every cell of row y is filled.
func (p *Playfield) RowFull(y int) bool {
	for _, v := range p.rows[y] {
		if v == 0 {
			return false
		}
	}
	return true
}

// ClearFullRows removes every full row, lets the rows above fall, and
// returns the removed row indices in ascending order.
func (p *Playfield) ClearFullRows() []int {
	var cleared []int
	full := make([]bool, p.Height)
	for y := range p.Height {
		if p.RowFull(y) {
			full[y] = true
			cleared = append(cleared, y)
		}
	}
	if len(cleared) == 0 {
		return nil
	}

	dst := p.Height - 1
	for y := p.Height - 1; y >= 0; y-- {
		if full[y] {
			continue
		}
		if dst != y {
			copy(p.rows[dst], p.rows[y])
		}
		dst--
	}
	for ; dst >= 0; dst-- {
		clear(p.rows[dst])
	}
	return cleared
}

// Filled returns the number of settled cells.
func (p *Playfield) Filled() int {
	n := 0
	for _, row := range p.rows {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// Reset empties the grid.
func (p *Playfield) Reset() {
	for _, row := range p.rows {
		clear(row)
	}
}
