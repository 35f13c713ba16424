package game

// Kind identifies one of the seven tetrominoes.
type Kind uint8

const (
	KindZ Kind = iota
	KindS
	KindO
	KindJ
	KindT
	KindI
	KindL

	NumKinds = 7
)

var kindNames = [NumKinds]string{"Z", "S", "O", "J", "T", "I", "L"}

func (k Kind) String() string {
	if int(k) < NumKinds {
		return kindNames[k]
	}
	return "?"
}

// packedShapes holds every orientation of every kind. Each 16-bit lane is
// one orientation (lane r at bits r*16); inside a lane square i stores its
// row in bits 4i..4i+1 and its column in bits 4i+2..4i+3.
var packedShapes = [NumKinds]uint64{
	0x2154_9540_2154_9540,
	0x6510_8451_6510_8451,
	0x5140_5140_5140_5140,
	0x9840_2140_9510_2654,
	0x1654_5840_5210_4951,
	0x3210_c840_3210_c840,
	0x8951_6540_1840_6210,
}

// Rotations is the number of orientations per kind.
const Rotations = 4

// Point is a cell offset inside a shape or a cell on the playfield.
type Point struct {
	X, Y int
}

// Shape is one orientation of a kind, normalized so its top-left bounding
// box corner is (0, 0).
type Shape struct {
	cells  [4]Point
	width  int
	height int
}

// Cells returns the four occupied offsets.
func (s Shape) Cells() [4]Point {
	return s.cells
}

// Size returns the bounding box width and height.
func (s Shape) Size() (width, height int) {
	return s.width, s.height
}

var shapes = decodeShapes()

func decodeShapes() (out [NumKinds][Rotations]Shape) {
	for kind, packed := range packedShapes {
		for rot := range Rotations {
			lane := packed >> (16 * rot)
			var s Shape
			minX, minY := 3, 3
			for i := range s.cells {
				p := Point{
					X: int(lane>>(4*i+2)) & 3,
					Y: int(lane>>(4*i)) & 3,
				}
				s.cells[i] = p
				minX, minY = min(minX, p.X), min(minY, p.Y)
			}
			for i := range s.cells {
				s.cells[i].X -= minX
				s.cells[i].Y -= minY
				s.width = max(s.width, s.cells[i].X+1)
				s.height = max(s.height, s.cells[i].Y+1)
			}
			out[kind][rot] = s
		}
	}
	return out
}

// ShapeOf returns the shape of kind at rotation. Rotation wraps modulo 4.
func ShapeOf(kind Kind, rotation int) Shape {
	return shapes[kind][((rotation%Rotations)+Rotations)%Rotations]
}
