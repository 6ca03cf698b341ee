package grid

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	astar "github.com/pdrpinto/go-astar"
)

var (
	ErrDimensionMismatch = errors.New("grid: cell count does not match width*height")
	ErrRaggedRows        = errors.New("grid: matrix rows differ in length")
)

// VertexMatrix is a read-only row-major view of cell weights. A negative
// weight marks an impassable cell; any other weight multiplies the cost of
// entering the cell.
type VertexMatrix[C astar.Cost] struct {
	Width, Height int
	cells         []C
}

// NewVertexMatrix wraps cells, which must hold exactly width*height weights.
func NewVertexMatrix[C astar.Cost](width, height int, cells []C) (VertexMatrix[C], error) {
	if width < 0 || height < 0 || len(cells) != width*height {
		return VertexMatrix[C]{}, fmt.Errorf("%w: %dx%d with %d cells", ErrDimensionMismatch, width, height, len(cells))
	}
	return VertexMatrix[C]{Width: width, Height: height, cells: cells}, nil
}

// Uniform returns a width x height matrix with every cell set to weight.
func Uniform[C astar.Cost](width, height int, weight C) VertexMatrix[C] {
	cells := make([]C, width*height)
	for i := range cells {
		cells[i] = weight
	}
	return VertexMatrix[C]{Width: width, Height: height, cells: cells}
}

func (vm VertexMatrix[C]) Weight(c Coord) C { return vm.cells[c.Y*vm.Width+c.X] }

func (vm VertexMatrix[C]) IsOff(c Coord) bool {
	return c.X < 0 || c.X >= vm.Width || c.Y < 0 || c.Y >= vm.Height
}

// IsPassable reports whether c is on the grid with a non-negative weight.
func (vm VertexMatrix[C]) IsPassable(c Coord) bool {
	return !vm.IsOff(c) && vm.Weight(c) >= 0
}

// IsPassableBelow is IsPassable with an upper bound on the weight.
func (vm VertexMatrix[C]) IsPassableBelow(c Coord, limit C) bool {
	return vm.IsPassable(c) && vm.Weight(c) <= limit
}

func (vm VertexMatrix[C]) Empty() bool { return len(vm.cells) == 0 }

// Cells returns a copy of the weights in row-major order.
func (vm VertexMatrix[C]) Cells() []C {
	out := make([]C, len(vm.cells))
	copy(out, vm.cells)
	return out
}

func (vm VertexMatrix[C]) String() string {
	var b strings.Builder
	b.WriteString("Vertex Matrix:\n")
	for y := 0; y < vm.Height; y++ {
		for x := 0; x < vm.Width; x++ {
			v := int(vm.Weight(Coord{x, y}))
			switch {
			case v < 0:
				b.WriteByte('x')
			case v == 1:
				b.WriteByte('-')
			case v > 9:
				b.WriteByte('+')
			default:
				b.WriteByte(byte('0' + v))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ReadMatrix parses comma separated rows of weights, one grid row per line.
// Blank cells and blank lines are skipped; all rows must hold the same
// number of weights.
func ReadMatrix[C astar.Cost](r io.Reader) (VertexMatrix[C], error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var cells []C
	width, height := 0, 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return VertexMatrix[C]{}, fmt.Errorf("grid: read matrix: %w", err)
		}

		row := 0
		for _, field := range record {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return VertexMatrix[C]{}, fmt.Errorf("grid: row %d: %w", height+1, err)
			}
			cells = append(cells, C(v))
			row++
		}
		if row == 0 {
			continue
		}
		if height > 0 && row != width {
			return VertexMatrix[C]{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRows, height+1, row, width)
		}
		width = row
		height++
	}
	return NewVertexMatrix(width, height, cells)
}

// LoadMatrix reads the matrix file at path. A missing or malformed file is
// logged and yields an empty matrix; callers check Empty before use.
func LoadMatrix[C astar.Cost](path string, log *logrus.Entry) VertexMatrix[C] {
	if log == nil {
		log = defaultLogger()
	}
	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("matrix file not found")
		return VertexMatrix[C]{}
	}
	defer f.Close()

	vm, err := ReadMatrix[C](f)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("malformed matrix file")
		return VertexMatrix[C]{}
	}
	log.WithFields(logrus.Fields{"path": path, "width": vm.Width, "height": vm.Height}).Debug("matrix loaded")
	return vm
}

// WriteMatrix writes vm in the format read by ReadMatrix.
func WriteMatrix[C astar.Cost](w io.Writer, vm VertexMatrix[C]) error {
	writer := csv.NewWriter(w)
	row := make([]string, vm.Width)
	for y := 0; y < vm.Height; y++ {
		for x := 0; x < vm.Width; x++ {
			row[x] = strconv.FormatFloat(float64(vm.Weight(Coord{x, y})), 'g', -1, 64)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("grid: write matrix: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func defaultLogger() *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger()).WithField("component", "grid")
}
