// Package vtk emits a distree.DistributedTree as a VTK unstructured-grid XML
// file (.vtu): one voxel cell per leaf, plus a poly-vertex cell carrying the
// rank's particles, with a "colors" point-data scalar distinguishing the two
// (0 = voxel corner, 1 = particle). No ecosystem VTK-XML writer appears
// anywhere in the corpus, so this is built directly on encoding/xml — see
// DESIGN.md for that justification.
package vtk

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/flier/octree/distree"
	"github.com/flier/octree/domain"
	"github.com/flier/octree/morton"
)

const (
	cellTypeVoxel      = 11 // VTK_VOXEL
	cellTypePolyVertex = 2  // VTK_POLY_VERTEX
)

type vtkFile struct {
	XMLName xml.Name `xml:"VTKFile"`
	Type    string   `xml:"type,attr"`
	Version string   `xml:"version,attr"`
	Grid    grid     `xml:"UnstructuredGrid"`
}

type grid struct {
	Piece piece `xml:"Piece"`
}

type piece struct {
	NumberOfPoints int        `xml:"NumberOfPoints,attr"`
	NumberOfCells  int        `xml:"NumberOfCells,attr"`
	Points         pointBlock `xml:"Points"`
	Cells          cellBlock  `xml:"Cells"`
	PointData      dataBlock  `xml:"PointData"`
}

type pointBlock struct {
	Array dataArray `xml:"DataArray"`
}

type cellBlock struct {
	Arrays []dataArray `xml:"DataArray"`
}

type dataBlock struct {
	Array dataArray `xml:"DataArray"`
}

type dataArray struct {
	Name               string `xml:"Name,attr,omitempty"`
	Type               string `xml:"type,attr"`
	NumberOfComponents int    `xml:"NumberOfComponents,attr,omitempty"`
	Format             string `xml:"format,attr"`
	CharData           string `xml:",chardata"`
}

// Write emits t's geometry to path: one voxel per leaf key, followed by a
// poly-vertex cell spanning all of t's particles.
func Write(path string, t *distree.DistributedTree) error {
	var coords []float64
	var colors []string

	voxelCorners := make([][8]int, len(t.Keys))
	for leaf, k := range t.Keys {
		for c := 0; c < 8; c++ {
			dx, dy, dz := (c & 1), (c>>1)&1, (c>>2)&1
			world := voxelCorner(t.Domain, k, dx, dy, dz)
			idx := len(coords) / 3
			coords = append(coords, world[0], world[1], world[2])
			colors = append(colors, "0")
			voxelCorners[leaf][c] = idx
		}
	}

	particleStart := len(coords) / 3
	for _, p := range t.Points {
		coords = append(coords, p.Coordinate[0], p.Coordinate[1], p.Coordinate[2])
		colors = append(colors, "1")
	}

	var connectivity, offsets, types []string
	offset := 0
	for _, corners := range voxelCorners {
		// VTK_VOXEL orders corners (0,0,0),(1,0,0),(0,1,0),(1,1,0),(0,0,1),(1,0,1),(0,1,1),(1,1,1),
		// which is exactly the c-bit ordering used above.
		for _, idx := range corners {
			connectivity = append(connectivity, strconv.Itoa(idx))
		}
		offset += 8
		offsets = append(offsets, strconv.Itoa(offset))
		types = append(types, strconv.Itoa(cellTypeVoxel))
	}

	if n := len(t.Points); n > 0 {
		for i := 0; i < n; i++ {
			connectivity = append(connectivity, strconv.Itoa(particleStart+i))
		}
		offset += n
		offsets = append(offsets, strconv.Itoa(offset))
		types = append(types, strconv.Itoa(cellTypePolyVertex))
	}

	numCells := len(t.Keys)
	if len(t.Points) > 0 {
		numCells++
	}

	doc := vtkFile{
		Type:    "UnstructuredGrid",
		Version: "1.0",
		Grid: grid{Piece: piece{
			NumberOfPoints: len(coords) / 3,
			NumberOfCells:  numCells,
			Points: pointBlock{Array: dataArray{
				Type:               "Float64",
				NumberOfComponents: 3,
				Format:             "ascii",
				CharData:           joinFloats(coords),
			}},
			Cells: cellBlock{Arrays: []dataArray{
				{Name: "connectivity", Type: "Int64", Format: "ascii", CharData: strings.Join(connectivity, " ")},
				{Name: "offsets", Type: "Int64", Format: "ascii", CharData: strings.Join(offsets, " ")},
				{Name: "types", Type: "UInt8", Format: "ascii", CharData: strings.Join(types, " ")},
			}},
			PointData: dataBlock{Array: dataArray{
				Name:     "colors",
				Type:     "Int32",
				Format:   "ascii",
				CharData: strings.Join(colors, " "),
			}},
		}},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("vtk: marshal: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("vtk: create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(xml.Header); err != nil {
		return fmt.Errorf("vtk: write %s: %w", path, err)
	}
	if _, err := f.Write(out); err != nil {
		return fmt.Errorf("vtk: write %s: %w", path, err)
	}
	if _, err := f.WriteString("\n"); err != nil {
		return fmt.Errorf("vtk: write %s: %w", path, err)
	}

	return nil
}

// voxelCorner returns the world-space location of corner (dx,dy,dz) (each 0
// or 1) of k's cell, anchored in d's coordinate system.
func voxelCorner(d domain.Domain, k morton.Key, dx, dy, dz int) [3]float64 {
	anchor := k.Anchor()
	span := k.Span()
	grid := float64(uint32(1) << morton.LMax)

	relative := [3]float64{
		(float64(anchor.X) + float64(dx)*float64(span)) / grid,
		(float64(anchor.Y) + float64(dy)*float64(span)) / grid,
		(float64(anchor.Z) + float64(dz)*float64(span)) / grid,
	}

	return d.World(relative)
}

func joinFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
