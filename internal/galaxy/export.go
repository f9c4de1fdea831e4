package galaxy

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"
)

// SnapshotExport is the JSON-serializable representation of one fetched galaxy.
type SnapshotExport struct {
	FetchedAt time.Time      `json:"fetched_at"`
	Params    ParamsExport   `json:"params"`
	Count     int            `json:"count"`
	Bounds    BoundsExport   `json:"bounds"`
	Systems   []SystemExport `json:"systems"`
}

// ParamsExport records the raw inputs of the request.
type ParamsExport struct {
	N   string `json:"n"`
	D   string `json:"d"`
	Phi string `json:"phi"`
}

// BoundsExport is the bounding box of all system coordinates.
type BoundsExport struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// SystemExport is a JSON-friendly star system.
type SystemExport struct {
	Name        string     `json:"name,omitempty"`
	Coordinates [2]float64 `json:"coordinates"`
	StarMass    float64    `json:"star_mass,omitempty"`
	StarRadius  float64    `json:"star_radius,omitempty"`
	Objects     []string   `json:"objects,omitempty"`
}

// ExportSnapshot converts fetched systems to an exportable format.
func ExportSnapshot(p Params, systems []StarSystem, fetchedAt time.Time) *SnapshotExport {
	export := &SnapshotExport{
		FetchedAt: fetchedAt,
		Params:    ParamsExport{N: p.N, D: p.D, Phi: p.Phi},
		Count:     len(systems),
		Bounds:    Bounds(systems),
		Systems:   make([]SystemExport, 0, len(systems)),
	}

	for _, sys := range systems {
		se := SystemExport{
			Name:        sys.Name,
			Coordinates: sys.Coordinates,
		}
		if sys.Star != nil {
			se.StarMass = sys.Star.Mass
			se.StarRadius = sys.Star.Radius
		}
		for id, obj := range sys.Objects {
			se.Objects = append(se.Objects, fmt.Sprintf("%s %s", id, obj.Type))
		}
		sort.Strings(se.Objects)
		export.Systems = append(export.Systems, se)
	}

	return export
}

// Bounds returns the bounding box of the systems' coordinates.
// An empty slice yields the zero box.
func Bounds(systems []StarSystem) BoundsExport {
	if len(systems) == 0 {
		return BoundsExport{}
	}
	b := BoundsExport{
		MinX: systems[0].X(), MaxX: systems[0].X(),
		MinY: systems[0].Y(), MaxY: systems[0].Y(),
	}
	for _, s := range systems[1:] {
		b.MinX = min(b.MinX, s.X())
		b.MaxX = max(b.MaxX, s.X())
		b.MinY = min(b.MinY, s.Y())
		b.MaxY = max(b.MaxY, s.Y())
	}
	return b
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteSummary writes a one-line human summary.
func (s *SnapshotExport) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "%d systems  n=%s d=%s phi=%s  x[%.1f, %.1f] y[%.1f, %.1f]\n",
		s.Count, s.Params.N, s.Params.D, s.Params.Phi,
		s.Bounds.MinX, s.Bounds.MaxX, s.Bounds.MinY, s.Bounds.MaxY)
}
