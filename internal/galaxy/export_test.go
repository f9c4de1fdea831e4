package galaxy

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestExportSnapshot(t *testing.T) {
	systems, err := Parse([]byte(realisticJSON))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	fetchedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	export := ExportSnapshot(Params{N: "2", D: "100", Phi: "0.5"}, systems, fetchedAt)

	if export.Count != 2 {
		t.Errorf("Count = %d, want 2", export.Count)
	}
	if export.Params.Phi != "0.5" {
		t.Errorf("Params.Phi = %q, want 0.5", export.Params.Phi)
	}
	if export.Systems[0].StarMass != 2.1e30 {
		t.Errorf("StarMass = %v, want 2.1e30", export.Systems[0].StarMass)
	}
	wantObjects := []string{"0412 Terrestrial", "9001 Gas Giant"}
	if strings.Join(export.Systems[0].Objects, ",") != strings.Join(wantObjects, ",") {
		t.Errorf("Objects = %v, want %v", export.Systems[0].Objects, wantObjects)
	}

	wantBounds := BoundsExport{MinX: 0, MinY: -3.25, MaxX: 12.5, MaxY: 0}
	if export.Bounds != wantBounds {
		t.Errorf("Bounds = %+v, want %+v", export.Bounds, wantBounds)
	}
}

func TestSnapshotExport_WriteJSON(t *testing.T) {
	export := ExportSnapshot(Params{N: "1", D: "1", Phi: "0"}, []StarSystem{{Coordinates: [2]float64{1, 2}}}, time.Now())

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{"fetched_at", "params", "count", "bounds", "systems"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}

func TestBounds_Empty(t *testing.T) {
	if b := Bounds(nil); b != (BoundsExport{}) {
		t.Errorf("Bounds(nil) = %+v, want zero", b)
	}
}

func TestSnapshotExport_WriteSummary(t *testing.T) {
	export := ExportSnapshot(Params{N: "5", D: "10", Phi: "0.5"}, nil, time.Now())

	var buf bytes.Buffer
	export.WriteSummary(&buf)

	if !strings.HasPrefix(buf.String(), "0 systems  n=5 d=10 phi=0.5") {
		t.Errorf("summary = %q", buf.String())
	}
}
