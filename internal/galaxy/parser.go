package galaxy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// JSON structures matching the /galaxy/create response.

// Only coordinates is decoded strictly. The descriptive fields are kept
// raw and decoded one by one, so a malformed extra is dropped instead of
// failing the system.
type jsonSystem struct {
	Name        json.RawMessage `json:"name"`
	Coordinates []float64       `json:"coordinates"`
	Star        json.RawMessage `json:"star"`
	Objects     json.RawMessage `json:"objects"`
}

type jsonStar struct {
	Mass   float64 `json:"mass"`
	Radius float64 `json:"radius"`
}

type jsonObject struct {
	Type     string  `json:"type"`
	Mass     float64 `json:"mass"`
	Radius   float64 `json:"radius"`
	Density  float64 `json:"density"`
	Distance float64 `json:"distance"`
}

var errNotArray = errors.New("response is not a JSON array")

// Parse decodes a /galaxy/create response body into star systems,
// preserving server order. The body must be a JSON array; every entry
// needs a numeric coordinates tuple of at least two elements. Extra
// tuple elements are ignored. Name, star and objects are filled when
// they decode; a field of the wrong shape is left empty.
func Parse(data []byte) ([]StarSystem, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errNotArray
	}

	var raw []jsonSystem
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("decode systems: %w", err)
	}

	systems := make([]StarSystem, 0, len(raw))
	for i, js := range raw {
		if len(js.Coordinates) < 2 {
			return nil, fmt.Errorf("system %d: coordinates must have 2 elements, got %d", i, len(js.Coordinates))
		}

		sys := StarSystem{
			Coordinates: [2]float64{js.Coordinates[0], js.Coordinates[1]},
		}
		decodeExtra(js.Name, &sys.Name)

		var star *jsonStar
		if decodeExtra(js.Star, &star) && star != nil {
			sys.Star = &Star{Mass: star.Mass, Radius: star.Radius}
		}

		sys.Objects = decodeObjects(js.Objects)
		systems = append(systems, sys)
	}

	return systems, nil
}

// decodeExtra unmarshals an optional field into dst and reports success.
// Absent fields and decode errors leave dst untouched.
func decodeExtra(raw json.RawMessage, dst any) bool {
	if len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// decodeObjects decodes the objects map entry by entry, skipping any
// entry that does not fit Object. It returns nil when nothing decodes.
func decodeObjects(raw json.RawMessage) map[string]Object {
	var entries map[string]json.RawMessage
	if !decodeExtra(raw, &entries) || len(entries) == 0 {
		return nil
	}

	objects := make(map[string]Object, len(entries))
	for id, entry := range entries {
		var obj jsonObject
		if decodeExtra(entry, &obj) {
			objects[id] = Object(obj)
		}
	}
	if len(objects) == 0 {
		return nil
	}
	return objects
}
