// Package galaxy provides the wire model and HTTP client for the galaxy
// generation endpoint.
package galaxy

import (
	"net/url"
	"strings"
)

// StarSystem is a single generated system. Only Coordinates is required;
// the remaining fields are filled when the server sends them.
type StarSystem struct {
	Name        string            // e.g. "QXZAB"
	Coordinates [2]float64        // origin-centered offset (x, y)
	Star        *Star             // central star, if reported
	Objects     map[string]Object // orbiting bodies keyed by 4-digit id
}

// X returns the horizontal offset from the galaxy center.
func (s StarSystem) X() float64 { return s.Coordinates[0] }

// Y returns the vertical offset from the galaxy center.
func (s StarSystem) Y() float64 { return s.Coordinates[1] }

// Star describes the central star of a system.
type Star struct {
	Mass   float64 // kg
	Radius float64 // meters
}

// Object is a planet-like body orbiting a star.
type Object struct {
	Type     string  // "Terrestrial", "Gas Giant" or "Black Hole"
	Mass     float64 // kg
	Radius   float64 // meters
	Density  float64 // g/cm^3
	Distance float64 // meters from the star or parent body
}

// Params holds the generation inputs exactly as typed by the user.
// Nothing is parsed or range checked; the server owns interpretation.
type Params struct {
	N   string // number of stars
	D   string // galaxy diameter
	Phi string // spiral pitch
}

// Query returns the query string for a create request.
// Values are escaped so each stays a single parameter; numeric text
// passes through unchanged. Other input differs from raw interpolation:
// "1&x=2" is sent as "1%26x%3D2" and "a b" as "a+b".
func (p Params) Query() string {
	var b strings.Builder
	b.WriteString("n=")
	b.WriteString(url.QueryEscape(p.N))
	b.WriteString("&d=")
	b.WriteString(url.QueryEscape(p.D))
	b.WriteString("&phi=")
	b.WriteString(url.QueryEscape(p.Phi))
	return b.String()
}
