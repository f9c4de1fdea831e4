// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Headless PNG render and JSON snapshot export
// 0.2.0 - Stale responses dropped by generation, modal error box
// 0.1.0 - Initial release: terminal viewport, n/d/phi inputs, /galaxy/create fetch
