// Package version holds the application version reported by the system API.
package version

// Version is the application version. Overridden at build time with
// -ldflags "-X .../internal/version.Version=x.y.z".
var Version = "0.4.0"
