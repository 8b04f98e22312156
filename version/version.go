// Package version holds the build version, which is set at link time with
// -ldflags "-X .../version.Version=...".
package version

var Version = "dev"
