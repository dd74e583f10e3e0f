// Package version stores the release version in one place, so the CLI
// banner and any future build tooling never drift apart.
package version

import "fmt"

// version is populated with the release tag at build time via
// -ldflags "-X github.com/hachivm/hachi/version.version=...".
var version = "unreleased"

// Banner returns a one-line banner suitable for printing at startup.
func Banner() string {
	return fmt.Sprintf("hachi %s - a CHIP-8 virtual machine", version)
}

// String returns the bare version number.
func String() string {
	return version
}
