// Package buildinfo carries the release identifiers stamped into the gasket
// binary, e.g.
//
//	go build -ldflags "-X gasket/internal/buildinfo.Version=v1.0.0"
package buildinfo

// Stamped with -ldflags -X; the defaults mark a local build.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short is the identifier appended to the window title: the release version
// when stamped, else the commit, else "dev".
func Short() string {
	switch {
	case Version != "" && Version != "dev":
		return Version
	case Commit != "" && Commit != "unknown":
		return Commit
	default:
		return "dev"
	}
}

// String is the line printed by -version.
func String() string {
	return "gasket " + Version + " (" + Commit + ", " + Date + ")"
}
