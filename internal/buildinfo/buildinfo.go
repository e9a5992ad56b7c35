// Package buildinfo carries version metadata injected at link time:
//
//	go build -ldflags "-X github.com/ZanzyTHEbar/textsim-go/internal/buildinfo.Version=v0.3.0"
package buildinfo

var (
	Version   = "dev"
	Revision  = "unknown"
	BuildDate = "unknown"
)

// Name is the implementation name reported by health endpoints.
const Name = "textsim-go"
