package version

import (
	"fmt"
	"runtime"
)

// GitCommit returns the git commit that was compiled.
// Note: will be replaced by goreleaser
var GitCommit string

// Version returns the main version number that is being run at the moment.
// Note: will be replaced by goreleaser
var Version = "0.1.0-DEV"

// BuildDate returns the date the binary was built
// Note: will be replaced by goreleaser
var BuildDate = ""

// FullVersion can be used for more detailed version info
var FullVersion = fmt.Sprintf("%s Build %s (Commit %s) Go %s [%s %s]",
	Version, BuildDate, GitCommit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
