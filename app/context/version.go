package context

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// VersionInfo describes the build of the running binary.
type VersionInfo struct {
	Semantic string
	Commit   string
	Dirty    bool
}

// GetVersion reads the version information embedded in the binary.
func GetVersion() (*VersionInfo, error) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, errors.New("failed reading build information")
	}

	v := &VersionInfo{Semantic: bi.Main.Version}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			v.Commit = s.Value
		case "vcs.modified":
			v.Dirty = s.Value == "true"
		}
	}

	return v, nil
}

// String returns a human readable representation of the version, e.g.
// "v0.1.0 (commit 1a2b3c4d, dirty)".
func (v *VersionInfo) String() string {
	if v == nil {
		return "unknown"
	}

	ver := v.Semantic
	if ver == "" {
		ver = "(devel)"
	}

	var meta []string
	if v.Commit != "" {
		commit := v.Commit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		meta = append(meta, "commit "+commit)
	}
	if v.Dirty {
		meta = append(meta, "dirty")
	}
	if len(meta) == 0 {
		return ver
	}

	return fmt.Sprintf("%s (%s)", ver, strings.Join(meta, ", "))
}
