package tmux

import (
	"cmp"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// masterVersion is what development builds report instead of a number.
const masterVersion = "master"

// versionRe matches the whole of `tmux -V` output, e.g. "tmux 3.4",
// "tmux next-3.4", "tmux 3.3a", "tmux 3.4-rc1" or "tmux master".
var versionRe = regexp.MustCompile(`^\s*\w+\s+` +
	`(?P<version>(?:(?:.*?-)?(?P<major>\d+)(?:\.(?P<minor>\d+))?)|master)` +
	`\s*(?:-?(?P<suffix>\w+))?\s*$`)

var (
	versionIdx = versionRe.SubexpIndex("version")
	majorIdx   = versionRe.SubexpIndex("major")
	minorIdx   = versionRe.SubexpIndex("minor")
	suffixIdx  = versionRe.SubexpIndex("suffix")
)

// VersionInfo is a parsed tmux version.
//
// Development builds ("master") have no number and sort after every release.
// Suffix is informational and never affects ordering.
type VersionInfo struct {
	Major       int
	Minor       int
	Suffix      string
	Development bool
}

// ParseVersion parses the output of `tmux -V`.
func ParseVersion(raw string) (VersionInfo, error) {
	m := versionRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return VersionInfo{}, &VersionParseError{Raw: raw}
	}
	if m[versionIdx] == masterVersion {
		return VersionInfo{Development: true, Suffix: masterVersion}, nil
	}

	// Numbers too large for an int match the grammar but are still rejected.
	major, err := strconv.Atoi(m[majorIdx])
	if err != nil {
		return VersionInfo{}, &VersionParseError{Raw: raw}
	}
	minor := 0
	if m[minorIdx] != "" {
		minor, err = strconv.Atoi(m[minorIdx])
		if err != nil {
			return VersionInfo{}, &VersionParseError{Raw: raw}
		}
	}
	return VersionInfo{Major: major, Minor: minor, Suffix: m[suffixIdx]}, nil
}

// Version queries tmux for its version.
func (c *Client) Version(ctx context.Context) (VersionInfo, error) {
	out, err := c.Output(ctx, "-V")
	if err != nil {
		c.metrics.RecordVersionQuery(ctx, "command_error")
		// CommandError already names the command line.
		return VersionInfo{}, err
	}
	v, err := ParseVersion(out)
	if err != nil {
		c.metrics.RecordVersionQuery(ctx, "parse_error")
		return VersionInfo{}, err
	}
	c.metrics.RecordVersionQuery(ctx, "ok")
	return v, nil
}

// Compare returns -1, 0 or +1 as v is older than, the same as, or newer than w.
func (v VersionInfo) Compare(w VersionInfo) int {
	switch {
	case v.Development && w.Development:
		return 0
	case v.Development:
		return 1
	case w.Development:
		return -1
	}
	if c := cmp.Compare(v.Major, w.Major); c != 0 {
		return c
	}
	return cmp.Compare(v.Minor, w.Minor)
}

// Less reports whether v is older than w.
func (v VersionInfo) Less(w VersionInfo) bool {
	return v.Compare(w) < 0
}

// AtLeast reports whether v is major.minor or newer.
func (v VersionInfo) AtLeast(major, minor int) bool {
	return v.Compare(VersionInfo{Major: major, Minor: minor}) >= 0
}

func (v VersionInfo) String() string {
	if v.Development {
		return masterVersion
	}
	return fmt.Sprintf("%d.%d%s", v.Major, v.Minor, v.Suffix)
}
