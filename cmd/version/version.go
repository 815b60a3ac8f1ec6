package version

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/tendermint/tendermint/version"
)

const fmtVersion = "v%d.%d.%d-%x@%s"

var (
	// set with ldflags:
	//  -ldflags "-X 'github.com/beatoz/beatoz-vesting/cmd/version.Version=v0.1.0' -X 'github.com/beatoz/beatoz-vesting/cmd/version.GitCommit=$(git rev-parse --short=8 HEAD)'"
	Version   string
	GitCommit string

	current = semver{minor: 1}
)

var reVersion = regexp.MustCompile(`^v(\d+)\.(\d+)\.(\d+)`)

type semver struct {
	major, minor, patch uint64
	commit              uint64
}

func init() {
	if v, err := parse(Version, GitCommit); err != nil {
		panic(err)
	} else if v != nil {
		current = *v
	}
}

// parse returns nil when `ver` is empty.
func parse(ver, commit string) (*semver, error) {
	if ver == "" {
		return nil, nil
	}

	m := reVersion.FindStringSubmatch(ver)
	if m == nil {
		return nil, fmt.Errorf("invalid version string: %v", ver)
	}

	ret := &semver{}
	ret.major, _ = strconv.ParseUint(m[1], 10, 64)
	ret.minor, _ = strconv.ParseUint(m[2], 10, 64)
	ret.patch, _ = strconv.ParseUint(m[3], 10, 64)

	if commit != "" {
		c, err := strconv.ParseUint(commit, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid git commit %v: %w", commit, err)
		}
		ret.commit = c
	}
	return ret, nil
}

func (v semver) String() string {
	return fmt.Sprintf(fmtVersion, v.major, v.minor, v.patch, v.commit, version.TMCoreSemVer)
}

func String() string {
	return current.String()
}

func Major() uint64 {
	return current.major
}

func Minor() uint64 {
	return current.minor
}

func Patch() uint64 {
	return current.patch
}

func CommitHash() uint64 {
	return current.commit
}
