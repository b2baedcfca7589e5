package tmux

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"go.uber.org/zap"
)

// BaseConfig is sourced before any version-specific file.
const BaseConfig = "powerline-base.conf"

// configFileRe matches version-specific files such as
// powerline_tmux_1.8.conf, powerline_tmux_2.1_plus.conf or
// powerline_tmux_1.8_minus.conf.
var configFileRe = regexp.MustCompile(`^powerline_tmux_(\d+)\.(\d+)([a-z]+)?(?:_(plus|minus))?\.conf$`)

// ConfigMode says which installed versions a config file applies to.
type ConfigMode string

const (
	// ConfigExact applies to the same major.minor only.
	ConfigExact ConfigMode = ""
	// ConfigPlus applies to the file's version and everything newer.
	ConfigPlus ConfigMode = "plus"
	// ConfigMinus applies to the file's version and everything older.
	ConfigMinus ConfigMode = "minus"
)

// ConfigFile is a version-specific tmux configuration file.
type ConfigFile struct {
	Path    string
	Version VersionInfo
	Mode    ConfigMode
}

// Applies reports whether the file should be sourced for the installed version.
func (f ConfigFile) Applies(installed VersionInfo) bool {
	file := VersionInfo{Major: f.Version.Major, Minor: f.Version.Minor}
	switch f.Mode {
	case ConfigPlus:
		return file.Compare(installed) <= 0
	case ConfigMinus:
		return file.Compare(installed) >= 0
	default:
		return file.Compare(installed) == 0
	}
}

// priority orders files so that broader ranges are sourced first and exact
// matches last, letting them override.
func (f ConfigFile) priority() int {
	p := 3
	switch f.Mode {
	case ConfigPlus:
		p = 2
	case ConfigMinus:
		p = 1
	}
	return p + f.Version.Minor*10 + f.Version.Major*10000
}

// ListConfigs returns the version-specific config files directly inside dir.
// Subdirectories and unrelated files are skipped.
func ListConfigs(dir string) ([]ConfigFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading config dir %s: %w", dir, err)
	}
	var files []ConfigFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := configFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		major, _ := strconv.Atoi(m[1])
		minor, _ := strconv.Atoi(m[2])
		files = append(files, ConfigFile{
			Path:    filepath.Join(dir, e.Name()),
			Version: VersionInfo{Major: major, Minor: minor, Suffix: m[3]},
			Mode:    ConfigMode(m[4]),
		})
	}
	return files, nil
}

// MatchingConfigs returns the files in dir that apply to version, in the
// order they should be sourced.
func MatchingConfigs(dir string, version VersionInfo) ([]ConfigFile, error) {
	all, err := ListConfigs(dir)
	if err != nil {
		return nil, err
	}
	var matched []ConfigFile
	for _, f := range all {
		if f.Applies(version) {
			matched = append(matched, f)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].priority() == matched[j].priority() {
			return matched[i].Path < matched[j].Path
		}
		return matched[i].priority() < matched[j].priority()
	})
	return matched, nil
}

// SourceConfigs sources the base config from dir (if present), then every
// version-specific file matching version. Callers refresh the client once they
// have finished changing tmux state.
func (c *Client) SourceConfigs(ctx context.Context, dir string, version VersionInfo) error {
	base := filepath.Join(dir, BaseConfig)
	if _, err := os.Stat(base); err == nil {
		if err := c.SourceFile(ctx, base); err != nil {
			return fmt.Errorf("sourcing %s: %w", base, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", base, err)
	}

	files, err := MatchingConfigs(dir, version)
	if err != nil {
		return err
	}
	for _, f := range files {
		c.logger(ctx).Debug("sourcing tmux config", zap.String("path", f.Path), zap.Stringer("for", version))
		if err := c.SourceFile(ctx, f.Path); err != nil {
			return fmt.Errorf("sourcing %s: %w", f.Path, err)
		}
	}
	return nil
}
