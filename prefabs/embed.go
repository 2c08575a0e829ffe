package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml levels/*.yaml
var PrefabsFS embed.FS

// DiskRoot is checked before the embedded copies so edited files win. Set it
// to "" to read embedded data only.
var DiskRoot = "prefabs"

// Load returns a prefab file, preferring the on-disk copy.
func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := readDisk(clean); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

// LoadScript returns a tengo script from scripts/, preferring the on-disk copy.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := readDisk(clean); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

// ModTime reports the modification time of the on-disk copy of name.
func ModTime(name string) (time.Time, bool) {
	if DiskRoot == "" {
		return time.Time{}, false
	}
	info, err := os.Stat(diskPrefabPath(cleanPrefabPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// LevelNames lists level basenames from the embedded set and the disk root.
func LevelNames() ([]string, error) {
	seen := map[string]struct{}{}
	add := func(entries []fs.DirEntry) {
		for _, entry := range entries {
			if entry.IsDir() || !isSpecFile(entry.Name()) {
				continue
			}
			seen[strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))] = struct{}{}
		}
	}

	embedded, err := fs.ReadDir(PrefabsFS, "levels")
	if err != nil {
		return nil, err
	}
	add(embedded)

	if DiskRoot != "" {
		disk, err := os.ReadDir(diskPrefabPath("levels"))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		add(disk)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func readDisk(clean string) ([]byte, error) {
	if DiskRoot == "" || clean == "" {
		return nil, fs.ErrNotExist
	}
	return os.ReadFile(diskPrefabPath(clean))
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := cleanPrefabPath(path)

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return "scripts/" + s
}

// levelPath maps a level name like "tutorial" or "levels/tutorial.yaml" to
// its prefab path.
func levelPath(name string) string {
	s := cleanPrefabPath(name)
	s = strings.TrimPrefix(s, "levels/")
	if !isSpecFile(s) {
		s += ".yaml"
	}
	return "levels/" + s
}

func diskPrefabPath(clean string) string {
	return filepath.Join(DiskRoot, filepath.FromSlash(clean))
}
