package prefabs

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed *.yaml
var PrefabsFS embed.FS

// Dir is the on-disk prefab directory. Files found there shadow the embedded
// copies so pages can be edited without a rebuild.
var Dir = "prefabs"

var ErrBadPrefabPath = errors.New("prefabs: path escapes the prefab directory")

// Origin is where a prefab's bytes came from.
type Origin int

const (
	OriginEmbedded Origin = iota
	OriginDisk
)

func (o Origin) String() string {
	if o == OriginDisk {
		return "disk"
	}
	return "embedded"
}

// Open reads a prefab and reports which copy won. A disk file that exists but
// cannot be read is an error rather than a silent fall back.
func Open(name string) ([]byte, Origin, error) {
	clean, err := cleanPrefabPath(name)
	if err != nil {
		return nil, OriginEmbedded, err
	}
	data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(clean)))
	if err == nil {
		return data, OriginDisk, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, OriginDisk, err
	}
	data, err = PrefabsFS.ReadFile(clean)
	if err != nil {
		return nil, OriginEmbedded, err
	}
	return data, OriginEmbedded, nil
}

// cleanPrefabPath turns "prefabs/x.yaml", "./x.yaml" or "x.yaml" into the
// embed-relative "x.yaml".
func cleanPrefabPath(name string) (string, error) {
	s := path.Clean(filepath.ToSlash(name))
	s = strings.TrimPrefix(s, "prefabs/")
	if !fs.ValidPath(s) || s == "." {
		return "", fmt.Errorf("%w: %q", ErrBadPrefabPath, name)
	}
	return s, nil
}
