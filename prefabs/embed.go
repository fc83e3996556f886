package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed *.yaml scripts/*.tengo
var embedded embed.FS

// Dir is where edited prefabs are looked up before the embedded copies.
var Dir = "prefabs"

// Load reads a prefab file such as "tuning.yaml" or "prefabs/scene.yaml".
func Load(name string) ([]byte, error) {
	return read(cleanPrefabPath(name))
}

// LoadScript reads a tengo script by base name or prefab-relative path.
func LoadScript(name string) ([]byte, error) {
	return read(cleanScriptPath(name))
}

// read prefers the copy on disk so hot reload sees edits, then falls back to
// the build's embedded prefabs.
func read(clean string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(clean)))
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return embedded.ReadFile(clean)
}

func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	return strings.TrimPrefix(filepath.ToSlash(p), "prefabs/")
}

func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}
	return path.Join("scripts", path.Base(filepath.ToSlash(p)))
}
