package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// LocalName returns the override file that sits next to name,
// `config.json5` -> `config.local.json5`.
func LocalName(name string) string {
	prefix, ext := splitExt(filepath.Base(name))
	if ext == "" {
		return filepath.Join(filepath.Dir(name), fmt.Sprintf("%s.local", prefix))
	}
	return filepath.Join(filepath.Dir(name), fmt.Sprintf("%s.local.%s", prefix, ext))
}

func readInto[T any](path string, out *T) (bool, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// ReadConfig layers the following, where a higher number wins field by field:
// 1. defaults
// 2. <name>.<ext>
// 3. <name>.local.<ext>
//
// Missing files are skipped, found reports whether any file was read.
func ReadConfig[T any](name string, defaults T) (out T, found bool, err error) {
	out = defaults

	for _, path := range []string{name, LocalName(name)} {
		var layer T
		ok, err := readInto(path, &layer)
		if err != nil {
			return out, found, err
		}
		if !ok {
			continue
		}
		err = mergo.Merge(&out, layer, mergo.WithOverride)
		if err != nil {
			return out, found, err
		}
		slog.Debug("merged config file", "path", path)
		found = true
	}

	return out, found, nil
}
