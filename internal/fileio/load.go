package fileio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/models"
	"github.com/talifan/adv-reverse2seaf/internal/parser"
)

var inventorySuffixes = []string{
	".yaml", ".yml",
	".yaml.gz", ".yml.gz",
	".yaml.zst", ".yml.zst",
}

// IsInventoryFile reports whether name is a plain or compressed YAML file.
func IsInventoryFile(name string) bool {
	for _, suffix := range inventorySuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// LoadDir reads every inventory file of dir in lexical order and merges them
// into one bundle. Entities of a kind present in several files are merged by
// key and later files win. Empty files are ignored.
func LoadDir(dir string) (*models.SourceBundle, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	bundle := models.NewSourceBundle()
	for _, entry := range entries {
		if entry.IsDir() || !IsInventoryFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		part, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		MergeSource(bundle, part)
	}
	return bundle, nil
}

// LoadFile decodes one inventory file, decompressing it by suffix.
func LoadFile(path string) (*models.SourceBundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r, err := Decompress(f, EncodingForFile(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.NewSourceBundle(), nil
	}

	bundle, err := parser.ParseSource(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return bundle, nil
}

// MergeSource copies the entities of part into dst, replacing entities with
// the same key.
func MergeSource(dst, part *models.SourceBundle) {
	part.Each(func(kind string, collection *models.Collection) bool {
		target, ok := dst.Get(kind)
		if !ok || target == nil {
			target = &models.Collection{}
			dst.Set(kind, target)
		}
		collection.Each(func(key string, attrs *models.Map) bool {
			target.Set(key, attrs)
			return true
		})
		return true
	})
}
