package schema

import (
	"fmt"
	"os"
)

func load(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	if info.IsDir() {
		return LoadDirectory(path)
	}
	doc, err := ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", path, err)
	}
	return doc, nil
}
