package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	jsoniter "github.com/json-iterator/go"
)

// dataJSON keeps numbers exact until they are normalized.
var dataJSON = jsoniter.Config{UseNumber: true}.Froze()

// LoadData reads the documents held by a YAML or JSON data file. A YAML file
// may hold several documents separated by "---".
func LoadData(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ParseDataJSON(data)
	case ".yml", ".yaml":
		return ParseDataYAML(data)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// ParseDataYAML decodes every document in data.
func ParseDataYAML(data []byte) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []any
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, Normalize(v))
	}
}

// ParseDataJSON decodes a single JSON document.
func ParseDataJSON(data []byte) ([]any, error) {
	var v any
	if err := dataJSON.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return []any{Normalize(v)}, nil
}

type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
}

// Normalize converts decoded values to the shapes record validation expects:
// mappings become map[string]any, sequences []any, integers int64 and other
// numbers float64.
func Normalize(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = Normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}
		return out
	case number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v
	case int:
		return int64(v)
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v)
		}
		return float64(v)
	case float32:
		return float64(v)
	}
	return v
}
