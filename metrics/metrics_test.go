package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/deepnoodle-ai/strict/internal/typeerr"
	"github.com/deepnoodle-ai/strict/types"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, r *Recorder, name, label, value string) float64 {
	t.Helper()
	families, err := r.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			if hasLabel(m, label, value) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func hasLabel(m *dto.Metric, name, value string) bool {
	for _, l := range m.GetLabel() {
		if l.GetName() == name && l.GetValue() == value {
			return true
		}
	}
	return false
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	attr := types.Attribute{Name: "id", Type: types.Int}

	r.ObserveValidation(attr, nil)
	r.ObserveValidation(attr, nil)
	r.ObserveValidation(attr, &typeerr.AttributeTypeError{Value: "x", Attribute: attr})
	r.ObserveValidation(attr, &typeerr.UnionLikeError{Value: "x", AttributeName: "id", UnionType: types.Optional(types.Int)})
	r.ObserveValidation(attr, errors.New("boom"))

	require.Equal(t, 2.0, counterValue(t, r, "strict_validations_total", "result", "ok"))
	require.Equal(t, 3.0, counterValue(t, r, "strict_validations_total", "result", "failed"))
	require.Equal(t, 1.0, counterValue(t, r, "strict_validation_errors_total", "kind", "attribute_type"))
	require.Equal(t, 1.0, counterValue(t, r, "strict_validation_errors_total", "kind", "union_like"))
	require.Equal(t, 1.0, counterValue(t, r, "strict_validation_errors_total", "kind", "other"))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveValidation(types.Attribute{Name: "a"}, nil)

	path := filepath.Join(t.TempDir(), "strict.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `strict_validations_total{result="ok"} 1`)

	err = r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "strict.prom"))
	require.Error(t, err)
}
