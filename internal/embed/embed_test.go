package embed

import (
	"math"
	"testing"

	"github.com/pdiddy/medgraph/pkg/types"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	if _, err := NewOpenAI(types.EmbeddingConfig{}); err == nil {
		t.Error("expected error without API key")
	}
	if _, err := NewOpenAI(types.EmbeddingConfig{APIKey: "sk-test"}); err != nil {
		t.Errorf("unexpected error with API key: %v", err)
	}
}
