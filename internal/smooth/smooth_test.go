package smooth

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestMedianFilter(t *testing.T) {
	tests := []struct {
		name       string
		data       []float64
		kernelSize int
		expected   []float64
	}{
		{
			name:       "kernel 3 removes spike",
			data:       []float64{1, 1, 100, 1, 1},
			kernelSize: 3,
			expected:   []float64{1, 1, 1, 1, 1},
		},
		{
			name:       "kernel 1 is identity",
			data:       []float64{3, 1, 4, 1, 5},
			kernelSize: 1,
			expected:   []float64{3, 1, 4, 1, 5},
		},
		{
			name:       "zero padding at edges",
			data:       []float64{5, 5, 5},
			kernelSize: 5,
			expected:   []float64{5, 5, 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MedianFilter(tt.data, tt.kernelSize)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.expected))
			}
			for i := range got {
				if math.Abs(got[i]-tt.expected[i]) > epsilon {
					t.Errorf("index %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestMedianFilterKernelValidation(t *testing.T) {
	if _, err := MedianFilter([]float64{1, 2, 3}, 2); err == nil {
		t.Error("expected error for even kernel")
	}
	if _, err := MedianFilter([]float64{1, 2, 3}, 0); err == nil {
		t.Error("expected error for zero kernel")
	}
}

func TestMovingAverage(t *testing.T) {
	got, err := MovingAverage([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1.5, 2, 3, 4, 4.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGaussianPreservesConstant(t *testing.T) {
	data := []float64{4, 4, 4, 4, 4, 4, 4, 4}
	got, err := Gaussian(data, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range got {
		if math.Abs(got[i]-4) > epsilon {
			t.Errorf("index %d: got %v, want 4", i, got[i])
		}
	}
}

func TestGaussianSigmaValidation(t *testing.T) {
	if _, err := Gaussian([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for non-positive sigma")
	}
}
