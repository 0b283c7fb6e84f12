package buffer

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
)

func TestNewZeroFilled(t *testing.T) {
	b := New(8)
	if b.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", b.Len())
	}
	for i, v := range b.Samples() {
		if v != 0 {
			t.Fatalf("Samples()[%d] = %v, want 0", i, v)
		}
	}
}

func TestNewNegativeLength(t *testing.T) {
	if b := New(-1); b.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 for negative input", b.Len())
	}
}

func TestAddSums(t *testing.T) {
	b := New(3)
	if err := b.Add([]float64{1, 2, 3}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := b.Add([]float64{0.5, -2, 1}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	want := []float64{1.5, 0, 4}
	for i, v := range b.Samples() {
		if v != want[i] {
			t.Fatalf("Samples()[%d] = %v, want %v", i, v, want[i])
		}
	}
	if b.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", b.Count())
	}
}

func TestAddLengthMismatch(t *testing.T) {
	b := New(4)
	if err := b.Add([]float64{1, 2}); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("Add() error = %v, want ErrInvalidParameter", err)
	}
	if b.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", b.Count())
	}
}

func TestResetReusesAndZeroes(t *testing.T) {
	b := New(8)
	_ = b.Add([]float64{1, 1, 1, 1, 1, 1, 1, 1})

	b.Reset(4)
	if b.Len() != 4 || b.Count() != 0 {
		t.Fatalf("Len(), Count() = %d, %d, want 4, 0", b.Len(), b.Count())
	}
	for i, v := range b.Samples() {
		if v != 0 {
			t.Fatalf("Samples()[%d] = %v, want 0", i, v)
		}
	}

	b.Reset(8)
	for i, v := range b.Samples() {
		if v != 0 {
			t.Fatalf("grown Samples()[%d] = %v, want 0", i, v)
		}
	}
}
