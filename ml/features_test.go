package ml

import (
	"errors"
	"testing"
)

func TestFeatureNamesOrder(t *testing.T) {
	expected := []string{"pm25", "pm10", "co", "no2", "so2", "o3", "temperature", "humidity", "rainfall", "wind_speed"}
	names := FeatureNames()
	if len(names) != len(expected) {
		t.Fatalf("expected %d names, got %d", len(expected), len(names))
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Fatalf("position %d: expected %s, got %s", i, expected[i], names[i])
		}
	}
	if FeatureName(Humidity) != "humidity" {
		t.Fatalf("unexpected humidity name: %s", FeatureName(Humidity))
	}
}

func TestFeatureNamesReturnsCopy(t *testing.T) {
	names := FeatureNames()
	names[0] = "changed"
	if FeatureName(PM25) != "pm25" {
		t.Fatal("feature table was mutated through the returned slice")
	}
}

func TestCheckFeatureOrder(t *testing.T) {
	if err := CheckFeatureOrder(FeatureNames()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	swapped := FeatureNames()
	swapped[0], swapped[1] = swapped[1], swapped[0]
	if err := CheckFeatureOrder(swapped); !errors.Is(err, ErrFeatureOrder) {
		t.Fatalf("expected ErrFeatureOrder, got %v", err)
	}

	if err := CheckFeatureOrder(FeatureNames()[:9]); !errors.Is(err, ErrFeatureOrder) {
		t.Fatalf("expected ErrFeatureOrder for short list, got %v", err)
	}
}

func TestFeatureVectorConversions(t *testing.T) {
	v := FeatureVector{50, 80, 1, 40, 20, 60, 25, 55, 0, 3}
	f32 := v.Float32()
	if len(f32) != NumFeatures || f32[Humidity] != 55 {
		t.Fatalf("unexpected float32 vector: %v", f32)
	}
	s := v.Slice()
	s[0] = 999
	if v[0] != 50 {
		t.Fatal("Slice must return a copy")
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		class     int
		label     string
		indicator string
	}{
		{ClassPoor, "Poor", "🔴"},
		{ClassVeryPoor, "Very Poor", "🔴"},
		{ClassMedium, "Medium", "🔴"},
		{ClassGood, "Good", "🟢"},
		{7, UnknownLabel, "🔴"},
		{-1, UnknownLabel, "🔴"},
	}
	for _, tt := range tests {
		if got := LabelFor(tt.class); got != tt.label {
			t.Errorf("LabelFor(%d) = %s, want %s", tt.class, got, tt.label)
		}
		if got := Indicator(tt.class); got != tt.indicator {
			t.Errorf("Indicator(%d) = %s, want %s", tt.class, got, tt.indicator)
		}
	}
}
