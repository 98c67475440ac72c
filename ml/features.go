package ml

import "fmt"

// NumFeatures is the length of every feature vector the classifier accepts.
const NumFeatures = 10

// Feature indexes, in the order the model was trained on.
const (
	PM25 = iota
	PM10
	CO
	NO2
	SO2
	O3
	Temperature
	Humidity
	Rainfall
	WindSpeed
)

var featureNames = [NumFeatures]string{
	"pm25",
	"pm10",
	"co",
	"no2",
	"so2",
	"o3",
	"temperature",
	"humidity",
	"rainfall",
	"wind_speed",
}

// FeatureVector holds one set of readings in training order.
type FeatureVector [NumFeatures]float64

func FeatureNames() []string {
	names := make([]string, NumFeatures)
	copy(names, featureNames[:])
	return names
}

func FeatureName(idx int) string {
	if idx < 0 || idx >= NumFeatures {
		return fmt.Sprintf("feature_%d", idx)
	}
	return featureNames[idx]
}

// Slice returns a copy of the readings.
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, NumFeatures)
	copy(out, v[:])
	return out
}

// Float32 converts the readings to the tensor element type ONNX models expect.
func (v FeatureVector) Float32() []float32 {
	out := make([]float32, NumFeatures)
	for i, value := range v {
		out[i] = float32(value)
	}
	return out
}

// CheckFeatureOrder reports an error unless names matches the fixed feature order.
func CheckFeatureOrder(names []string) error {
	if len(names) != NumFeatures {
		return fmt.Errorf("%w: expected %d features, got %d", ErrFeatureOrder, NumFeatures, len(names))
	}
	for i, name := range names {
		if name != featureNames[i] {
			return fmt.Errorf("%w: position %d is %q, expected %q", ErrFeatureOrder, i, name, featureNames[i])
		}
	}
	return nil
}
