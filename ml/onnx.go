package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	ort "github.com/yalue/onnxruntime_go"
)

// Metadata describes the tensors of an exported classifier. It is shipped as
// a JSON file next to the .onnx artifact.
type Metadata struct {
	InputName         string   `json:"input_name"`
	LabelOutput       string   `json:"label_output"`
	ProbabilityOutput string   `json:"probability_output"`
	Features          []string `json:"features"`
	Classes           int      `json:"classes"`
}

func LoadMetadata(path string) (Metadata, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}
	var metadata Metadata
	if err := json.Unmarshal(payload, &metadata); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	metadata.applyDefaults()
	if err := metadata.Validate(); err != nil {
		return Metadata{}, err
	}
	return metadata, nil
}

func (m *Metadata) applyDefaults() {
	if m.InputName == "" {
		m.InputName = "features"
	}
	if m.LabelOutput == "" {
		m.LabelOutput = "label"
	}
	if m.ProbabilityOutput == "" {
		m.ProbabilityOutput = "probabilities"
	}
}

func (m Metadata) Validate() error {
	if err := CheckFeatureOrder(m.Features); err != nil {
		return err
	}
	if m.Classes != NumClasses {
		return fmt.Errorf("%w: model has %d classes, label table has %d", ErrModelOutput, m.Classes, NumClasses)
	}
	return nil
}

type ONNXOptions struct {
	// SharedLibraryPath points at libonnxruntime; empty uses the loader default.
	SharedLibraryPath string
	IntraOpThreads    int
}

// ONNXClassifier runs an exported tree ensemble through ONNX Runtime. The
// session is created once; every Predict call allocates its own tensors, so
// the classifier can serve concurrent requests.
type ONNXClassifier struct {
	session  *ort.DynamicAdvancedSession
	Metadata Metadata
}

func NewONNXClassifier(modelPath string, metadata Metadata, opts ONNXOptions) (*ONNXClassifier, error) {
	if opts.SharedLibraryPath != "" {
		ort.SetSharedLibraryPath(opts.SharedLibraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer options.Destroy()

	if opts.IntraOpThreads > 0 {
		if err := options.SetIntraOpNumThreads(opts.IntraOpThreads); err != nil {
			return nil, fmt.Errorf("failed to set intra-op threads: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{metadata.InputName},
		[]string{metadata.LabelOutput, metadata.ProbabilityOutput},
		options)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXClassifier{session: session, Metadata: metadata}, nil
}

func (c *ONNXClassifier) Predict(ctx context.Context, features FeatureVector) (int, []float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	input, err := ort.NewTensor(ort.NewShape(1, NumFeatures), features.Float32())
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer input.Destroy()

	label, err := ort.NewEmptyTensor[int64](ort.NewShape(1))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create label tensor: %w", err)
	}
	defer label.Destroy()

	probabilities, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(c.Metadata.Classes)))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create probability tensor: %w", err)
	}
	defer probabilities.Destroy()

	err = c.session.Run(
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{label, probabilities},
	)
	if err != nil {
		return 0, nil, fmt.Errorf("inference failed: %w", err)
	}

	return decodeOutput(label.GetData(), probabilities.GetData(), c.Metadata.Classes)
}

func (c *ONNXClassifier) Close() error {
	if c.session != nil {
		if err := c.session.Destroy(); err != nil {
			return err
		}
		c.session = nil
	}
	return ort.DestroyEnvironment()
}

func decodeOutput(labels []int64, probabilities []float32, classes int) (int, []float64, error) {
	if len(labels) != 1 {
		return 0, nil, fmt.Errorf("%w: expected 1 label, got %d", ErrModelOutput, len(labels))
	}
	if len(probabilities) != classes {
		return 0, nil, fmt.Errorf("%w: expected %d probabilities, got %d", ErrModelOutput, classes, len(probabilities))
	}
	out := make([]float64, len(probabilities))
	for i, p := range probabilities {
		out[i] = float64(p)
	}
	return int(labels[0]), out, nil
}
