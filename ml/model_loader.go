package ml

import "fmt"

type LoadOptions struct {
	Type         string
	Path         string
	MetadataPath string
	ONNX         ONNXOptions
}

// LoadModel opens the classifier artifact named by opts. It is called once at
// startup; the returned Classifier lives until the process exits.
func LoadModel(opts LoadOptions) (Classifier, error) {
	switch opts.Type {
	case "onnx", "":
		metadata, err := LoadMetadata(opts.MetadataPath)
		if err != nil {
			return nil, err
		}
		return NewONNXClassifier(opts.Path, metadata, opts.ONNX)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, opts.Type)
	}
}
