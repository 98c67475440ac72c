package http

import (
	"bytes"
	"embed"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/Masterminds/sprig/v3"

	"airquality/i18n"
	"airquality/ml"
	"airquality/pipeline"
)

//go:embed templates/index.html
var templates embed.FS

func parsePage() (*template.Template, error) {
	return template.New("index.html").Funcs(sprig.HtmlFuncMap()).ParseFS(templates, "templates/index.html")
}

type pageView struct {
	Lang    string
	Title   string
	Heading string
	Submit  string
	Fields  []fieldView
	Result  *resultView
}

type fieldView struct {
	ID          string
	Name        string
	Placeholder string
	Value       string
}

type resultView struct {
	Error   bool
	Message string

	InputHeading       string
	Inputs             string
	LabelHeading       string
	Label              string
	Indicator          string
	ProbabilityHeading string
	Probabilities      string
}

// newPage builds the form. values holds the text to pre-fill, nil for an
// empty form.
func newPage(tr *i18n.Translator, values []string, result *resultView) pageView {
	page := pageView{
		Lang:    tr.Language().String(),
		Title:   tr.T(i18n.PageTitle),
		Heading: tr.T(i18n.Heading),
		Submit:  tr.T(i18n.SubmitButton),
		Fields:  make([]fieldView, ml.NumFeatures),
		Result:  result,
	}
	for i := range page.Fields {
		name := ml.FeatureName(i)
		value := ""
		if i < len(values) {
			value = values[i]
		}
		page.Fields[i] = fieldView{
			ID:          pipeline.InputName(i),
			Name:        name,
			Placeholder: tr.T(i18n.Placeholder, name),
			Value:       value,
		}
	}
	return page
}

func errorResult(message string) *resultView {
	return &resultView{Error: true, Message: message}
}

func predictionResult(tr *i18n.Translator, features ml.FeatureVector, result *ml.PredictionResult) *resultView {
	return &resultView{
		InputHeading:       tr.T(i18n.InputEcho),
		Inputs:             FormatReadings(features),
		LabelHeading:       tr.T(i18n.PredictedLabel),
		Label:              tr.T(result.Label),
		Indicator:          ml.Indicator(result.Class),
		ProbabilityHeading: tr.T(i18n.Probabilities),
		Probabilities:      FormatProbabilities(result.Probabilities),
	}
}

// FormatProbabilities renders probabilities as [0.10, 0.25, ...].
func FormatProbabilities(probabilities []float64) string {
	parts := make([]string, len(probabilities))
	for i, p := range probabilities {
		parts[i] = strconv.FormatFloat(p, 'f', 2, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatReadings echoes parsed readings as [50.0, 80.0, 1e-05, ...].
func FormatReadings(features ml.FeatureVector) string {
	parts := make([]string, len(features))
	for i, v := range features {
		parts[i] = formatReading(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// formatReading uses exponent form below 1e-4 and from 1e16 up, fixed
// notation with at least one decimal otherwise.
func formatReading(v float64) string {
	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// renderPage executes into a buffer first so a template error can still
// become a 500.
func renderPage(w http.ResponseWriter, tmpl *template.Template, page pageView) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
	return nil
}
