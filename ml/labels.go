package ml

// Class indexes produced by the air-quality model.
const (
	ClassPoor     = 0
	ClassVeryPoor = 1
	ClassMedium   = 2
	ClassGood     = 3
)

// NumClasses is the number of probabilities the model emits per prediction.
const NumClasses = 4

// UnknownLabel is shown for a class index outside the label table.
const UnknownLabel = "Unknown"

var classLabels = [NumClasses]string{
	ClassPoor:     "Poor",
	ClassVeryPoor: "Very Poor",
	ClassMedium:   "Medium",
	ClassGood:     "Good",
}

// LabelFor maps a class index to its English display label. Localized text is
// looked up by the i18n package using this label as the key.
func LabelFor(class int) string {
	if class < 0 || class >= NumClasses {
		return UnknownLabel
	}
	return classLabels[class]
}

// Labels returns the label table in class order.
func Labels() []string {
	out := make([]string, NumClasses)
	copy(out, classLabels[:])
	return out
}

// Indicator is the marker rendered next to a label.
func Indicator(class int) string {
	if class == ClassGood {
		return "🟢"
	}
	return "🔴"
}
