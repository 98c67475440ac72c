// Package i18n holds the UI message catalog. Keys are the English texts, so
// English needs no entries and falls back to the key itself.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	PageTitle      = "Random Forest quality prediction"
	Heading        = "Air quality prediction with Random Forest"
	SubmitButton   = "Predict now 🔥"
	Placeholder    = "Enter %s"
	MalformedInput = "Error: please fill in every field with a valid number."
	BoundViolation = "Error: value '%s' must be %s %s"
	SystemError    = "System error: %s"
	InputEcho      = "Input data:"
	PredictedLabel = "Predicted quality:"
	Probabilities  = "Prediction probabilities:"
)

var vietnamese = map[string]string{
	PageTitle:      "Dự đoán chất lượng Random Forest",
	Heading:        "Dự đoán chất lượng không khí với Random Forest",
	SubmitButton:   "Dự đoán ngay 🔥",
	Placeholder:    "Nhập %s",
	MalformedInput: "Lỗi: Vui lòng nhập đầy đủ và đúng định dạng số.",
	BoundViolation: "Lỗi: Giá trị '%s' phải %s %s",
	SystemError:    "Lỗi hệ thống: %s",
	InputEcho:      "Dữ liệu đầu vào:",
	PredictedLabel: "Dự đoán chất lượng:",
	Probabilities:  "Xác suất dự đoán:",

	"Poor":      "Kém",
	"Very Poor": "Rất Kém",
	"Medium":    "Trung bình",
	"Good":      "Tốt",
}

// Bundle is the immutable catalog plus the language matcher built from it.
type Bundle struct {
	cat       *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
	fallback  language.Tag
}

// Supported lists the languages the catalog carries.
func Supported() []language.Tag {
	return []language.Tag{language.Vietnamese, language.English}
}

// NewBundle builds the catalog. defaultLang is used when a request carries no
// usable Accept-Language header.
func NewBundle(defaultLang string) (*Bundle, error) {
	fallback, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("invalid language %q: %w", defaultLang, err)
	}

	supported := []language.Tag{}
	for _, tag := range Supported() {
		if base, _ := tag.Base(); sameBase(base, fallback) {
			fallback = tag
			supported = append([]language.Tag{tag}, supported...)
			continue
		}
		supported = append(supported, tag)
	}
	if !isSupported(fallback) {
		return nil, fmt.Errorf("unsupported language %q", defaultLang)
	}

	cat := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range vietnamese {
		if err := cat.SetString(language.Vietnamese, key, msg); err != nil {
			return nil, fmt.Errorf("failed to register message %q: %w", key, err)
		}
	}

	return &Bundle{
		cat:       cat,
		supported: supported,
		matcher:   language.NewMatcher(supported),
		fallback:  fallback,
	}, nil
}

func sameBase(base language.Base, tag language.Tag) bool {
	other, _ := tag.Base()
	return base == other
}

func isSupported(tag language.Tag) bool {
	for _, t := range Supported() {
		if t == tag {
			return true
		}
	}
	return false
}

// Default returns the configured fallback language.
func (b *Bundle) Default() language.Tag {
	return b.fallback
}

// Negotiate picks the best supported language for an Accept-Language header.
func (b *Bundle) Negotiate(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return b.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return b.fallback
	}
	_, idx, confidence := b.matcher.Match(tags...)
	if confidence == language.No {
		return b.fallback
	}
	return b.supported[idx]
}

// Translator formats messages for one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

func (b *Bundle) Translator(tag language.Tag) *Translator {
	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b.cat)),
	}
}

func (t *Translator) Language() language.Tag {
	return t.tag
}

// T translates key and substitutes args. Arguments should be preformatted
// strings; numbers would otherwise pick up locale separators.
func (t *Translator) T(key string, args ...interface{}) string {
	return t.printer.Sprintf(key, args...)
}
