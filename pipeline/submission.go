package pipeline

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"airquality/ml"
)

// ErrMalformedInput 字段缺失或不是数字
var ErrMalformedInput = errors.New("malformed input")

// InputName 表单字段名，按特征位置编号
func InputName(idx int) string {
	return "input_" + strconv.Itoa(idx)
}

// Submission 一次表单提交：原始文本与解析后的特征向量
type Submission struct {
	Raw      [ml.NumFeatures]string
	Features ml.FeatureVector
}

// ParseSubmission 解析全部字段；任何字段缺失、为空或非有限数值时返回ErrMalformedInput
func ParseSubmission(form url.Values) (Submission, error) {
	var sub Submission
	for i := 0; i < ml.NumFeatures; i++ {
		sub.Raw[i] = form.Get(InputName(i))
	}
	for i, raw := range sub.Raw {
		value, err := ParseReading(raw)
		if err != nil {
			return sub, fmt.Errorf("%w: %s: %v", ErrMalformedInput, ml.FeatureName(i), err)
		}
		sub.Features[i] = value
	}
	return sub, nil
}

// ParseReading 解析单个读数，忽略首尾空白
func ParseReading(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New("empty value")
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return value, nil
}

// Validate 用给定范围表检查已解析的读数
func (s Submission) Validate(limits Limits) *BoundViolation {
	return limits.Check(s.Features)
}
