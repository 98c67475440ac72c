// Package pipeline 解析并校验表单提交的读数
package pipeline

import (
	"fmt"
	"strconv"

	"airquality/ml"
)

// Bound 单侧边界，Set为false表示该侧不限
type Bound struct {
	Value float64
	Set   bool
}

func bound(v float64) Bound { return Bound{Value: v, Set: true} }

var unbounded = Bound{}

func (b Bound) String() string {
	if !b.Set {
		return "none"
	}
	return strconv.FormatFloat(b.Value, 'f', -1, 64)
}

// Range 闭区间范围
type Range struct {
	Min Bound
	Max Bound
}

// Limits 各特征的取值范围，按特征顺序排列
type Limits struct {
	ranges [ml.NumFeatures]Range
}

// DefaultLimits 空气质量读数的固定范围表
func DefaultLimits() Limits {
	var l Limits
	l.ranges[ml.PM25] = Range{Min: unbounded, Max: bound(150)}
	l.ranges[ml.PM10] = Range{Min: unbounded, Max: bound(500)}
	l.ranges[ml.CO] = Range{Min: unbounded, Max: bound(10)}
	l.ranges[ml.NO2] = Range{Min: unbounded, Max: bound(200)}
	l.ranges[ml.SO2] = Range{Min: unbounded, Max: bound(500)}
	l.ranges[ml.O3] = Range{Min: unbounded, Max: bound(200)}
	l.ranges[ml.Temperature] = Range{Min: bound(-40), Max: bound(50)}
	l.ranges[ml.Humidity] = Range{Min: bound(0), Max: bound(100)}
	l.ranges[ml.Rainfall] = Range{Min: bound(0), Max: unbounded}
	l.ranges[ml.WindSpeed] = Range{Min: bound(0), Max: unbounded}
	return l
}

// Range 返回某个特征的范围
func (l Limits) Range(idx int) Range {
	if idx < 0 || idx >= ml.NumFeatures {
		return Range{}
	}
	return l.ranges[idx]
}

// Side 违反的边界方向
type Side int

const (
	BelowMin Side = iota
	AboveMax
)

func (s Side) Operator() string {
	if s == BelowMin {
		return ">="
	}
	return "<="
}

// BoundViolation 某个读数超出范围
type BoundViolation struct {
	Index int
	Field string
	Side  Side
	Bound Bound
	Value float64
}

func (v *BoundViolation) Error() string {
	return fmt.Sprintf("value '%s' must be %s %s", v.Field, v.Side.Operator(), v.Bound)
}

// Check 按特征顺序逐一检查，先查下限再查上限，返回第一个违规
func (l Limits) Check(features ml.FeatureVector) *BoundViolation {
	for i, value := range features {
		r := l.ranges[i]
		if r.Min.Set && value < r.Min.Value {
			return &BoundViolation{Index: i, Field: ml.FeatureName(i), Side: BelowMin, Bound: r.Min, Value: value}
		}
		if r.Max.Set && value > r.Max.Value {
			return &BoundViolation{Index: i, Field: ml.FeatureName(i), Side: AboveMax, Bound: r.Max, Value: value}
		}
	}
	return nil
}
