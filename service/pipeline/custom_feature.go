/*
 * @module service/pipeline/custom_feature
 * @description 自定义特征求值器，用 yaegi 解释用户提供的 Go 表达式逐行计算新特征
 * @architecture 解释器封装 - 表达式编译一次，逐行求值
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 表达式解析(name = expr) -> 解释器编译 -> 逐行传入数值行求值
 * @rules 表达式只能访问数值列；编译失败使该特征被跳过，不中断流水线
 * @dependencies github.com/traefik/yaegi
 * @refs service/pipeline/feature_stage.go
 */

package pipeline

import (
	"fmt"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// FeatureEvaluator 单个自定义特征的求值器
type FeatureEvaluator struct {
	name string
	fn   func(map[string]float64) float64
}

// ParseFeatureSpec 解析 "特征名 = 表达式" 形式的自定义特征定义
func ParseFeatureSpec(spec string) (name, expr string, err error) {
	parts := strings.SplitN(spec, "=", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("自定义特征定义必须为 '特征名 = 表达式' 形式: %s", spec)
	}
	name = strings.TrimSpace(parts[0])
	expr = strings.TrimSpace(parts[1])
	if name == "" || expr == "" {
		return "", "", fmt.Errorf("自定义特征的名称和表达式都不能为空: %s", spec)
	}
	return name, expr, nil
}

// NewFeatureEvaluator 编译自定义特征表达式
// 表达式通过 row["列名"] 访问数值列，例如 row["price"] * row["quantity"]
func NewFeatureEvaluator(spec string) (*FeatureEvaluator, error) {
	name, expr, err := ParseFeatureSpec(spec)
	if err != nil {
		return nil, err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("初始化表达式解释器失败: %w", err)
	}

	src := fmt.Sprintf("func __feature(row map[string]float64) float64 { return %s }", expr)
	if _, err := i.Eval(src); err != nil {
		return nil, fmt.Errorf("编译特征表达式 '%s' 失败: %w", expr, err)
	}

	v, err := i.Eval("__feature")
	if err != nil {
		return nil, fmt.Errorf("获取特征函数失败: %w", err)
	}
	fn, ok := v.Interface().(func(map[string]float64) float64)
	if !ok {
		return nil, fmt.Errorf("特征表达式 '%s' 必须返回数值", expr)
	}

	return &FeatureEvaluator{name: name, fn: fn}, nil
}

// Name 特征列名
func (e *FeatureEvaluator) Name() string {
	return e.name
}

// Evaluate 对单行求值，表达式内部异常时返回 nil
func (e *FeatureEvaluator) Evaluate(row map[string]float64) (result interface{}) {
	defer func() {
		if recover() != nil {
			result = nil
		}
	}()
	return e.fn(row)
}
