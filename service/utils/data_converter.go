/*
 * @module service/utils/data_converter
 * @description 数据转换工具模块，提供数值、布尔、时间的宽松解析，供类型检测和类型转换使用
 * @architecture 工具函数模式，提供无状态转换方法集合
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 无状态转换：输入 -> 转换逻辑 -> 输出
 * @rules 转换失败返回错误而不是 panic，由调用方决定是否把失败值置空
 * @dependencies github.com/spf13/cast, time, strings
 * @refs service/datatype/, service/pipeline/
 */

package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// 时间解析支持的格式，按常见程度排序
var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"2006年01月02日",
}

// ParseFloat 宽松解析数值，接受数值类型和数值字符串
func ParseFloat(value interface{}) (float64, error) {
	if value == nil {
		return 0, fmt.Errorf("nil值无法转换为数值")
	}
	if s, ok := value.(string); ok {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return 0, fmt.Errorf("空字符串无法转换为数值")
		}
		return cast.ToFloat64E(trimmed)
	}
	if _, ok := value.(bool); ok {
		return 0, fmt.Errorf("布尔值不作为数值处理")
	}
	if _, ok := value.(time.Time); ok {
		return 0, fmt.Errorf("时间值不作为数值处理")
	}
	return cast.ToFloat64E(value)
}

// ParseBool 解析布尔值，支持中英文常见写法
func ParseBool(value interface{}) (bool, error) {
	if value == nil {
		return false, fmt.Errorf("nil值无法转换为布尔值")
	}
	if b, ok := value.(bool); ok {
		return b, nil
	}
	s := strings.ToLower(strings.TrimSpace(cast.ToString(value)))
	switch s {
	case "true", "yes", "y", "1", "是":
		return true, nil
	case "false", "no", "n", "0", "否":
		return false, nil
	}
	return false, fmt.Errorf("无法将 '%v' 转换为布尔值", value)
}

// ParseTime 解析时间，按内置格式逐一尝试
func ParseTime(value interface{}) (time.Time, error) {
	if value == nil {
		return time.Time{}, fmt.Errorf("nil值无法转换为时间")
	}
	if t, ok := value.(time.Time); ok {
		return t, nil
	}

	str := strings.TrimSpace(cast.ToString(value))
	if str == "" {
		return time.Time{}, fmt.Errorf("时间字符串为空")
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析时间字符串: %s", str)
}

// NormalizeString 标准化字符串：去除首尾空格并压缩连续空白
func NormalizeString(str string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(str)), " ")
}

// Round2 保留两位小数
func Round2(v float64) float64 {
	if v >= 0 {
		return float64(int64(v*100+0.5)) / 100
	}
	return float64(int64(v*100-0.5)) / 100
}
