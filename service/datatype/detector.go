/*
 * @module service/datatype/detector
 * @description 数据类型检测器，根据样本值推断列的语义类型并执行尽力而为的类型转换
 * @architecture 工具函数模式 - 无状态检测与转换
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 空值过滤 -> 布尔检测 -> 数值检测 -> 时间检测 -> 分类检测 -> 默认文本
 * @rules 检测顺序固定，首个命中生效；转换失败的单元格置为 nil，绝不中断
 * @dependencies dataclean-service/service/utils, github.com/spf13/cast
 * @refs service/pipeline/standardization_stage.go
 */

package datatype

import (
	"strings"

	"dataclean-service/service/models"
	"dataclean-service/service/utils"

	"github.com/spf13/cast"
)

// 布尔列允许的取值集合
var booleanPatterns = []map[string]bool{
	{"true": true, "false": true},
	{"yes": true, "no": true},
	{"y": true, "n": true},
	{"1": true, "0": true},
	{"是": true, "否": true},
}

// 时间检测的采样数量上限
const datetimeSampleSize = 10

// Detect 检测一组值的语义数据类型
// 忽略空值；全部为空时返回文本类型
func Detect(values []interface{}) models.DataType {
	nonNull := make([]interface{}, 0, len(values))
	for _, v := range values {
		if v != nil {
			nonNull = append(nonNull, v)
		}
	}

	if len(nonNull) == 0 {
		return models.TypeText
	}

	if isBooleanValues(nonNull) {
		return models.TypeBoolean
	}
	if isNumericValues(nonNull) {
		return models.TypeNumeric
	}
	if isDatetimeValues(nonNull) {
		return models.TypeDatetime
	}
	if isCategoricalValues(nonNull) {
		return models.TypeCategorical
	}
	return models.TypeText
}

// DetectColumn 检测列的语义数据类型
func DetectColumn(col *models.Column) models.DataType {
	return Detect(col.Values)
}

// Convert 将一组值转换为目标类型，单值转换失败置为 nil
func Convert(values []interface{}, target models.DataType) []interface{} {
	converted := make([]interface{}, len(values))
	for i, v := range values {
		if v == nil {
			converted[i] = nil
			continue
		}
		converted[i] = convertValue(v, target)
	}
	return converted
}

// ConvertColumn 将列转换为目标类型并更新类型标签
func ConvertColumn(col *models.Column, target models.DataType) {
	col.Values = Convert(col.Values, target)
	col.Type = target
}

func convertValue(value interface{}, target models.DataType) interface{} {
	switch target {
	case models.TypeNumeric:
		if f, err := utils.ParseFloat(value); err == nil {
			return f
		}
		return nil
	case models.TypeDatetime:
		if t, err := utils.ParseTime(value); err == nil {
			return t
		}
		return nil
	case models.TypeBoolean:
		if b, err := utils.ParseBool(value); err == nil {
			return b
		}
		return nil
	default: // categorical 和 text 统一转为字符串
		return models.ValueToString(value)
	}
}

func isBooleanValues(values []interface{}) bool {
	unique := make(map[string]bool)
	for _, v := range values {
		unique[strings.ToLower(strings.TrimSpace(cast.ToString(v)))] = true
	}

	for _, pattern := range booleanPatterns {
		subset := true
		for value := range unique {
			if !pattern[value] {
				subset = false
				break
			}
		}
		if subset {
			return true
		}
	}
	return false
}

func isNumericValues(values []interface{}) bool {
	for _, v := range values {
		if _, err := utils.ParseFloat(v); err != nil {
			return false
		}
	}
	return true
}

func isDatetimeValues(values []interface{}) bool {
	sampleSize := datetimeSampleSize
	if len(values) < sampleSize {
		sampleSize = len(values)
	}
	if sampleSize == 0 {
		return false
	}
	for _, v := range values[:sampleSize] {
		if _, err := utils.ParseTime(v); err != nil {
			return false
		}
	}
	return true
}

func isCategoricalValues(values []interface{}) bool {
	unique := make(map[string]bool)
	for _, v := range values {
		unique[models.ValueToString(v)] = true
	}
	uniqueRatio := float64(len(unique)) / float64(len(values))
	return uniqueRatio < 0.1 && len(unique) < 50
}
