/*
 * @module service/datatype/column_namer
 * @description 列名标准化器，按命名约定转换列名并解决重命名冲突
 * @architecture 工具函数模式 - 无状态转换
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 清理非法字符 -> 拆分单词边界 -> 按约定拼接 -> 冲突去重
 * @rules 保留中文等 Unicode 字母；冲突列名追加确定性序号后缀
 * @dependencies strings, unicode
 * @refs service/pipeline/standardization_stage.go
 */

package datatype

import (
	"fmt"
	"strings"
	"unicode"

	"dataclean-service/service/models"
)

// NormalizeName 将列名转换为指定的命名约定
func NormalizeName(name string, convention models.NamingConvention) string {
	words := splitWords(name)
	if len(words) == 0 {
		return name
	}

	switch convention {
	case models.CamelCase:
		parts := make([]string, len(words))
		for i, w := range words {
			if i == 0 {
				parts[i] = strings.ToLower(w)
			} else {
				parts[i] = capitalize(w)
			}
		}
		return strings.Join(parts, "")
	case models.PascalCase:
		parts := make([]string, len(words))
		for i, w := range words {
			parts[i] = capitalize(w)
		}
		return strings.Join(parts, "")
	default: // snake_case
		parts := make([]string, len(words))
		for i, w := range words {
			parts[i] = strings.ToLower(w)
		}
		return strings.Join(parts, "_")
	}
}

// ResolveNameCollisions 对重命名后的列名去重
// 重复的列名依出现顺序追加 _2、_3 等后缀，结果确定且与输入等长
func ResolveNameCollisions(names []string) []string {
	seen := make(map[string]int, len(names))
	resolved := make([]string, len(names))
	for i, name := range names {
		seen[name]++
		if seen[name] == 1 {
			resolved[i] = name
			continue
		}
		candidate := fmt.Sprintf("%s_%d", name, seen[name])
		for seen[candidate] > 0 {
			seen[name]++
			candidate = fmt.Sprintf("%s_%d", name, seen[name])
		}
		seen[candidate]++
		resolved[i] = candidate
	}
	return resolved
}

// splitWords 将列名拆分为单词序列
// 分隔符为空白、下划线、连字符和其他符号；驼峰边界也作为分隔点
func splitWords(name string) []string {
	var words []string
	var current []rune
	runes := []rune(strings.TrimSpace(name))

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		// 小写或数字后跟大写视为驼峰边界
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
			flush()
		}
		current = append(current, r)
	}
	flush()
	return words
}

func capitalize(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
