/*
 * @module service/sensitive/detector
 * @description 敏感字段检测器，基于列名关键词和值模式匹配识别手机号、身份证号、邮箱、姓名和地址
 * @architecture 规则引擎模式 - 关键词命中需样本验证，值模式按比例阈值判定
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 列名关键词匹配 -> 样本验证(≥50%) -> 值模式匹配(≥70%) -> 敏感度评分
 * @rules 列名命中但样本验证不足时回退到值模式；检测结果与样本顺序无关
 * @dependencies regexp, golang.org/x/text/unicode/norm
 * @refs service/pipeline/masking_stage.go, service/masking/
 */

package sensitive

import (
	"regexp"
	"strings"

	"dataclean-service/service/models"

	"golang.org/x/text/unicode/norm"
)

// 列名关键词，中英文混合，匹配时忽略大小写
var nameKeywords = map[models.SensitiveType][]string{
	models.SensitivePhone:   {"phone", "mobile", "tel", "telephone", "手机", "电话", "联系方式"},
	models.SensitiveIDCard:  {"id_card", "idcard", "identity", "身份证", "证件号"},
	models.SensitiveEmail:   {"email", "mail", "邮箱", "电子邮件"},
	models.SensitiveName:    {"name", "姓名", "真实姓名", "联系人"},
	models.SensitiveAddress: {"address", "addr", "地址", "住址", "所在地"},
}

// 检测顺序固定，保证同一列名命中多个关键词时结果确定
var detectionOrder = []models.SensitiveType{
	models.SensitiveIDCard,
	models.SensitivePhone,
	models.SensitiveEmail,
	models.SensitiveName,
	models.SensitiveAddress,
}

// 敏感度评分表
var severityScores = map[models.SensitiveType]float64{
	models.SensitiveIDCard:  1.0,
	models.SensitivePhone:   0.9,
	models.SensitiveEmail:   0.8,
	models.SensitiveName:    0.7,
	models.SensitiveAddress: 0.6,
	models.SensitiveNone:    0.0,
}

var (
	chinaMobilePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)
	intlPhonePattern   = regexp.MustCompile(`^\+\d{1,3}[\s-]?\d{6,14}$`)
	usPhonePattern     = regexp.MustCompile(`^(\(\d{3}\)|\d{3})[\s.-]?\d{3}[\s.-]?\d{4}$`)
	extensionPattern   = regexp.MustCompile(`^\d{3,4}[\s-]?\d{7,8}$`)
	generalDigits      = regexp.MustCompile(`^\d{7,15}$`)

	idCard18Pattern = regexp.MustCompile(`^\d{17}[\dXx]$`)
	idCard15Pattern = regexp.MustCompile(`^\d{15}$`)

	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	chineseNamePattern = regexp.MustCompile(`^\p{Han}{2,4}$`)

	addressKeywordPattern = regexp.MustCompile(`[省市区县镇村路街道号栋楼室]`)
)

// 样本验证的阈值
const (
	keywordSampleRatio = 0.5
	patternSampleRatio = 0.7
	maxSamples         = 20
)

// Result 敏感字段检测结果
type Result struct {
	Type  models.SensitiveType `json:"type"`
	Score float64              `json:"score"`
}

// DetectField 检测字段是否包含敏感信息
// 先按列名关键词匹配并用样本验证，再回退到纯值模式匹配
func DetectField(columnName string, samples []string) Result {
	normalized := normalizeSamples(samples)
	lowerName := strings.ToLower(norm.NFC.String(columnName))

	for _, sType := range detectionOrder {
		if !nameMatches(lowerName, sType) {
			continue
		}
		// 列名命中后要求至少一半样本符合该类型的值模式
		if len(normalized) == 0 || matchRatio(normalized, sType) >= keywordSampleRatio {
			return Result{Type: sType, Score: severityScores[sType]}
		}
	}

	if len(normalized) > 0 {
		for _, sType := range detectionOrder {
			if matchRatio(normalized, sType) >= patternSampleRatio {
				return Result{Type: sType, Score: severityScores[sType]}
			}
		}
	}

	return Result{Type: models.SensitiveNone, Score: 0.0}
}

// SeverityScore 返回敏感类型对应的固定评分
func SeverityScore(sType models.SensitiveType) float64 {
	return severityScores[sType]
}

// MatchesType 判断单个值是否符合指定敏感类型的模式
func MatchesType(value string, sType models.SensitiveType) bool {
	v := strings.TrimSpace(norm.NFC.String(value))
	if v == "" {
		return false
	}
	switch sType {
	case models.SensitivePhone:
		return isPhone(v)
	case models.SensitiveIDCard:
		return idCard18Pattern.MatchString(v) || idCard15Pattern.MatchString(v)
	case models.SensitiveEmail:
		return emailPattern.MatchString(v)
	case models.SensitiveName:
		return chineseNamePattern.MatchString(v)
	case models.SensitiveAddress:
		return len([]rune(v)) > 5 && addressKeywordPattern.MatchString(v)
	}
	return false
}

func isPhone(v string) bool {
	if chinaMobilePattern.MatchString(v) {
		return true
	}
	if intlPhonePattern.MatchString(v) || usPhonePattern.MatchString(v) || extensionPattern.MatchString(v) {
		return true
	}
	// 纯数字串要求长度至少 10，避免把普通编号误判为电话
	cleaned := strings.NewReplacer(" ", "", "-", "", ".", "").Replace(v)
	return len(cleaned) >= 10 && generalDigits.MatchString(cleaned)
}

func matchRatio(samples []string, sType models.SensitiveType) float64 {
	matched := 0
	for _, s := range samples {
		if MatchesType(s, sType) {
			matched++
		}
	}
	return float64(matched) / float64(len(samples))
}

func nameMatches(lowerName string, sType models.SensitiveType) bool {
	for _, keyword := range nameKeywords[sType] {
		if strings.Contains(lowerName, keyword) {
			return true
		}
	}
	return false
}

// normalizeSamples 统一做 NFC 规范化并剔除空白样本，最多取前 maxSamples 个
func normalizeSamples(samples []string) []string {
	normalized := make([]string, 0, len(samples))
	for _, s := range samples {
		trimmed := strings.TrimSpace(norm.NFC.String(s))
		if trimmed == "" {
			continue
		}
		normalized = append(normalized, trimmed)
		if len(normalized) >= maxSamples {
			break
		}
	}
	return normalized
}
