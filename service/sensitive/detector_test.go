package sensitive

import (
	"testing"

	"dataclean-service/service/models"

	"github.com/stretchr/testify/assert"
)

func TestDetectFieldByColumnName(t *testing.T) {
	tests := []struct {
		name       string
		columnName string
		samples    []string
		expected   models.SensitiveType
		score      float64
	}{
		{"手机号列名+有效样本", "phone", []string{"13812345678", "15987654321"}, models.SensitivePhone, 0.9},
		{"中文列名", "联系电话", []string{"13812345678"}, models.SensitivePhone, 0.9},
		{"身份证列名", "身份证号", []string{"110101199001011234"}, models.SensitiveIDCard, 1.0},
		{"邮箱列名", "email_address", []string{"john@example.com"}, models.SensitiveEmail, 0.8},
		{"姓名列名", "姓名", []string{"张伟", "李娜"}, models.SensitiveName, 0.7},
		{"地址列名", "home_address", []string{"北京市朝阳区建国路88号"}, models.SensitiveAddress, 0.6},
		{"普通列名普通值", "score", []string{"88", "92"}, models.SensitiveNone, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectField(tt.columnName, tt.samples)
			assert.Equal(t, tt.expected, result.Type)
			assert.Equal(t, tt.score, result.Score)
		})
	}
}

func TestDetectFieldKeywordNeedsSampleValidation(t *testing.T) {
	// 列名命中关键词但样本都不是手机号，不足 50% 验证比例
	result := DetectField("phone", []string{"apple", "banana", "orange"})
	assert.Equal(t, models.SensitiveNone, result.Type)
}

func TestDetectFieldByValuePattern(t *testing.T) {
	// 列名无关键词，值模式匹配比例 >= 70% 仍可识别
	result := DetectField("col_a", []string{"13812345678", "15987654321", "18611112222", "无效"})
	assert.Equal(t, models.SensitivePhone, result.Type)

	// 匹配比例 50% 低于 70% 阈值，不识别
	result = DetectField("col_b", []string{"13812345678", "无效", "也无效", "15987654321"})
	assert.Equal(t, models.SensitiveNone, result.Type)
}

func TestDetectFieldOrderIndependent(t *testing.T) {
	forward := []string{"13812345678", "15987654321", "18611112222"}
	backward := []string{"18611112222", "15987654321", "13812345678"}
	assert.Equal(t, DetectField("c", forward), DetectField("c", backward))
}

func TestDetectFieldEmptySamples(t *testing.T) {
	// 无样本时仅凭列名关键词判定
	result := DetectField("手机号", nil)
	assert.Equal(t, models.SensitivePhone, result.Type)

	result = DetectField("备注", nil)
	assert.Equal(t, models.SensitiveNone, result.Type)
}

func TestMatchesType(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		sType    models.SensitiveType
		expected bool
	}{
		{"国内手机号", "13812345678", models.SensitivePhone, true},
		{"国际格式", "+86 13812345678", models.SensitivePhone, true},
		{"过短数字", "123456", models.SensitivePhone, false},
		{"18位身份证", "11010119900101123X", models.SensitiveIDCard, true},
		{"15位身份证", "110101900101123", models.SensitiveIDCard, true},
		{"17位数字", "11010119900101123", models.SensitiveIDCard, false},
		{"有效邮箱", "a.b+c@example.co", models.SensitiveEmail, true},
		{"无效邮箱", "not-an-email", models.SensitiveEmail, false},
		{"中文姓名", "欧阳修", models.SensitiveName, true},
		{"单字不算姓名", "张", models.SensitiveName, false},
		{"英文不算姓名", "John", models.SensitiveName, false},
		{"中文地址", "上海市浦东新区世纪大道100号", models.SensitiveAddress, true},
		{"过短地址", "北京市", models.SensitiveAddress, false},
		{"空值", "", models.SensitivePhone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesType(tt.value, tt.sType))
		})
	}
}

func TestSeverityScore(t *testing.T) {
	assert.Equal(t, 1.0, SeverityScore(models.SensitiveIDCard))
	assert.Equal(t, 0.9, SeverityScore(models.SensitivePhone))
	assert.Equal(t, 0.8, SeverityScore(models.SensitiveEmail))
	assert.Equal(t, 0.7, SeverityScore(models.SensitiveName))
	assert.Equal(t, 0.6, SeverityScore(models.SensitiveAddress))
	assert.Equal(t, 0.0, SeverityScore(models.SensitiveNone))
}
