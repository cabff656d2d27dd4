package datatype

import (
	"testing"
	"time"

	"dataclean-service/service/models"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		values   []interface{}
		expected models.DataType
	}{
		{"布尔值-中文", []interface{}{"是", "否", "是"}, models.TypeBoolean},
		{"布尔值-英文", []interface{}{"yes", "no", nil, "yes"}, models.TypeBoolean},
		{"数值-混合", []interface{}{1, "2.5", 3.0}, models.TypeNumeric},
		{"时间-标准格式", []interface{}{"2024-01-01", "2024-02-15"}, models.TypeDatetime},
		{"文本-高唯一率", []interface{}{"张伟", "李娜", "王强"}, models.TypeText},
		{"全空", []interface{}{nil, nil, nil}, models.TypeText},
		{"空切片", []interface{}{}, models.TypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Detect(tt.values))
		})
	}
}

func TestDetectCategorical(t *testing.T) {
	// 100 个值只有 3 种取值，唯一率 0.03 < 0.1
	values := make([]interface{}, 100)
	options := []string{"甲", "乙", "丙"}
	for i := range values {
		values[i] = options[i%3]
	}
	assert.Equal(t, models.TypeCategorical, Detect(values))
}

func TestDetectNumericBeatsDatetime(t *testing.T) {
	// 数值检测优先于时间检测
	assert.Equal(t, models.TypeNumeric, Detect([]interface{}{"1", "2", "3"}))
}

func TestConvert(t *testing.T) {
	t.Run("数值转换失败置空", func(t *testing.T) {
		converted := Convert([]interface{}{"1.5", "abc", nil, 2}, models.TypeNumeric)
		assert.Equal(t, []interface{}{1.5, nil, nil, 2.0}, converted)
	})

	t.Run("时间转换", func(t *testing.T) {
		converted := Convert([]interface{}{"2024-01-01", "不是时间"}, models.TypeDatetime)
		parsed, ok := converted[0].(time.Time)
		assert.True(t, ok)
		assert.Equal(t, 2024, parsed.Year())
		assert.Nil(t, converted[1])
	})

	t.Run("布尔转换", func(t *testing.T) {
		converted := Convert([]interface{}{"是", "no", "maybe"}, models.TypeBoolean)
		assert.Equal(t, []interface{}{true, false, nil}, converted)
	})

	t.Run("文本转换保留整数精度", func(t *testing.T) {
		converted := Convert([]interface{}{3.0, "abc"}, models.TypeText)
		assert.Equal(t, []interface{}{"3", "abc"}, converted)
	})
}

func TestConvertColumn(t *testing.T) {
	col := &models.Column{Name: "age", Values: []interface{}{"25", "30", "bad"}}
	ConvertColumn(col, models.TypeNumeric)
	assert.Equal(t, models.TypeNumeric, col.Type)
	assert.Equal(t, []interface{}{25.0, 30.0, nil}, col.Values)
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		convention models.NamingConvention
		expected   string
	}{
		{"空格转下划线", "User Name", models.SnakeCase, "user_name"},
		{"驼峰拆分", "userName", models.SnakeCase, "user_name"},
		{"特殊字符清理", "user-name!", models.SnakeCase, "user_name"},
		{"转驼峰", "user_name", models.CamelCase, "userName"},
		{"转帕斯卡", "user name", models.PascalCase, "UserName"},
		{"中文保留", "用户 名称", models.SnakeCase, "用户_名称"},
		{"已经规范", "phone", models.SnakeCase, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input, tt.convention))
		})
	}
}

func TestResolveNameCollisions(t *testing.T) {
	t.Run("冲突追加序号", func(t *testing.T) {
		resolved := ResolveNameCollisions([]string{"name", "name", "name", "age"})
		assert.Equal(t, []string{"name", "name_2", "name_3", "age"}, resolved)
	})

	t.Run("无冲突保持原样", func(t *testing.T) {
		resolved := ResolveNameCollisions([]string{"a", "b", "c"})
		assert.Equal(t, []string{"a", "b", "c"}, resolved)
	})
}
