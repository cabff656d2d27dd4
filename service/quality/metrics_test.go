package quality

import (
	"testing"

	"dataclean-service/service/models"

	"github.com/stretchr/testify/assert"
)

func buildDataset(columns ...models.Column) *models.Dataset {
	return &models.Dataset{Columns: columns}
}

func TestCompletenessScore(t *testing.T) {
	engine := NewEngine()

	t.Run("无缺失", func(t *testing.T) {
		ds := buildDataset(models.Column{Name: "a", Values: []interface{}{1.0, 2.0}})
		assert.Equal(t, 1.0, engine.CompletenessScore(ds))
	})

	t.Run("部分缺失", func(t *testing.T) {
		ds := buildDataset(
			models.Column{Name: "a", Values: []interface{}{1.0, nil}},
			models.Column{Name: "b", Values: []interface{}{nil, nil}},
		)
		// 4 个单元格缺 3 个
		assert.InDelta(t, 0.25, engine.CompletenessScore(ds), 1e-9)
	})

	t.Run("空数据集", func(t *testing.T) {
		assert.Equal(t, 0.0, engine.CompletenessScore(models.NewDataset()))
	})
}

func TestConsistencyScore(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name     string
		col      models.Column
		expected float64
	}{
		{"已类型化列", models.Column{Name: "a", Type: models.TypeNumeric, Values: []interface{}{1.0}}, 1.0},
		{"可转换文本列", models.Column{Name: "a", Values: []interface{}{"1", "2"}}, 0.3},
		{"纯文本列", models.Column{Name: "a", Values: []interface{}{"abc", "def"}}, 0.8},
		{"全空列", models.Column{Name: "a", Values: []interface{}{nil, nil}}, 0.5},
		{"值已是数值类型", models.Column{Name: "a", Values: []interface{}{1.5, 2.5}}, 1.0},
		{"可转换时间文本", models.Column{Name: "a", Values: []interface{}{"2024-01-01", "2024-02-01"}}, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := buildDataset(tt.col)
			assert.InDelta(t, tt.expected, engine.ConsistencyScore(ds), 1e-9)
		})
	}
}

func TestCustomConsistencyWeights(t *testing.T) {
	engine := NewEngineWithWeights(ConsistencyWeights{Typed: 0.9, Convertible: 0.1, Text: 0.5, Empty: 0.2})
	ds := buildDataset(models.Column{Name: "a", Values: []interface{}{"abc"}})
	assert.InDelta(t, 0.5, engine.ConsistencyScore(ds), 1e-9)
}

func TestCalculateScores(t *testing.T) {
	engine := NewEngine()
	original := buildDataset(
		models.Column{Name: "age", Values: []interface{}{"25", nil, "30", "28"}},
	)
	processed := buildDataset(
		models.Column{Name: "age", Type: models.TypeNumeric, Values: []interface{}{25.0, 27.67, 30.0, 28.0}},
	)

	report := engine.Calculate(original, processed)

	// 完整性 75 -> 100
	assert.Equal(t, 75.0, report.QualityScore.Completeness.Original)
	assert.Equal(t, 100.0, report.QualityScore.Completeness.Processed)
	assert.Equal(t, 25.0, report.QualityScore.Completeness.Improvement)

	// 一致性 30 -> 100
	assert.Equal(t, 30.0, report.QualityScore.Consistency.Original)
	assert.Equal(t, 100.0, report.QualityScore.Consistency.Processed)

	// 综合 = 0.6*完整性 + 0.4*一致性
	assert.Equal(t, 57.0, report.QualityScore.Overall.Original)
	assert.Equal(t, 100.0, report.QualityScore.Overall.Processed)
	assert.Equal(t, 43.0, report.QualityScore.Overall.Improvement)

	// 缺失数据改善
	assert.Equal(t, 1, report.MissingData.Improvement.MissingReduction)
}

func TestCalculateDistribution(t *testing.T) {
	engine := NewEngine()
	original := buildDataset(
		models.Column{Name: "score", Type: models.TypeNumeric, Values: []interface{}{80.0, 90.0, 100.0}},
		models.Column{Name: "note", Values: []interface{}{"a", "b", "c"}},
	)
	processed := original.Clone()

	report := engine.Calculate(original, processed)

	dist, ok := report.DataDistribution["score"]
	assert.True(t, ok)
	assert.Equal(t, 90.0, dist.Original.Mean)
	assert.Equal(t, 80.0, dist.Original.Min)
	assert.Equal(t, 100.0, dist.Original.Max)
	assert.Equal(t, 3, dist.Original.UniqueCount)
	assert.Equal(t, 10.0, dist.Original.Std)

	_, ok = report.DataDistribution["note"]
	assert.False(t, ok)
}

func TestCalculateDistributionSkipsNumericStrings(t *testing.T) {
	engine := NewEngine()
	// 原始快照中以字符串形式存储的数字列不是数值列
	original := buildDataset(
		models.Column{Name: "score", Values: []interface{}{"80", "90", "100"}},
	)
	processed := buildDataset(
		models.Column{Name: "score", Type: models.TypeNumeric, Values: []interface{}{80.0, 90.0, 100.0}},
	)

	report := engine.Calculate(original, processed)
	_, ok := report.DataDistribution["score"]
	assert.False(t, ok)
}

func TestCalculateDistributionUntypedNumericValues(t *testing.T) {
	engine := NewEngine()
	original := buildDataset(
		models.Column{Name: "amount", Values: []interface{}{10.0, 20.0, nil}},
	)
	processed := buildDataset(
		models.Column{Name: "amount", Type: models.TypeNumeric, Values: []interface{}{10.0, 20.0, 15.0}},
	)

	report := engine.Calculate(original, processed)
	dist, ok := report.DataDistribution["amount"]
	assert.True(t, ok)
	assert.Equal(t, 15.0, dist.Original.Mean)
}

func TestCalculateStructure(t *testing.T) {
	engine := NewEngine()
	original := buildDataset(
		models.Column{Name: "a", Values: []interface{}{1.0}},
		models.Column{Name: "b", Values: []interface{}{2.0}},
	)
	processed := buildDataset(
		models.Column{Name: "a", Values: []interface{}{1.0}},
		models.Column{Name: "c", Values: []interface{}{3.0}},
	)

	report := engine.Calculate(original, processed)
	assert.Equal(t, []string{"c"}, report.Structure.NewColumns)
	assert.Equal(t, []string{"b"}, report.Structure.RemovedColumns)
	assert.Equal(t, 0, report.Structure.ColumnsAdded)
}

func TestTextReport(t *testing.T) {
	engine := NewEngine()
	original := buildDataset(models.Column{Name: "a", Values: []interface{}{"1", nil}})
	processed := buildDataset(models.Column{Name: "a", Type: models.TypeNumeric, Values: []interface{}{1.0, 1.0}})

	text := engine.TextReport(engine.Calculate(original, processed))
	assert.Contains(t, text, "数据质量评估报告")
	assert.Contains(t, text, "【基础信息】")
	assert.Contains(t, text, "【质量评分】")
	assert.Contains(t, text, "缺失值减少: 1 个")
}

func TestConsistencyImprovementMessage(t *testing.T) {
	assert.Equal(t, "数据一致性提升 70.00 分", ConsistencyImprovementMessage(0.3, 1.0))
	assert.Equal(t, "数据一致性无变化", ConsistencyImprovementMessage(0.8, 0.8))
	assert.Contains(t, ConsistencyImprovementMessage(1.0, 0.5), "下降")
}
