package pipeline

import (
	"testing"

	"dataclean-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numericColumn(name string, values ...interface{}) models.Column {
	return models.Column{Name: name, Type: models.TypeNumeric, Values: values}
}

func TestMissingStageMeanFill(t *testing.T) {
	ds := &models.Dataset{Columns: []models.Column{
		numericColumn("age", 1.0, nil, 3.0),
	}}
	rc := newContext(ds)

	runSingleStage(t, NewMissingHandlingStage(), rc)

	col, _ := rc.CurrentDataset.Column("age")
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, col.Values)
	assert.Equal(t, 1, rc.ProcessingLog[0].Details["missing_reduction"])
}

func TestMissingStageMedianFill(t *testing.T) {
	ds := &models.Dataset{Columns: []models.Column{
		numericColumn("v", 1.0, 2.0, 100.0, nil),
	}}
	rc := newContext(ds)
	rc.Config.MissingHandling.ColumnStrategies = map[string]models.MissingStrategy{"v": models.StrategyMedian}

	runSingleStage(t, NewMissingHandlingStage(), rc)

	col, _ := rc.CurrentDataset.Column("v")
	assert.Equal(t, 2.0, col.Values[3])
}

func TestMissingStageModeFill(t *testing.T) {
	ds := &models.Dataset{Columns: []models.Column{
		{Name: "city", Type: models.TypeText, Values: []interface{}{"北京", "上海", "北京", nil}},
	}}
	rc := newContext(ds)
	rc.Config.MissingHandling.ColumnStrategies = map[string]models.MissingStrategy{"city": models.StrategyMode}

	runSingleStage(t, NewMissingHandlingStage(), rc)

	col, _ := rc.CurrentDataset.Column("city")
	assert.Equal(t, "北京", col.Values[3])
}

func TestMissingStageDirectionalFill(t *testing.T) {
	t.Run("前向填充", func(t *testing.T) {
		ds := &models.Dataset{Columns: []models.Column{
			numericColumn("v", nil, 1.0, nil, 2.0),
		}}
		rc := newContext(ds)
		rc.Config.MissingHandling.ColumnStrategies = map[string]models.MissingStrategy{"v": models.StrategyForwardFill}

		runSingleStage(t, NewMissingHandlingStage(), rc)
		col, _ := rc.CurrentDataset.Column("v")
		// 首行无前值保持缺失
		assert.Equal(t, []interface{}{nil, 1.0, 1.0, 2.0}, col.Values)
	})

	t.Run("后向填充", func(t *testing.T) {
		ds := &models.Dataset{Columns: []models.Column{
			numericColumn("v", nil, 1.0, nil, 2.0),
		}}
		rc := newContext(ds)
		rc.Config.MissingHandling.ColumnStrategies = map[string]models.MissingStrategy{"v": models.StrategyBackwardFill}

		runSingleStage(t, NewMissingHandlingStage(), rc)
		col, _ := rc.CurrentDataset.Column("v")
		assert.Equal(t, []interface{}{1.0, 1.0, 2.0, 2.0}, col.Values)
	})
}

func TestMissingStageDropRows(t *testing.T) {
	ds := &models.Dataset{Columns: []models.Column{
		numericColumn("a", 1.0, nil, 3.0),
		{Name: "b", Type: models.TypeText, Values: []interface{}{"x", "y", "z"}},
	}}
	rc := newContext(ds)
	rc.Config.MissingHandling.ColumnStrategies = map[string]models.MissingStrategy{"a": models.StrategyDrop}

	runSingleStage(t, NewMissingHandlingStage(), rc)

	// 删除行后所有列保持对齐
	assert.Equal(t, 2, rc.CurrentDataset.RowCount())
	colB, _ := rc.CurrentDataset.Column("b")
	assert.Equal(t, []interface{}{"x", "z"}, colB.Values)
}

func TestMissingStageCustomFillValue(t *testing.T) {
	ds := &models.Dataset{Columns: []models.Column{
		{Name: "remark", Type: models.TypeText, Values: []interface{}{"好", nil}},
	}}
	rc := newContext(ds)
	// 自定义填充值优先于列策略
	rc.Config.MissingHandling.ColumnStrategies = map[string]models.MissingStrategy{"remark": models.StrategyDrop}
	rc.Config.MissingHandling.CustomFillValues = map[string]interface{}{"remark": "无"}

	runSingleStage(t, NewMissingHandlingStage(), rc)

	col, _ := rc.CurrentDataset.Column("remark")
	assert.Equal(t, []interface{}{"好", "无"}, col.Values)
	assert.Equal(t, 2, rc.CurrentDataset.RowCount())
}

func TestMissingStageThresholdDropColumn(t *testing.T) {
	ds := &models.Dataset{Columns: []models.Column{
		numericColumn("mostly_missing", nil, nil, nil, nil, 1.0),
		numericColumn("ok", 1.0, 2.0, 3.0, 4.0, 5.0),
	}}
	rc := newContext(ds)
	rc.Config.MissingHandling.MissingThreshold = 0.5

	runSingleStage(t, NewMissingHandlingStage(), rc)

	_, exists := rc.CurrentDataset.Column("mostly_missing")
	assert.False(t, exists)
	_, exists = rc.CurrentDataset.Column("ok")
	assert.True(t, exists)
}

func TestMissingStageMeanSkipsNonNumeric(t *testing.T) {
	ds := &models.Dataset{Columns: []models.Column{
		{Name: "note", Type: models.TypeText, Values: []interface{}{"a", nil}},
	}}
	rc := newContext(ds)

	runSingleStage(t, NewMissingHandlingStage(), rc)

	col, _ := rc.CurrentDataset.Column("note")
	require.Nil(t, col.Values[1])
	notes := rc.ProcessingLog[0].Details["notes"].([]string)
	assert.Contains(t, notes[0], "跳过")
}
