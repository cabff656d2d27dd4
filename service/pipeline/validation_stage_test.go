package pipeline

import (
	"fmt"
	"testing"

	"dataclean-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSingleStage(t *testing.T, stage Stage, rc *RunContext) string {
	t.Helper()
	prepared, err := stage.Prepare(rc)
	require.NoError(t, err)
	result, err := stage.Execute(prepared)
	require.NoError(t, err)
	action, err := stage.Finalize(rc, prepared, result)
	require.NoError(t, err)
	return action
}

func newContext(ds *models.Dataset) *RunContext {
	return NewRunContext(ds, models.DefaultProcessingConfig())
}

func TestValidationStageValid(t *testing.T) {
	ds := &models.Dataset{Columns: []models.Column{
		{Name: "name", Values: []interface{}{"张伟", "李娜"}},
		{Name: "age", Values: []interface{}{25, 30}},
	}}
	rc := newContext(ds)

	action := runSingleStage(t, NewValidationStage(), rc)
	assert.Equal(t, ActionValid, action)
	assert.Empty(t, rc.ValidationErrors)
	assert.Equal(t, 2, rc.BasicStats["rows"])
	assert.Equal(t, models.StepStatusSuccess, rc.ProcessingLog[0].Status)
}

func TestValidationStageEmptyDataset(t *testing.T) {
	rc := newContext(models.NewDataset())
	action := runSingleStage(t, NewValidationStage(), rc)
	assert.Equal(t, ActionInvalid, action)
	assert.Contains(t, rc.ValidationErrors, "数据集为空")
	assert.Equal(t, models.StepStatusFailed, rc.ProcessingLog[0].Status)
}

func TestValidationStageDuplicateColumns(t *testing.T) {
	ds := &models.Dataset{Columns: []models.Column{
		{Name: "a", Values: []interface{}{1}},
		{Name: "a", Values: []interface{}{2}},
	}}
	rc := newContext(ds)

	action := runSingleStage(t, NewValidationStage(), rc)
	assert.Equal(t, ActionInvalid, action)
	assert.Contains(t, rc.ValidationErrors[0], "重复列名")
}

func TestValidationStageTooManyColumns(t *testing.T) {
	ds := models.NewDataset()
	for i := 0; i < maxColumns+1; i++ {
		ds.AddColumn(models.Column{Name: fmt.Sprintf("col_%d", i), Values: []interface{}{1}})
	}
	rc := newContext(ds)

	action := runSingleStage(t, NewValidationStage(), rc)
	assert.Equal(t, ActionInvalid, action)
	assert.Contains(t, rc.ValidationErrors[0], "列数")
}

func TestValidationStageExcessiveMissing(t *testing.T) {
	ds := &models.Dataset{Columns: []models.Column{
		{Name: "a", Values: []interface{}{nil, nil, nil, nil, nil, 1}},
	}}
	rc := newContext(ds)

	action := runSingleStage(t, NewValidationStage(), rc)
	assert.Equal(t, ActionInvalid, action)
	assert.Contains(t, rc.ValidationErrors[0], "缺失率")
}

func TestValidationStageWarnings(t *testing.T) {
	ds := &models.Dataset{Columns: []models.Column{
		{Name: "ok", Values: []interface{}{1, 2, 3, 4}},
		{Name: "empty", Values: []interface{}{nil, nil, nil, nil}},
		{Name: "sparse", Values: []interface{}{1, nil, nil, nil}},
	}}
	rc := newContext(ds)

	action := runSingleStage(t, NewValidationStage(), rc)
	assert.Equal(t, ActionValid, action)
	assert.Len(t, rc.ValidationWarnings, 2)
}
