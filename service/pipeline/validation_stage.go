/*
 * @module service/pipeline/validation_stage
 * @description 数据校验阶段，检查数据集是否具备进入后续处理的基本条件
 * @architecture 流水线阶段 - 只读检查，不修改数据
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 空数据检查 -> 规模上限检查 -> 重复列名检查 -> 整体缺失率检查 -> 统计信息收集
 * @rules 整体缺失率超过 0.8 或超出行列上限视为不可处理；警告不阻断流程
 * @dependencies fmt
 * @refs service/pipeline/flow.go
 */

package pipeline

import (
	"fmt"

	"dataclean-service/service/models"
	"dataclean-service/service/utils"
)

const (
	// 整体缺失率超过此值时拒绝处理
	maxTolerableMissingRate = 0.8
	// 单次处理的数据规模上限
	maxRows    = 1_000_000
	maxColumns = 1_000
)

// ValidationStage 数据校验阶段
type ValidationStage struct{}

// NewValidationStage 创建数据校验阶段
func NewValidationStage() *ValidationStage {
	return &ValidationStage{}
}

func (s *ValidationStage) Name() string { return "data_validation" }

type validationResult struct {
	valid    bool
	errors   []string
	warnings []string
	stats    map[string]interface{}
}

func (s *ValidationStage) Prepare(rc *RunContext) (interface{}, error) {
	return rc.CurrentDataset, nil
}

func (s *ValidationStage) Execute(prepared interface{}) (interface{}, error) {
	ds := prepared.(*models.Dataset)
	result := &validationResult{valid: true}

	if ds == nil || ds.ColumnCount() == 0 || ds.RowCount() == 0 {
		result.valid = false
		result.errors = append(result.errors, "数据集为空")
		return result, nil
	}

	if ds.RowCount() > maxRows {
		result.valid = false
		result.errors = append(result.errors,
			fmt.Sprintf("行数 %d 超过上限 %d", ds.RowCount(), maxRows))
	}
	if ds.ColumnCount() > maxColumns {
		result.valid = false
		result.errors = append(result.errors,
			fmt.Sprintf("列数 %d 超过上限 %d", ds.ColumnCount(), maxColumns))
	}

	if duplicates := ds.DuplicateColumnNames(); len(duplicates) > 0 {
		result.valid = false
		for _, name := range duplicates {
			result.errors = append(result.errors, fmt.Sprintf("存在重复列名: %s", name))
		}
	}

	missingRate := ds.MissingRate()
	if missingRate > maxTolerableMissingRate {
		result.valid = false
		result.errors = append(result.errors,
			fmt.Sprintf("整体缺失率 %.2f%% 过高，无法处理", missingRate*100))
	}

	for _, name := range ds.EmptyColumnNames() {
		result.warnings = append(result.warnings, fmt.Sprintf("列 '%s' 全部为空", name))
	}
	for _, col := range ds.Columns {
		rate := col.MissingRate()
		if rate > 0.5 && rate < 1.0 {
			result.warnings = append(result.warnings,
				fmt.Sprintf("列 '%s' 缺失率较高 (%.2f%%)", col.Name, rate*100))
		}
	}

	result.stats = map[string]interface{}{
		"rows":          ds.RowCount(),
		"columns":       ds.ColumnCount(),
		"missing_cells": ds.MissingCells(),
		"missing_rate":  utils.Round2(missingRate * 100),
	}
	return result, nil
}

func (s *ValidationStage) Finalize(rc *RunContext, prepared, result interface{}) (string, error) {
	vr := result.(*validationResult)
	rc.ValidationErrors = vr.errors
	rc.ValidationWarnings = vr.warnings
	rc.BasicStats = vr.stats

	if !vr.valid {
		details := map[string]interface{}{"errors": vr.errors}
		if len(vr.warnings) > 0 {
			details["warnings"] = vr.warnings
		}
		rc.AppendLog(s.Name(), models.StepStatusFailed, "数据验证未通过", details)
		return ActionInvalid, nil
	}

	details := map[string]interface{}{"stats": vr.stats}
	if len(vr.warnings) > 0 {
		details["warnings"] = vr.warnings
	}
	rc.AppendLog(s.Name(), models.StepStatusSuccess, "数据验证通过", details)
	return ActionValid, nil
}
