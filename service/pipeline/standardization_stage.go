/*
 * @module service/pipeline/standardization_stage
 * @description 结构标准化阶段，执行列去重、空列移除、列名规范化和类型检测转换
 * @architecture 流水线阶段 - 在数据集副本上变换，收尾时整体替换工作数据集
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 去重列 -> 移除空列 -> 列名规范化(含冲突解决) -> 自定义类型映射 -> 自动类型检测
 * @rules 自定义类型映射优先于自动检测；阶段幂等，重复执行不再产生变化
 * @dependencies dataclean-service/service/datatype
 * @refs service/pipeline/flow.go
 */

package pipeline

import (
	"fmt"

	"dataclean-service/service/datatype"
	"dataclean-service/service/models"
	"dataclean-service/service/quality"
)

// StandardizationStage 结构标准化阶段
type StandardizationStage struct {
	qualityEngine *quality.Engine
}

// NewStandardizationStage 创建结构标准化阶段
func NewStandardizationStage() *StandardizationStage {
	return &StandardizationStage{qualityEngine: quality.NewEngine()}
}

func (s *StandardizationStage) Name() string { return "structure_standardization" }

type standardizationInput struct {
	dataset *models.Dataset
	config  models.StandardizationConfig
}

type standardizationResult struct {
	dataset           *models.Dataset
	changes           []string
	typeChanges       []models.TypeChange
	consistencyBefore float64
	consistencyAfter  float64
}

func (s *StandardizationStage) Prepare(rc *RunContext) (interface{}, error) {
	return &standardizationInput{
		dataset: rc.CurrentDataset.Clone(),
		config:  rc.Config.Standardization,
	}, nil
}

func (s *StandardizationStage) Execute(prepared interface{}) (interface{}, error) {
	input := prepared.(*standardizationInput)
	ds := input.dataset
	cfg := input.config
	result := &standardizationResult{
		consistencyBefore: s.qualityEngine.ConsistencyScore(ds),
	}

	if cfg.RemoveDuplicateColumns {
		removed := removeDuplicateColumns(ds)
		for _, name := range removed {
			result.changes = append(result.changes, fmt.Sprintf("移除重复列: %s", name))
		}
	}

	if cfg.RemoveEmptyColumns {
		removed := removeEmptyColumns(ds)
		for _, name := range removed {
			result.changes = append(result.changes, fmt.Sprintf("移除空列: %s", name))
		}
	}

	if cfg.EnableColumnRename {
		renamed := renameColumns(ds, cfg.NamingConvention)
		for _, change := range renamed {
			result.changes = append(result.changes, change)
		}
	}

	// 自定义类型映射优先，映射按标准化后的列名匹配
	mapped := make(map[string]bool)
	for colName, typeName := range cfg.CustomTypeMapping {
		col, ok := ds.Column(colName)
		if !ok {
			continue
		}
		target := models.DataType(typeName)
		if col.Type != target {
			result.typeChanges = append(result.typeChanges, models.TypeChange{
				Column: col.Name, From: string(col.Type), To: string(target),
			})
		}
		datatype.ConvertColumn(col, target)
		mapped[col.Name] = true
	}

	if cfg.AutoDetectTypes {
		for i := range ds.Columns {
			col := &ds.Columns[i]
			if mapped[col.Name] {
				continue
			}
			detected := datatype.DetectColumn(col)
			if col.Type != detected {
				result.typeChanges = append(result.typeChanges, models.TypeChange{
					Column: col.Name, From: string(col.Type), To: string(detected),
				})
			}
			datatype.ConvertColumn(col, detected)
		}
	}

	result.dataset = ds
	result.consistencyAfter = s.qualityEngine.ConsistencyScore(ds)
	return result, nil
}

func (s *StandardizationStage) Finalize(rc *RunContext, prepared, result interface{}) (string, error) {
	r := result.(*standardizationResult)
	rc.CurrentDataset = r.dataset

	details := map[string]interface{}{
		"changes":      r.changes,
		"type_changes": r.typeChanges,
	}
	message := fmt.Sprintf("结构标准化完成，共 %d 项调整；%s",
		len(r.changes)+len(r.typeChanges),
		quality.ConsistencyImprovementMessage(r.consistencyBefore, r.consistencyAfter))
	rc.AppendLog(s.Name(), models.StepStatusSuccess, message, details)
	return ActionDefault, nil
}

// removeDuplicateColumns 保留首次出现的列，返回被移除的列名
func removeDuplicateColumns(ds *models.Dataset) []string {
	seen := make(map[string]bool)
	kept := make([]models.Column, 0, len(ds.Columns))
	var removed []string
	for _, col := range ds.Columns {
		if seen[col.Name] {
			removed = append(removed, col.Name)
			continue
		}
		seen[col.Name] = true
		kept = append(kept, col)
	}
	ds.Columns = kept
	return removed
}

func removeEmptyColumns(ds *models.Dataset) []string {
	kept := make([]models.Column, 0, len(ds.Columns))
	var removed []string
	for _, col := range ds.Columns {
		if len(col.Values) > 0 && col.MissingCount() == len(col.Values) {
			removed = append(removed, col.Name)
			continue
		}
		kept = append(kept, col)
	}
	ds.Columns = kept
	return removed
}

func renameColumns(ds *models.Dataset, convention models.NamingConvention) []string {
	names := make([]string, len(ds.Columns))
	for i, col := range ds.Columns {
		names[i] = datatype.NormalizeName(col.Name, convention)
	}
	names = datatype.ResolveNameCollisions(names)

	var changes []string
	for i := range ds.Columns {
		if ds.Columns[i].Name != names[i] {
			changes = append(changes, fmt.Sprintf("重命名列: %s -> %s", ds.Columns[i].Name, names[i]))
			ds.Columns[i].Name = names[i]
		}
	}
	return changes
}
