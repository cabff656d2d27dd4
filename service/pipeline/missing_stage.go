/*
 * @module service/pipeline/missing_stage
 * @description 缺失值处理阶段，按列应用填充或删除策略
 * @architecture 流水线阶段 - 先按阈值移除高缺失列，再逐列应用策略
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 高缺失列移除 -> 逐列策略选择(自定义填充值 > 列策略 > 全局默认) -> 行删除收尾
 * @rules mean/median 仅对数值列生效，非数值列跳过并记录；drop 策略按行对齐地删除所有列的对应行
 * @dependencies sort
 * @refs service/pipeline/flow.go
 */

package pipeline

import (
	"fmt"
	"sort"

	"dataclean-service/service/models"
	"dataclean-service/service/utils"
)

// MissingHandlingStage 缺失值处理阶段
type MissingHandlingStage struct{}

// NewMissingHandlingStage 创建缺失值处理阶段
func NewMissingHandlingStage() *MissingHandlingStage {
	return &MissingHandlingStage{}
}

func (s *MissingHandlingStage) Name() string { return "missing_value_handling" }

type missingInput struct {
	dataset *models.Dataset
	config  models.MissingHandlingConfig
}

type missingResult struct {
	dataset        *models.Dataset
	droppedColumns []string
	droppedRows    int
	filledCells    int
	notes          []string
}

func (s *MissingHandlingStage) Prepare(rc *RunContext) (interface{}, error) {
	return &missingInput{
		dataset: rc.CurrentDataset.Clone(),
		config:  rc.Config.MissingHandling,
	}, nil
}

func (s *MissingHandlingStage) Execute(prepared interface{}) (interface{}, error) {
	input := prepared.(*missingInput)
	ds := input.dataset
	cfg := input.config
	result := &missingResult{}

	// 先移除缺失率超过阈值的列
	kept := make([]models.Column, 0, len(ds.Columns))
	for _, col := range ds.Columns {
		if col.MissingRate() > cfg.MissingThreshold {
			result.droppedColumns = append(result.droppedColumns, col.Name)
			continue
		}
		kept = append(kept, col)
	}
	ds.Columns = kept

	// 需要按行删除的行号集合
	dropRows := make(map[int]bool)

	for i := range ds.Columns {
		col := &ds.Columns[i]
		if col.MissingCount() == 0 {
			continue
		}

		// 自定义填充值优先于任何策略
		if fill, ok := cfg.CustomFillValues[col.Name]; ok {
			result.filledCells += fillConstant(col, fill)
			continue
		}

		strategy := cfg.DefaultStrategy
		if colStrategy, ok := cfg.ColumnStrategies[col.Name]; ok {
			strategy = colStrategy
		}

		switch strategy {
		case models.StrategyMean, models.StrategyMedian:
			if col.Type != models.TypeNumeric {
				result.notes = append(result.notes,
					fmt.Sprintf("列 '%s' 非数值类型，跳过 %s 填充", col.Name, strategy))
				continue
			}
			result.filledCells += fillStatistic(col, strategy)
		case models.StrategyMode:
			result.filledCells += fillMode(col)
		case models.StrategyForwardFill:
			result.filledCells += fillDirectional(col, true)
		case models.StrategyBackwardFill:
			result.filledCells += fillDirectional(col, false)
		case models.StrategyDrop:
			for rowIdx, v := range col.Values {
				if v == nil {
					dropRows[rowIdx] = true
				}
			}
		case models.StrategyCustom:
			result.notes = append(result.notes,
				fmt.Sprintf("列 '%s' 配置了自定义策略但未提供填充值，跳过", col.Name))
		}
	}

	if len(dropRows) > 0 {
		removeRows(ds, dropRows)
		result.droppedRows = len(dropRows)
	}

	result.dataset = ds
	return result, nil
}

func (s *MissingHandlingStage) Finalize(rc *RunContext, prepared, result interface{}) (string, error) {
	r := result.(*missingResult)

	missingBefore := rc.CurrentDataset.MissingCells()
	rc.CurrentDataset = r.dataset
	missingAfter := r.dataset.MissingCells()

	details := map[string]interface{}{
		"filled_cells":      r.filledCells,
		"dropped_rows":      r.droppedRows,
		"missing_reduction": missingBefore - missingAfter,
	}
	if len(r.droppedColumns) > 0 {
		details["dropped_columns"] = r.droppedColumns
	}
	if len(r.notes) > 0 {
		details["notes"] = r.notes
	}

	message := fmt.Sprintf("缺失值处理完成，填充 %d 个单元格", r.filledCells)
	if r.droppedRows > 0 {
		message += fmt.Sprintf("，删除 %d 行", r.droppedRows)
	}
	if len(r.droppedColumns) > 0 {
		message += fmt.Sprintf("，移除 %d 个高缺失列", len(r.droppedColumns))
	}
	rc.AppendLog(s.Name(), models.StepStatusSuccess, message, details)
	return ActionDefault, nil
}

// fillConstant 用固定值填充所有缺失单元格
func fillConstant(col *models.Column, fill interface{}) int {
	filled := 0
	for i, v := range col.Values {
		if v == nil {
			col.Values[i] = fill
			filled++
		}
	}
	return filled
}

// fillStatistic 用均值或中位数填充数值列
func fillStatistic(col *models.Column, strategy models.MissingStrategy) int {
	var numbers []float64
	for _, v := range col.Values {
		if v == nil {
			continue
		}
		if f, err := utils.ParseFloat(v); err == nil {
			numbers = append(numbers, f)
		}
	}
	if len(numbers) == 0 {
		return 0
	}

	var fill float64
	if strategy == models.StrategyMean {
		sum := 0.0
		for _, n := range numbers {
			sum += n
		}
		fill = sum / float64(len(numbers))
	} else {
		sorted := make([]float64, len(numbers))
		copy(sorted, numbers)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			fill = (sorted[mid-1] + sorted[mid]) / 2
		} else {
			fill = sorted[mid]
		}
	}
	return fillConstant(col, fill)
}

// fillMode 用出现次数最多的值填充，并列时取先出现者
func fillMode(col *models.Column) int {
	counts := make(map[string]int)
	firstSeen := make(map[string]interface{})
	var order []string
	for _, v := range col.Values {
		if v == nil {
			continue
		}
		key := models.ValueToString(v)
		if counts[key] == 0 {
			firstSeen[key] = v
			order = append(order, key)
		}
		counts[key]++
	}
	if len(order) == 0 {
		return 0
	}

	best := order[0]
	for _, key := range order {
		if counts[key] > counts[best] {
			best = key
		}
	}
	return fillConstant(col, firstSeen[best])
}

// fillDirectional 前向或后向填充，边缘无来源值的缺失保持缺失
func fillDirectional(col *models.Column, forward bool) int {
	filled := 0
	if forward {
		var last interface{}
		for i, v := range col.Values {
			if v == nil {
				if last != nil {
					col.Values[i] = last
					filled++
				}
				continue
			}
			last = v
		}
		return filled
	}

	var next interface{}
	for i := len(col.Values) - 1; i >= 0; i-- {
		if col.Values[i] == nil {
			if next != nil {
				col.Values[i] = next
				filled++
			}
			continue
		}
		next = col.Values[i]
	}
	return filled
}

// removeRows 按行号集合删除所有列中对应的行，保持行对齐
func removeRows(ds *models.Dataset, rows map[int]bool) {
	for i := range ds.Columns {
		col := &ds.Columns[i]
		kept := make([]interface{}, 0, len(col.Values))
		for rowIdx, v := range col.Values {
			if rows[rowIdx] {
				continue
			}
			kept = append(kept, v)
		}
		col.Values = kept
	}
}
