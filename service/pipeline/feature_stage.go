/*
 * @module service/pipeline/feature_stage
 * @description 特征提取阶段，从数值、文本、时间列派生新特征列，并支持自定义表达式特征
 * @architecture 流水线阶段 - 仅追加新列，不修改既有列
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 数值缺失/绝对值特征 -> 文本长度/词数/空串特征 -> 时间成分特征 -> 自定义表达式特征
 * @rules 派生列名带固定后缀；源值缺失时派生值同样缺失；单个特征失败不中断其他特征
 * @dependencies math, time
 * @refs service/pipeline/flow.go, service/pipeline/custom_feature.go
 */

package pipeline

import (
	"fmt"
	"math"
	"strings"
	"time"

	"dataclean-service/service/models"
	"dataclean-service/service/utils"
)

// FeatureExtractionStage 特征提取阶段
type FeatureExtractionStage struct{}

// NewFeatureExtractionStage 创建特征提取阶段
func NewFeatureExtractionStage() *FeatureExtractionStage {
	return &FeatureExtractionStage{}
}

func (s *FeatureExtractionStage) Name() string { return "feature_extraction" }

type featureInput struct {
	dataset *models.Dataset
	config  models.FeatureExtractionConfig
}

type featureResult struct {
	dataset  *models.Dataset
	features []string
	notes    []string
}

func (s *FeatureExtractionStage) Prepare(rc *RunContext) (interface{}, error) {
	return &featureInput{
		dataset: rc.CurrentDataset.Clone(),
		config:  rc.Config.FeatureExtraction,
	}, nil
}

func (s *FeatureExtractionStage) Execute(prepared interface{}) (interface{}, error) {
	input := prepared.(*featureInput)
	ds := input.dataset
	cfg := input.config
	result := &featureResult{dataset: ds}

	if !cfg.EnableExtraction {
		return result, nil
	}

	// 在追加新列前固定源列快照，派生特征不会互相引用
	sourceColumns := make([]models.Column, len(ds.Columns))
	copy(sourceColumns, ds.Columns)

	for i := range sourceColumns {
		col := &sourceColumns[i]
		switch col.Type {
		case models.TypeNumeric:
			if cfg.ExtractNumericStats {
				result.features = append(result.features, addNumericFeatures(ds, col)...)
			}
		case models.TypeText, models.TypeCategorical:
			if cfg.ExtractTextFeatures {
				result.features = append(result.features, addTextFeatures(ds, col)...)
			}
		case models.TypeDatetime:
			if cfg.ExtractDatetimeFeatures {
				result.features = append(result.features, addDatetimeFeatures(ds, col)...)
			}
		}
	}

	for _, spec := range cfg.CustomFeatures {
		feature, err := s.addCustomFeature(ds, sourceColumns, spec)
		if err != nil {
			result.notes = append(result.notes, err.Error())
			continue
		}
		result.features = append(result.features, feature)
	}

	return result, nil
}

func (s *FeatureExtractionStage) Finalize(rc *RunContext, prepared, result interface{}) (string, error) {
	r := result.(*featureResult)
	rc.CurrentDataset = r.dataset
	rc.ExtractedFeatures = append(rc.ExtractedFeatures, r.features...)

	details := map[string]interface{}{"features": r.features}
	if len(r.notes) > 0 {
		details["notes"] = r.notes
	}
	rc.AppendLog(s.Name(), models.StepStatusSuccess,
		fmt.Sprintf("特征提取完成，新增 %d 个特征", len(r.features)), details)
	return ActionDefault, nil
}

// addNumericFeatures 为数值列追加缺失标记和绝对值特征
func addNumericFeatures(ds *models.Dataset, col *models.Column) []string {
	isNull := make([]interface{}, len(col.Values))
	absValues := make([]interface{}, len(col.Values))
	for i, v := range col.Values {
		if v == nil {
			isNull[i] = 1.0
			continue
		}
		isNull[i] = 0.0
		if f, err := utils.ParseFloat(v); err == nil {
			absValues[i] = math.Abs(f)
		}
	}

	names := []string{col.Name + "_is_null", col.Name + "_abs"}
	ds.AddColumn(models.Column{Name: names[0], Type: models.TypeNumeric, Values: isNull})
	ds.AddColumn(models.Column{Name: names[1], Type: models.TypeNumeric, Values: absValues})
	return names
}

// addTextFeatures 为文本列追加字符长度、词数和空串标记特征
func addTextFeatures(ds *models.Dataset, col *models.Column) []string {
	lengths := make([]interface{}, len(col.Values))
	wordCounts := make([]interface{}, len(col.Values))
	isEmpty := make([]interface{}, len(col.Values))
	for i, v := range col.Values {
		if v == nil {
			continue
		}
		s := models.ValueToString(v)
		lengths[i] = float64(len([]rune(s)))
		wordCounts[i] = float64(len(strings.Fields(s)))
		if strings.TrimSpace(s) == "" {
			isEmpty[i] = 1.0
		} else {
			isEmpty[i] = 0.0
		}
	}

	names := []string{col.Name + "_length", col.Name + "_word_count", col.Name + "_is_empty"}
	ds.AddColumn(models.Column{Name: names[0], Type: models.TypeNumeric, Values: lengths})
	ds.AddColumn(models.Column{Name: names[1], Type: models.TypeNumeric, Values: wordCounts})
	ds.AddColumn(models.Column{Name: names[2], Type: models.TypeNumeric, Values: isEmpty})
	return names
}

// addDatetimeFeatures 为时间列追加年、月、星期几成分特征
func addDatetimeFeatures(ds *models.Dataset, col *models.Column) []string {
	years := make([]interface{}, len(col.Values))
	months := make([]interface{}, len(col.Values))
	weekdays := make([]interface{}, len(col.Values))
	for i, v := range col.Values {
		if v == nil {
			continue
		}
		t, ok := v.(time.Time)
		if !ok {
			parsed, err := utils.ParseTime(v)
			if err != nil {
				continue
			}
			t = parsed
		}
		years[i] = float64(t.Year())
		months[i] = float64(int(t.Month()))
		weekdays[i] = float64(int(t.Weekday()))
	}

	names := []string{col.Name + "_year", col.Name + "_month", col.Name + "_weekday"}
	ds.AddColumn(models.Column{Name: names[0], Type: models.TypeNumeric, Values: years})
	ds.AddColumn(models.Column{Name: names[1], Type: models.TypeNumeric, Values: months})
	ds.AddColumn(models.Column{Name: names[2], Type: models.TypeNumeric, Values: weekdays})
	return names
}

// addCustomFeature 按表达式逐行计算自定义特征
func (s *FeatureExtractionStage) addCustomFeature(ds *models.Dataset,
	sourceColumns []models.Column, spec string) (string, error) {

	evaluator, err := NewFeatureEvaluator(spec)
	if err != nil {
		return "", err
	}

	rowCount := ds.RowCount()
	values := make([]interface{}, rowCount)
	for rowIdx := 0; rowIdx < rowCount; rowIdx++ {
		row := make(map[string]float64)
		complete := true
		for _, col := range sourceColumns {
			if col.Type != models.TypeNumeric {
				continue
			}
			if rowIdx >= len(col.Values) || col.Values[rowIdx] == nil {
				continue
			}
			f, err := utils.ParseFloat(col.Values[rowIdx])
			if err != nil {
				complete = false
				continue
			}
			row[col.Name] = f
		}
		if !complete {
			continue
		}
		if v := evaluator.Evaluate(row); v != nil {
			values[rowIdx] = v
		}
	}

	ds.AddColumn(models.Column{Name: evaluator.Name(), Type: models.TypeNumeric, Values: values})
	return evaluator.Name(), nil
}
