/*
 * @module service/quality/metrics
 * @description 数据质量评估引擎，对比处理前后数据集的完整性、一致性并生成综合评分报告
 * @architecture 引擎模式 - 无副作用的纯计算，权重可配置
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 基础信息统计 -> 缺失数据对比 -> 类型分布对比 -> 数值分布对比 -> 质量评分
 * @rules 综合评分 = 0.6*完整性 + 0.4*一致性；所有评分为百分制并保留两位小数
 * @dependencies math, dataclean-service/service/utils
 * @refs service/pipeline/report_stage.go
 */

package quality

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"dataclean-service/service/models"
	"dataclean-service/service/utils"
)

// ConsistencyWeights 一致性评分的各档权重
type ConsistencyWeights struct {
	Typed       float64 // 已类型化的列
	Convertible float64 // 文本形式但可转换为数值或时间的列
	Text        float64 // 真正的文本列
	Empty       float64 // 全空列
}

// DefaultConsistencyWeights 默认一致性权重
func DefaultConsistencyWeights() ConsistencyWeights {
	return ConsistencyWeights{Typed: 1.0, Convertible: 0.3, Text: 0.8, Empty: 0.5}
}

// 综合评分中完整性与一致性的权重
const (
	completenessWeight = 0.6
	consistencyWeight  = 0.4
)

// Engine 质量评估引擎
type Engine struct {
	weights ConsistencyWeights
}

// NewEngine 创建使用默认权重的质量评估引擎
func NewEngine() *Engine {
	return &Engine{weights: DefaultConsistencyWeights()}
}

// NewEngineWithWeights 创建自定义权重的质量评估引擎
func NewEngineWithWeights(weights ConsistencyWeights) *Engine {
	return &Engine{weights: weights}
}

// Calculate 对比原始数据集和处理后数据集，生成完整质量报告
func (e *Engine) Calculate(original, processed *models.Dataset) *models.QualityReport {
	report := &models.QualityReport{
		BasicInfo: models.BasicInfo{
			Original:  snapshot(original),
			Processed: snapshot(processed),
		},
		MissingData:      e.missingReport(original, processed),
		DataTypes:        e.typeReport(original, processed),
		DataDistribution: e.distributionReport(original, processed),
	}
	report.QualityScore = e.scores(original, processed)
	report.Structure = structureSummary(original, processed)
	return report
}

// CompletenessScore 完整性评分（0~1）
func (e *Engine) CompletenessScore(ds *models.Dataset) float64 {
	total := ds.TotalCells()
	if total == 0 {
		return 0
	}
	return 1 - float64(ds.MissingCells())/float64(total)
}

// ConsistencyScore 一致性评分（0~1），为各列档位权重的平均值
func (e *Engine) ConsistencyScore(ds *models.Dataset) float64 {
	if ds.ColumnCount() == 0 {
		return 0
	}
	sum := 0.0
	for i := range ds.Columns {
		sum += e.columnConsistency(&ds.Columns[i])
	}
	return sum / float64(ds.ColumnCount())
}

func (e *Engine) columnConsistency(col *models.Column) float64 {
	nonNull := col.NonNullValues()
	if len(nonNull) == 0 {
		return e.weights.Empty
	}

	switch col.Type {
	case models.TypeNumeric, models.TypeDatetime, models.TypeBoolean:
		return e.weights.Typed
	}

	// 类型标签未设置时看实际存储的值
	if allTypedValues(nonNull) {
		return e.weights.Typed
	}

	if isConvertibleText(nonNull) {
		return e.weights.Convertible
	}
	return e.weights.Text
}

func allTypedValues(values []interface{}) bool {
	for _, v := range values {
		switch v.(type) {
		case float64, float32, int, int32, int64, bool, time.Time:
		default:
			return false
		}
	}
	return true
}

// isConvertibleText 判断文本值是否全部可转换为数值或时间
// 时间检测只看前 10 个样本
func isConvertibleText(values []interface{}) bool {
	numeric := true
	for _, v := range values {
		if _, err := utils.ParseFloat(v); err != nil {
			numeric = false
			break
		}
	}
	if numeric {
		return true
	}

	sampleSize := 10
	if len(values) < sampleSize {
		sampleSize = len(values)
	}
	for _, v := range values[:sampleSize] {
		if _, err := utils.ParseTime(v); err != nil {
			return false
		}
	}
	return true
}

func (e *Engine) scores(original, processed *models.Dataset) models.QualityScores {
	origCompleteness := e.CompletenessScore(original) * 100
	procCompleteness := e.CompletenessScore(processed) * 100
	origConsistency := e.ConsistencyScore(original) * 100
	procConsistency := e.ConsistencyScore(processed) * 100

	origOverall := completenessWeight*origCompleteness + consistencyWeight*origConsistency
	procOverall := completenessWeight*procCompleteness + consistencyWeight*procConsistency

	return models.QualityScores{
		Completeness: triple(origCompleteness, procCompleteness),
		Consistency:  triple(origConsistency, procConsistency),
		Overall:      triple(origOverall, procOverall),
	}
}

func triple(original, processed float64) models.ScoreTriple {
	return models.ScoreTriple{
		Original:    utils.Round2(original),
		Processed:   utils.Round2(processed),
		Improvement: utils.Round2(processed - original),
	}
}

func snapshot(ds *models.Dataset) models.DatasetSnapshot {
	return models.DatasetSnapshot{
		Rows:        ds.RowCount(),
		Columns:     ds.ColumnCount(),
		ColumnNames: ds.ColumnNames(),
	}
}

func (e *Engine) missingReport(original, processed *models.Dataset) models.MissingDataReport {
	origSnapshot := missingSnapshot(original)
	procSnapshot := missingSnapshot(processed)
	return models.MissingDataReport{
		Original:  origSnapshot,
		Processed: procSnapshot,
		Improvement: models.MissingImprovement{
			MissingReduction: origSnapshot.TotalMissing - procSnapshot.TotalMissing,
			RateImprovement:  utils.Round2(origSnapshot.MissingRate - procSnapshot.MissingRate),
		},
	}
}

func missingSnapshot(ds *models.Dataset) models.MissingSnapshot {
	byColumn := make(map[string]float64, ds.ColumnCount())
	for _, col := range ds.Columns {
		byColumn[col.Name] = utils.Round2(col.MissingRate() * 100)
	}
	return models.MissingSnapshot{
		TotalMissing: ds.MissingCells(),
		MissingRate:  utils.Round2(ds.MissingRate() * 100),
		ByColumn:     byColumn,
	}
}

func (e *Engine) typeReport(original, processed *models.Dataset) models.DataTypeReport {
	report := models.DataTypeReport{
		Original:  typeCounts(original),
		Processed: typeCounts(processed),
		Changes:   []models.TypeChange{},
	}
	for _, col := range processed.Columns {
		origCol, ok := original.Column(col.Name)
		if !ok {
			continue
		}
		if origCol.Type != col.Type {
			report.Changes = append(report.Changes, models.TypeChange{
				Column: col.Name,
				From:   effectiveType(origCol),
				To:     effectiveType(&col),
			})
		}
	}
	return report
}

func typeCounts(ds *models.Dataset) map[string]int {
	counts := make(map[string]int)
	for i := range ds.Columns {
		counts[effectiveType(&ds.Columns[i])]++
	}
	return counts
}

func effectiveType(col *models.Column) string {
	if col.Type != "" {
		return string(col.Type)
	}
	return string(models.TypeText)
}

// distributionReport 对处理前后语义类型都是数值的列计算分布统计
// 存成字符串形式的数字列不算数值列，不参与分布对比
func (e *Engine) distributionReport(original, processed *models.Dataset) map[string]models.DistributionComparison {
	result := make(map[string]models.DistributionComparison)
	for _, col := range processed.Columns {
		origCol, ok := original.Column(col.Name)
		if !ok {
			continue
		}
		if !isNumericColumn(origCol) || !isNumericColumn(&col) {
			continue
		}
		origStats, origOK := numericStats(origCol)
		procStats, procOK := numericStats(&col)
		if !origOK || !procOK {
			continue
		}
		result[col.Name] = models.DistributionComparison{
			Original:  origStats,
			Processed: procStats,
		}
	}
	return result
}

// isNumericColumn 按语义类型判断数值列，未标记类型时要求存储值本身是数值
func isNumericColumn(col *models.Column) bool {
	if col.Type != "" {
		return col.Type == models.TypeNumeric
	}
	nonNull := col.NonNullValues()
	if len(nonNull) == 0 {
		return false
	}
	for _, v := range nonNull {
		switch v.(type) {
		case float64, float32, int, int8, int16, int32, int64, uint, uint32, uint64:
		default:
			return false
		}
	}
	return true
}

// numericStats 计算列的数值分布统计，列中存在不可解析的非空值时返回 false
func numericStats(col *models.Column) (models.DistributionStats, bool) {
	var numbers []float64
	for _, v := range col.NonNullValues() {
		f, err := utils.ParseFloat(v)
		if err != nil {
			return models.DistributionStats{}, false
		}
		numbers = append(numbers, f)
	}
	if len(numbers) == 0 {
		return models.DistributionStats{}, false
	}

	sum := 0.0
	min := numbers[0]
	max := numbers[0]
	unique := make(map[float64]bool)
	for _, n := range numbers {
		sum += n
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
		unique[n] = true
	}
	mean := sum / float64(len(numbers))

	std := 0.0
	if len(numbers) > 1 {
		variance := 0.0
		for _, n := range numbers {
			variance += (n - mean) * (n - mean)
		}
		std = math.Sqrt(variance / float64(len(numbers)-1))
	}

	return models.DistributionStats{
		Mean:        utils.Round2(mean),
		Std:         utils.Round2(std),
		Min:         min,
		Max:         max,
		UniqueCount: len(unique),
	}, true
}

func structureSummary(original, processed *models.Dataset) models.StructureSummary {
	origNames := make(map[string]bool)
	for _, name := range original.ColumnNames() {
		origNames[name] = true
	}
	procNames := make(map[string]bool)
	for _, name := range processed.ColumnNames() {
		procNames[name] = true
	}

	newColumns := []string{}
	for name := range procNames {
		if !origNames[name] {
			newColumns = append(newColumns, name)
		}
	}
	removedColumns := []string{}
	for name := range origNames {
		if !procNames[name] {
			removedColumns = append(removedColumns, name)
		}
	}
	sort.Strings(newColumns)
	sort.Strings(removedColumns)

	return models.StructureSummary{
		RowsAdded:      processed.RowCount() - original.RowCount(),
		ColumnsAdded:   processed.ColumnCount() - original.ColumnCount(),
		NewColumns:     newColumns,
		RemovedColumns: removedColumns,
	}
}

// TextReport 渲染中文文本版质量报告
func (e *Engine) TextReport(report *models.QualityReport) string {
	var b strings.Builder
	b.WriteString("=== 数据质量评估报告 ===\n\n")

	b.WriteString("【基础信息】\n")
	b.WriteString(fmt.Sprintf("原始数据: %d 行 x %d 列\n",
		report.BasicInfo.Original.Rows, report.BasicInfo.Original.Columns))
	b.WriteString(fmt.Sprintf("处理后数据: %d 行 x %d 列\n\n",
		report.BasicInfo.Processed.Rows, report.BasicInfo.Processed.Columns))

	b.WriteString("【缺失数据】\n")
	b.WriteString(fmt.Sprintf("原始缺失: %d 个 (%.2f%%)\n",
		report.MissingData.Original.TotalMissing, report.MissingData.Original.MissingRate))
	b.WriteString(fmt.Sprintf("处理后缺失: %d 个 (%.2f%%)\n",
		report.MissingData.Processed.TotalMissing, report.MissingData.Processed.MissingRate))
	b.WriteString(fmt.Sprintf("缺失值减少: %d 个\n\n",
		report.MissingData.Improvement.MissingReduction))

	b.WriteString("【质量评分】\n")
	b.WriteString(fmt.Sprintf("完整性: %.2f -> %.2f (%+.2f)\n",
		report.QualityScore.Completeness.Original,
		report.QualityScore.Completeness.Processed,
		report.QualityScore.Completeness.Improvement))
	b.WriteString(fmt.Sprintf("一致性: %.2f -> %.2f (%+.2f)\n",
		report.QualityScore.Consistency.Original,
		report.QualityScore.Consistency.Processed,
		report.QualityScore.Consistency.Improvement))
	b.WriteString(fmt.Sprintf("综合评分: %.2f -> %.2f (%+.2f)\n\n",
		report.QualityScore.Overall.Original,
		report.QualityScore.Overall.Processed,
		report.QualityScore.Overall.Improvement))

	b.WriteString("【结构变化】\n")
	b.WriteString(fmt.Sprintf("新增列: %d 个", len(report.Structure.NewColumns)))
	if len(report.Structure.NewColumns) > 0 {
		b.WriteString(" (" + strings.Join(report.Structure.NewColumns, ", ") + ")")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("移除列: %d 个", len(report.Structure.RemovedColumns)))
	if len(report.Structure.RemovedColumns) > 0 {
		b.WriteString(" (" + strings.Join(report.Structure.RemovedColumns, ", ") + ")")
	}
	b.WriteString("\n")

	return b.String()
}

// ConsistencyImprovementMessage 生成一致性变化的摘要信息
func ConsistencyImprovementMessage(before, after float64) string {
	delta := utils.Round2((after - before) * 100)
	if delta > 0 {
		return fmt.Sprintf("数据一致性提升 %.2f 分", delta)
	}
	if delta < 0 {
		return fmt.Sprintf("数据一致性下降 %.2f 分", -delta)
	}
	return "数据一致性无变化"
}
