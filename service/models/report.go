/*
 * @module service/models/report
 * @description 质量报告模型，包含处理前后对比的基础信息、缺失数据、类型分布、数值分布和质量评分
 * @architecture 数据模型层
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 质量指标计算 -> 报告组装 -> 文本渲染
 * @rules 所有对比指标均为 (原始, 处理后, 变化量) 三元组，变化量 = 处理后 - 原始
 * @dependencies 无
 * @refs service/quality/, service/pipeline/report_stage
 */

package models

// DatasetSnapshot 数据集快照基础信息
type DatasetSnapshot struct {
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	ColumnNames []string `json:"column_names"`
}

// BasicInfo 处理前后基础信息对比
type BasicInfo struct {
	Original  DatasetSnapshot `json:"original"`
	Processed DatasetSnapshot `json:"processed"`
}

// MissingSnapshot 单个快照的缺失数据统计
type MissingSnapshot struct {
	TotalMissing int                `json:"total_missing"`
	MissingRate  float64            `json:"missing_rate"` // 百分比
	ByColumn     map[string]float64 `json:"by_column"`    // 列名 -> 缺失率百分比
}

// MissingImprovement 缺失数据改善情况
type MissingImprovement struct {
	MissingReduction int     `json:"missing_reduction"`
	RateImprovement  float64 `json:"rate_improvement"` // 百分比
}

// MissingDataReport 缺失数据对比报告
type MissingDataReport struct {
	Original    MissingSnapshot    `json:"original"`
	Processed   MissingSnapshot    `json:"processed"`
	Improvement MissingImprovement `json:"improvement"`
}

// TypeChange 单列数据类型变化
type TypeChange struct {
	Column string `json:"column"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// DataTypeReport 数据类型分布对比
type DataTypeReport struct {
	Original  map[string]int `json:"original"`  // 类型 -> 列数
	Processed map[string]int `json:"processed"` // 类型 -> 列数
	Changes   []TypeChange   `json:"changes"`
}

// DistributionStats 数值列分布统计
type DistributionStats struct {
	Mean        float64 `json:"mean"`
	Std         float64 `json:"std"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	UniqueCount int     `json:"unique_count"`
}

// DistributionComparison 单列处理前后分布对比
type DistributionComparison struct {
	Original  DistributionStats `json:"original"`
	Processed DistributionStats `json:"processed"`
}

// ScoreTriple 质量评分三元组，百分制
type ScoreTriple struct {
	Original    float64 `json:"original"`
	Processed   float64 `json:"processed"`
	Improvement float64 `json:"improvement"`
}

// QualityScores 综合质量评分
type QualityScores struct {
	Completeness ScoreTriple `json:"completeness"`
	Consistency  ScoreTriple `json:"consistency"`
	Overall      ScoreTriple `json:"overall"`
}

// StructureSummary 结构变化总结
type StructureSummary struct {
	RowsAdded      int      `json:"rows_added"`
	ColumnsAdded   int      `json:"columns_added"`
	NewColumns     []string `json:"new_columns"`
	RemovedColumns []string `json:"removed_columns"`
}

// QualityReport 完整的数据质量报告
type QualityReport struct {
	BasicInfo        BasicInfo                         `json:"basic_info"`
	MissingData      MissingDataReport                 `json:"missing_data"`
	DataTypes        DataTypeReport                    `json:"data_types"`
	DataDistribution map[string]DistributionComparison `json:"data_distribution"`
	QualityScore     QualityScores                     `json:"data_quality_score"`
	Structure        StructureSummary                  `json:"processing_summary"`
}

// MaskingPreview 脱敏前后样本预览
type MaskingPreview struct {
	Original []string `json:"original"`
	Masked   []string `json:"masked"`
}

// MaskedColumnRecord 脱敏列记录
type MaskedColumnRecord struct {
	Column   string          `json:"column"`
	Type     SensitiveType   `json:"type"`
	Strategy MaskingStrategy `json:"strategy"`
	Preview  MaskingPreview  `json:"preview"`
}
