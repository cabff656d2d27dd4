/*
 * @module service/models/pipeline
 * @description 流水线运行模型，定义阶段日志、处理摘要和运行结果结构
 * @architecture 数据模型层
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 阶段执行 -> 日志追加 -> 结果汇总
 * @rules 阶段日志仅追加，顺序即执行顺序；每个阶段恰好追加一条日志
 * @dependencies 无
 * @refs service/pipeline/
 */

package models

// 阶段执行状态
const (
	StepStatusSuccess = "success"
	StepStatusFailed  = "failed"
)

// ProcessingLogEntry 阶段处理日志条目
type ProcessingLogEntry struct {
	Step    string                 `json:"step"`
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ProcessingSummary 处理过程摘要
type ProcessingSummary struct {
	TotalSteps             int                  `json:"total_steps"`
	SuccessfulSteps        int                  `json:"successful_steps"`
	FailedSteps            int                  `json:"failed_steps"`
	MaskedColumnsCount     int                  `json:"masked_columns_count"`
	ExtractedFeaturesCount int                  `json:"extracted_features_count"`
	ProcessingTimeline     []ProcessingLogEntry `json:"processing_timeline"`
}

// ProcessResult 一次数据处理运行的完整结果
type ProcessResult struct {
	RunID             string               `json:"run_id"`
	Success           bool                 `json:"success"`
	ProcessedDataset  *Dataset             `json:"processed_dataset,omitempty"`
	QualityReport     *QualityReport       `json:"quality_report,omitempty"`
	TextReport        string               `json:"text_report,omitempty"`
	MaskedColumns     []MaskedColumnRecord `json:"masked_columns"`
	ExtractedFeatures []string             `json:"extracted_features"`
	ProcessingLog     []ProcessingLogEntry `json:"processing_log"`
	Summary           *ProcessingSummary   `json:"processing_summary,omitempty"`
	Error             string               `json:"error,omitempty"`
}
