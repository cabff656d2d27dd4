/*
 * @module service/pipeline/context
 * @description 流水线运行上下文，承载一次运行的数据集副本、配置、阶段日志和中间产物
 * @architecture 共享存储模式 - 阶段之间通过上下文传递状态
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 上下文创建(深拷贝输入) -> 各阶段读写 -> 结果汇总
 * @rules 原始数据集创建后只读；阶段日志仅追加
 * @dependencies github.com/google/uuid
 * @refs service/pipeline/flow.go
 */

package pipeline

import (
	"github.com/google/uuid"

	"dataclean-service/service/models"
)

// RunContext 单次流水线运行的共享上下文
type RunContext struct {
	RunID string

	// OriginalDataset 输入数据集的只读副本，质量对比的基准
	OriginalDataset *models.Dataset
	// CurrentDataset 当前工作数据集，各阶段在其上变换
	CurrentDataset *models.Dataset
	Config         *models.ProcessingConfig

	ProcessingLog []models.ProcessingLogEntry

	ValidationErrors   []string
	ValidationWarnings []string
	BasicStats         map[string]interface{}

	MaskedColumns     []models.MaskedColumnRecord
	ExtractedFeatures []string

	QualityReport *models.QualityReport
	TextReport    string
}

// NewRunContext 创建运行上下文，输入数据集和配置均深拷贝
func NewRunContext(dataset *models.Dataset, config *models.ProcessingConfig) *RunContext {
	return &RunContext{
		RunID:             uuid.NewString(),
		OriginalDataset:   dataset.Clone(),
		CurrentDataset:    dataset.Clone(),
		Config:            config.Clone(),
		ProcessingLog:     []models.ProcessingLogEntry{},
		MaskedColumns:     []models.MaskedColumnRecord{},
		ExtractedFeatures: []string{},
	}
}

// AppendLog 追加一条阶段日志
func (rc *RunContext) AppendLog(step, status, message string, details map[string]interface{}) {
	rc.ProcessingLog = append(rc.ProcessingLog, models.ProcessingLogEntry{
		Step:    step,
		Status:  status,
		Message: message,
		Details: details,
	})
}

// Summary 根据阶段日志生成处理摘要
func (rc *RunContext) Summary() *models.ProcessingSummary {
	successful := 0
	failed := 0
	for _, entry := range rc.ProcessingLog {
		if entry.Status == models.StepStatusSuccess {
			successful++
		} else {
			failed++
		}
	}
	return &models.ProcessingSummary{
		TotalSteps:             len(rc.ProcessingLog),
		SuccessfulSteps:        successful,
		FailedSteps:            failed,
		MaskedColumnsCount:     len(rc.MaskedColumns),
		ExtractedFeaturesCount: len(rc.ExtractedFeatures),
		ProcessingTimeline:     rc.ProcessingLog,
	}
}
