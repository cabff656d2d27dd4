/*
 * @module service/pipeline/flow
 * @description 流水线编排器，按固定拓扑顺序执行各阶段并汇总运行结果
 * @architecture 流水线模式 - 三种固定拓扑：完整、简化(无特征提取)、仅校验
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 配置校验 -> 上下文创建 -> 逐阶段执行(prep/exec/finalize) -> 结果汇总
 * @rules 配置无效时整体拒绝执行；校验阶段返回 invalid 时流程终止且结果为失败；
 *        任一阶段执行出错时终止并记录失败日志
 * @dependencies dataclean-service/service/monitoring
 * @refs service/processing_service.go
 */

package pipeline

import (
	"log/slog"
	"time"

	"dataclean-service/service/models"
	"dataclean-service/service/monitoring"
)

// 流水线拓扑名称
const (
	TopologyFull           = "full"
	TopologySimple         = "simple"
	TopologyValidationOnly = "validation_only"
)

// Flow 数据处理流水线
type Flow struct {
	topology string
	stages   []Stage
}

// NewDataProcessingFlow 完整流水线：校验、标准化、缺失值、脱敏、特征提取、质量报告
func NewDataProcessingFlow(oracle Oracle) *Flow {
	return &Flow{
		topology: TopologyFull,
		stages: []Stage{
			NewValidationStage(),
			NewStandardizationStage(),
			NewMissingHandlingStage(),
			NewMaskingStage(oracle),
			NewFeatureExtractionStage(),
			NewQualityReportStage(),
		},
	}
}

// NewSimpleDataProcessingFlow 简化流水线，跳过特征提取
func NewSimpleDataProcessingFlow(oracle Oracle) *Flow {
	return &Flow{
		topology: TopologySimple,
		stages: []Stage{
			NewValidationStage(),
			NewStandardizationStage(),
			NewMissingHandlingStage(),
			NewMaskingStage(oracle),
			NewQualityReportStage(),
		},
	}
}

// NewValidationOnlyFlow 仅执行数据校验
func NewValidationOnlyFlow() *Flow {
	return &Flow{
		topology: TopologyValidationOnly,
		stages:   []Stage{NewValidationStage()},
	}
}

// SelectFlow 按配置选择流水线拓扑：启用特征提取时使用完整拓扑
func SelectFlow(config *models.ProcessingConfig, oracle Oracle) *Flow {
	if config.FeatureExtraction.EnableExtraction {
		return NewDataProcessingFlow(oracle)
	}
	return NewSimpleDataProcessingFlow(oracle)
}

// Topology 返回流水线拓扑名称
func (f *Flow) Topology() string {
	return f.topology
}

// Run 执行流水线，配置无效时不创建运行直接返回失败结果
func (f *Flow) Run(dataset *models.Dataset, config *models.ProcessingConfig) *models.ProcessResult {
	if errs := config.Validate(); len(errs) > 0 {
		configErr := &models.ConfigError{Errors: errs}
		slog.Warn("配置校验失败，拒绝执行", "topology", f.topology, "error", configErr.Error())
		monitoring.RecordRun(f.topology, "config_rejected")
		return &models.ProcessResult{
			Success:           false,
			Error:             configErr.Error(),
			MaskedColumns:     []models.MaskedColumnRecord{},
			ExtractedFeatures: []string{},
			ProcessingLog:     []models.ProcessingLogEntry{},
		}
	}

	rc := NewRunContext(dataset, config)
	slog.Info("流水线开始执行", "run_id", rc.RunID, "topology", f.topology,
		"rows", dataset.RowCount(), "columns", dataset.ColumnCount())

	for _, stage := range f.stages {
		action, err := f.runStage(rc, stage)
		if err != nil {
			stageErr := &StageExecutionError{Stage: stage.Name(), Err: err}
			slog.Error("阶段执行失败", "run_id", rc.RunID, "stage", stage.Name(), "error", err)
			rc.AppendLog(stage.Name(), models.StepStatusFailed, stageErr.Error(), nil)
			monitoring.RecordRun(f.topology, "error")
			return f.failedResult(rc, stageErr.Error())
		}
		if action == ActionInvalid {
			failure := &ValidationFailure{Errors: rc.ValidationErrors}
			slog.Warn("数据校验未通过", "run_id", rc.RunID, "errors", rc.ValidationErrors)
			monitoring.RecordRun(f.topology, "invalid")
			return f.failedResult(rc, failure.Error())
		}
	}

	monitoring.RecordRun(f.topology, "success")
	monitoring.AddMaskedColumns(len(rc.MaskedColumns))
	slog.Info("流水线执行完成", "run_id", rc.RunID,
		"masked_columns", len(rc.MaskedColumns), "features", len(rc.ExtractedFeatures))

	return &models.ProcessResult{
		RunID:             rc.RunID,
		Success:           true,
		ProcessedDataset:  rc.CurrentDataset,
		QualityReport:     rc.QualityReport,
		TextReport:        rc.TextReport,
		MaskedColumns:     rc.MaskedColumns,
		ExtractedFeatures: rc.ExtractedFeatures,
		ProcessingLog:     rc.ProcessingLog,
		Summary:           rc.Summary(),
	}
}

func (f *Flow) runStage(rc *RunContext, stage Stage) (string, error) {
	start := time.Now()
	defer func() {
		monitoring.ObserveStageDuration(stage.Name(), time.Since(start))
	}()

	prepared, err := stage.Prepare(rc)
	if err != nil {
		return "", err
	}
	result, err := stage.Execute(prepared)
	if err != nil {
		return "", err
	}
	return stage.Finalize(rc, prepared, result)
}

func (f *Flow) failedResult(rc *RunContext, errMsg string) *models.ProcessResult {
	return &models.ProcessResult{
		RunID:             rc.RunID,
		Success:           false,
		Error:             errMsg,
		MaskedColumns:     rc.MaskedColumns,
		ExtractedFeatures: rc.ExtractedFeatures,
		ProcessingLog:     rc.ProcessingLog,
		Summary:           rc.Summary(),
	}
}
