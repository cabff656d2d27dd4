/*
 * @module service/pipeline/report_stage
 * @description 质量报告阶段，对比原始与处理后数据集生成结构化报告和中文文本报告
 * @architecture 流水线阶段 - 只读计算，流水线的终结阶段
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 质量指标计算 -> 结构化报告 -> 文本渲染 -> 写回上下文
 * @rules 报告基于上下文中的只读原始数据集，不受中间阶段影响
 * @dependencies dataclean-service/service/quality
 * @refs service/pipeline/flow.go
 */

package pipeline

import (
	"fmt"

	"dataclean-service/service/models"
	"dataclean-service/service/quality"
)

// QualityReportStage 质量报告阶段
type QualityReportStage struct {
	engine *quality.Engine
}

// NewQualityReportStage 创建质量报告阶段
func NewQualityReportStage() *QualityReportStage {
	return &QualityReportStage{engine: quality.NewEngine()}
}

func (s *QualityReportStage) Name() string { return "quality_report" }

type reportInput struct {
	original  *models.Dataset
	processed *models.Dataset
}

type reportResult struct {
	report *models.QualityReport
	text   string
}

func (s *QualityReportStage) Prepare(rc *RunContext) (interface{}, error) {
	return &reportInput{
		original:  rc.OriginalDataset,
		processed: rc.CurrentDataset,
	}, nil
}

func (s *QualityReportStage) Execute(prepared interface{}) (interface{}, error) {
	input := prepared.(*reportInput)
	report := s.engine.Calculate(input.original, input.processed)
	return &reportResult{
		report: report,
		text:   s.engine.TextReport(report),
	}, nil
}

func (s *QualityReportStage) Finalize(rc *RunContext, prepared, result interface{}) (string, error) {
	r := result.(*reportResult)
	rc.QualityReport = r.report
	rc.TextReport = r.text

	rc.AppendLog(s.Name(), models.StepStatusSuccess,
		fmt.Sprintf("质量报告生成完成，综合评分 %.2f -> %.2f",
			r.report.QualityScore.Overall.Original,
			r.report.QualityScore.Overall.Processed),
		map[string]interface{}{
			"overall_improvement": r.report.QualityScore.Overall.Improvement,
		})
	return ActionDefault, nil
}
