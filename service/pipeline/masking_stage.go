/*
 * @module service/pipeline/masking_stage
 * @description 敏感数据脱敏阶段，结合规则检测与外部大模型研判，对敏感列执行脱敏
 * @architecture 流水线阶段 - 显式规则优先，自动检测兜底，大模型仅在评分低于阈值时参与
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 显式列规则 -> 规则检测评分 -> 低分列大模型研判 -> 执行脱敏 -> 记录前后对照
 * @rules 大模型不可用或返回异常时静默降级为纯规则结果；脱敏后的列类型统一标记为文本
 * @dependencies dataclean-service/service/sensitive, dataclean-service/service/masking
 * @refs service/pipeline/flow.go, client/llm_client.go
 */

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"dataclean-service/client"
	"dataclean-service/service/masking"
	"dataclean-service/service/models"
	"dataclean-service/service/sensitive"
)

// Oracle 外部敏感性研判能力，由大模型客户端实现
type Oracle interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

const (
	// 每列用于规则检测的样本数量
	detectionSampleLimit = 20
	// 大模型研判提示词中携带的样本数量
	oracleSampleLimit = 5
	// 大模型研判的单列超时
	oracleTimeout = 15 * time.Second
)

// MaskingStage 敏感数据脱敏阶段
type MaskingStage struct {
	oracle Oracle
}

// NewMaskingStage 创建脱敏阶段，oracle 可为 nil 表示仅使用规则检测
func NewMaskingStage(oracle Oracle) *MaskingStage {
	return &MaskingStage{oracle: oracle}
}

func (s *MaskingStage) Name() string { return "sensitive_data_masking" }

type maskingInput struct {
	dataset *models.Dataset
	config  models.MaskingRuleConfig
}

type maskingResult struct {
	dataset       *models.Dataset
	maskedColumns []models.MaskedColumnRecord
	oracleNotes   []string
}

// oracleAnalysis 大模型研判结果
type oracleAnalysis struct {
	IsSensitive       bool    `json:"is_sensitive"`
	SensitiveType     string  `json:"sensitive_type"`
	SuggestedStrategy string  `json:"suggested_strategy"`
	Confidence        float64 `json:"confidence"`
	Reasoning         string  `json:"reasoning"`
}

func (s *MaskingStage) Prepare(rc *RunContext) (interface{}, error) {
	return &maskingInput{
		dataset: rc.CurrentDataset.Clone(),
		config:  rc.Config.MaskingRules,
	}, nil
}

func (s *MaskingStage) Execute(prepared interface{}) (interface{}, error) {
	input := prepared.(*maskingInput)
	ds := input.dataset
	cfg := input.config
	result := &maskingResult{}

	for i := range ds.Columns {
		col := &ds.Columns[i]
		samples := col.SampleStrings(detectionSampleLimit)

		sType, strategy, shouldMask := s.decide(col.Name, samples, cfg, result)
		if !shouldMask {
			continue
		}

		preview := masking.Preview(samples, sType, strategy, 3)
		col.Values = masking.MaskColumn(col.Values, sType, strategy)
		col.Type = models.TypeText

		result.maskedColumns = append(result.maskedColumns, models.MaskedColumnRecord{
			Column:   col.Name,
			Type:     sType,
			Strategy: strategy,
			Preview:  preview,
		})
	}

	result.dataset = ds
	return result, nil
}

// decide 决定某列是否脱敏以及采用的类型和策略
func (s *MaskingStage) decide(columnName string, samples []string,
	cfg models.MaskingRuleConfig, result *maskingResult) (models.SensitiveType, models.MaskingStrategy, bool) {

	// 显式列规则优先
	if rule, ok := cfg.ColumnRules[columnName]; ok {
		sType := rule.Type
		if sType == "" {
			sType = sensitive.DetectField(columnName, samples).Type
		}
		strategy := rule.Strategy
		if strategy == "" {
			strategy = cfg.DefaultStrategy
		}
		return sType, strategy, true
	}

	if !cfg.EnableAutoDetection {
		return models.SensitiveNone, "", false
	}

	detection := sensitive.DetectField(columnName, samples)
	if detection.Score >= cfg.SensitivityThreshold {
		return detection.Type, cfg.DefaultStrategy, true
	}

	// 评分不足时请求大模型研判，失败则降级为规则结果
	if s.oracle != nil {
		if analysis, ok := s.consultOracle(columnName, samples, result); ok && analysis.IsSensitive {
			sType := models.SensitiveType(analysis.SensitiveType)
			if sType == "" || sensitive.SeverityScore(sType) == 0 {
				sType = detection.Type
			}
			strategy := models.MaskingStrategy(analysis.SuggestedStrategy)
			if !validOracleStrategy(strategy) {
				strategy = cfg.DefaultStrategy
			}
			return sType, strategy, true
		}
	}

	return models.SensitiveNone, "", false
}

func (s *MaskingStage) consultOracle(columnName string, samples []string,
	result *maskingResult) (*oracleAnalysis, bool) {

	ctx, cancel := context.WithTimeout(context.Background(), oracleTimeout)
	defer cancel()

	if len(samples) > oracleSampleLimit {
		samples = samples[:oracleSampleLimit]
	}
	prompt := buildOraclePrompt(columnName, samples)
	reply, err := s.oracle.Analyze(ctx, prompt)
	if err != nil {
		result.oracleNotes = append(result.oracleNotes,
			fmt.Sprintf("列 '%s' 大模型研判失败，使用规则结果: %v", columnName, err))
		return nil, false
	}

	raw, ok := client.ExtractJSON(reply)
	if !ok {
		result.oracleNotes = append(result.oracleNotes,
			fmt.Sprintf("列 '%s' 大模型回复无法解析，使用规则结果", columnName))
		return nil, false
	}

	var analysis oracleAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		result.oracleNotes = append(result.oracleNotes,
			fmt.Sprintf("列 '%s' 大模型回复格式异常，使用规则结果", columnName))
		return nil, false
	}
	return &analysis, true
}

func buildOraclePrompt(columnName string, samples []string) string {
	return fmt.Sprintf(`请判断以下数据列是否包含敏感个人信息。

列名: %s
样本值: %s

请严格以 JSON 格式回复:
{"is_sensitive": true或false, "sensitive_type": "phone|id_card|email|name|address|none", "suggested_strategy": "partial|hash|random|remove", "confidence": 0到1之间的小数, "reasoning": "简要理由"}`,
		columnName, strings.Join(samples, ", "))
}

func validOracleStrategy(strategy models.MaskingStrategy) bool {
	switch strategy {
	case models.MaskPartial, models.MaskHash, models.MaskRandom, models.MaskRemove:
		return true
	}
	return false
}

func (s *MaskingStage) Finalize(rc *RunContext, prepared, result interface{}) (string, error) {
	r := result.(*maskingResult)
	rc.CurrentDataset = r.dataset
	rc.MaskedColumns = r.maskedColumns

	maskedNames := make([]string, len(r.maskedColumns))
	for i, record := range r.maskedColumns {
		maskedNames[i] = record.Column
	}

	details := map[string]interface{}{"masked_columns": maskedNames}
	if len(r.oracleNotes) > 0 {
		details["oracle_notes"] = r.oracleNotes
	}
	rc.AppendLog(s.Name(), models.StepStatusSuccess,
		fmt.Sprintf("敏感数据脱敏完成，处理 %d 列", len(r.maskedColumns)), details)
	return ActionDefault, nil
}
