/*
 * @module service/processing_service
 * @description 数据处理服务，封装流水线的选择与执行，对外提供处理、校验和默认配置能力
 * @architecture 服务层 - 无状态服务，每次请求独立运行流水线
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 配置加载合并 -> 拓扑选择 -> 流水线执行 -> 结果返回
 * @rules 配置解析或校验失败时拒绝执行并返回配置错误；服务不持有任何运行状态
 * @dependencies dataclean-service/service/pipeline, dataclean-service/service/models
 * @refs api/controllers/processing_controller.go
 */

package service

import (
	"fmt"

	"dataclean-service/service/models"
	"dataclean-service/service/pipeline"
)

// ProcessingService 数据处理服务
type ProcessingService struct {
	oracle pipeline.Oracle
}

// NewProcessingService 创建数据处理服务，oracle 可为 nil
func NewProcessingService(oracle pipeline.Oracle) *ProcessingService {
	return &ProcessingService{oracle: oracle}
}

// Process 按原始 JSON 配置执行一次完整的数据处理
// 配置为空时使用默认配置；配置覆盖默认值后整体校验
func (s *ProcessingService) Process(dataset *models.Dataset, rawConfig []byte) (*models.ProcessResult, error) {
	config, err := models.LoadProcessingConfig(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("加载处理配置失败: %w", err)
	}
	return s.ProcessWithConfig(dataset, config), nil
}

// ProcessWithConfig 用已加载的配置执行数据处理
func (s *ProcessingService) ProcessWithConfig(dataset *models.Dataset, config *models.ProcessingConfig) *models.ProcessResult {
	flow := pipeline.SelectFlow(config, s.oracle)
	return flow.Run(dataset, config)
}

// Validate 仅执行数据校验，不做任何变换
func (s *ProcessingService) Validate(dataset *models.Dataset) *models.ProcessResult {
	flow := pipeline.NewValidationOnlyFlow()
	return flow.Run(dataset, models.DefaultProcessingConfig())
}

// DefaultConfig 返回默认处理配置，可作为调用方的配置模板
func (s *ProcessingService) DefaultConfig() *models.ProcessingConfig {
	return models.DefaultProcessingConfig()
}
