/*
 * @module service/init
 * @description 服务初始化，装配全局数据处理服务及其外部依赖
 * @architecture 服务层 - 包级全局实例，启动时装配一次
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 环境变量读取 -> 大模型客户端装配 -> 处理服务创建
 * @rules 大模型客户端未配置时服务以纯规则模式运行，不视为错误
 * @dependencies dataclean-service/client
 * @refs main.go, api/controllers/
 */

package service

import (
	"log/slog"

	"dataclean-service/client"
	"dataclean-service/service/pipeline"
)

// GlobalProcessingService 全局数据处理服务实例
var GlobalProcessingService *ProcessingService

func init() {
	var oracle pipeline.Oracle
	if llm := client.NewLLMClientFromEnv(); llm != nil {
		oracle = llm
		slog.Info("大模型研判客户端已启用")
	} else {
		slog.Info("未配置大模型接口，敏感检测以纯规则模式运行")
	}
	GlobalProcessingService = NewProcessingService(oracle)
}
