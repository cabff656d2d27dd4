/*
 * @module service/pipeline/stage
 * @description 处理阶段接口定义，三段式生命周期：准备、执行、收尾
 * @architecture 流水线模式 - 阶段通过收尾返回的转移标签驱动流程走向
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow Prepare(从上下文取数) -> Execute(纯计算) -> Finalize(写回上下文并返回转移标签)
 * @rules Execute 不接触上下文；除校验阶段可返回 valid/invalid 外，一律返回 default
 * @dependencies 无
 * @refs service/pipeline/flow.go
 */

package pipeline

// 阶段转移标签
const (
	ActionDefault = "default"
	ActionValid   = "valid"
	ActionInvalid = "invalid"
)

// Stage 流水线处理阶段
type Stage interface {
	// Name 阶段名称，用于日志和指标
	Name() string
	// Prepare 从运行上下文读取本阶段需要的输入
	Prepare(rc *RunContext) (interface{}, error)
	// Execute 执行计算，不直接读写上下文
	Execute(prepared interface{}) (interface{}, error)
	// Finalize 将结果写回上下文并返回转移标签
	Finalize(rc *RunContext, prepared, result interface{}) (string, error)
}
