/*
 * @module service/pipeline/errors
 * @description 流水线错误类型，区分数据校验失败和阶段执行错误
 * @architecture 错误模型层
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 阶段执行 -> 错误包装 -> 运行结果
 * @rules 校验失败是业务结果而非程序错误，携带全部校验错误信息
 * @dependencies fmt, strings
 * @refs service/pipeline/flow.go
 */

package pipeline

import (
	"fmt"
	"strings"
)

// ValidationFailure 数据校验未通过
type ValidationFailure struct {
	Errors []string
}

func (e *ValidationFailure) Error() string {
	return "数据验证失败: " + strings.Join(e.Errors, "; ")
}

// StageExecutionError 阶段执行过程中发生的错误
type StageExecutionError struct {
	Stage string
	Err   error
}

func (e *StageExecutionError) Error() string {
	return fmt.Sprintf("阶段 '%s' 执行失败: %v", e.Stage, e.Err)
}

func (e *StageExecutionError) Unwrap() error {
	return e.Err
}
