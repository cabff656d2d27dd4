/*
 * @module service/monitoring/metrics_collector
 * @description 流水线运行指标采集器，记录运行次数和各阶段耗时供 Prometheus 抓取
 * @architecture 监控层 - promauto 自动注册，进程级单例指标
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 流水线执行 -> 指标记录 -> /metrics 端点暴露
 * @rules 指标记录失败不影响业务流程；标签基数受控于拓扑和阶段名枚举
 * @dependencies github.com/prometheus/client_golang
 * @refs service/pipeline/flow.go, main.go
 */

package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "数据处理流水线运行总次数，按拓扑和结果状态分类",
		},
		[]string{"topology", "status"},
	)

	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "各处理阶段的执行耗时分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	maskedColumns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_masked_columns_total",
			Help: "累计脱敏的列数",
		},
	)
)

// RecordRun 记录一次流水线运行结果
func RecordRun(topology, status string) {
	pipelineRuns.WithLabelValues(topology, status).Inc()
}

// ObserveStageDuration 记录单个阶段的执行耗时
func ObserveStageDuration(stage string, d time.Duration) {
	stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// AddMaskedColumns 累计脱敏列数
func AddMaskedColumns(n int) {
	if n > 0 {
		maskedColumns.Add(float64(n))
	}
}
