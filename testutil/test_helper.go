/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数，提供数据集与配置的测试数据工厂
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 测试数据创建 -> 测试执行 -> 结果断言
 * @rules 提供可重用的测试工具，确保测试数据的一致性
 * @dependencies testify, net/http/httptest
 * @refs service/models
 */

package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"dataclean-service/service/models"

	"github.com/stretchr/testify/assert"
)

// DatasetOption 数据集选项函数类型
type DatasetOption func(*models.Dataset)

// NewSampleDataset 创建带姓名、手机号和数值列的典型测试数据集
func NewSampleDataset(opts ...DatasetOption) *models.Dataset {
	ds := &models.Dataset{Columns: []models.Column{
		{Name: "姓名", Values: []interface{}{"张伟", "李娜", "王强"}},
		{Name: "phone", Values: []interface{}{"13812345678", "15987654321", "18611112222"}},
		{Name: "age", Values: []interface{}{"25", nil, "30"}},
	}}

	for _, opt := range opts {
		opt(ds)
	}
	return ds
}

// WithColumn 向数据集追加一列
func WithColumn(name string, values ...interface{}) DatasetOption {
	return func(ds *models.Dataset) {
		ds.AddColumn(models.Column{Name: name, Values: values})
	}
}

// ConfigOption 处理配置选项函数类型
type ConfigOption func(*models.ProcessingConfig)

// NewTestConfig 创建测试用处理配置
func NewTestConfig(opts ...ConfigOption) *models.ProcessingConfig {
	config := models.DefaultProcessingConfig()
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// WithFeatureExtraction 启用特征提取
func WithFeatureExtraction() ConfigOption {
	return func(c *models.ProcessingConfig) {
		c.FeatureExtraction.EnableExtraction = true
	}
}

// WithMissingStrategy 设置全局缺失值策略
func WithMissingStrategy(strategy models.MissingStrategy) ConfigOption {
	return func(c *models.ProcessingConfig) {
		c.MissingHandling.DefaultStrategy = strategy
	}
}

// WithMaskingRule 设置列级脱敏规则
func WithMaskingRule(column string, rule models.ColumnMaskingRule) ConfigOption {
	return func(c *models.ProcessingConfig) {
		c.MaskingRules.ColumnRules[column] = rule
	}
}

// HTTPTestHelper HTTP测试辅助工具
type HTTPTestHelper struct{}

// NewHTTPTestHelper 创建HTTP测试辅助工具
func NewHTTPTestHelper() *HTTPTestHelper {
	return &HTTPTestHelper{}
}

// CreateJSONRequest 创建JSON请求
func (h *HTTPTestHelper) CreateJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var reqBody io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// AssertJSONResponse 断言JSON响应
func (h *HTTPTestHelper) AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedBody interface{}) {
	assert.Equal(t, expectedStatus, w.Code)

	if expectedBody != nil {
		var actualBody interface{}
		err := json.Unmarshal(w.Body.Bytes(), &actualBody)
		assert.NoError(t, err)

		expectedJSON, _ := json.Marshal(expectedBody)
		actualJSON, _ := json.Marshal(actualBody)

		assert.JSONEq(t, string(expectedJSON), string(actualJSON))
	}
}
