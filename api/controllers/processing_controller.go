/*
 * @module api/controllers/processing_controller
 * @description 数据处理控制器，提供数据处理、数据校验和默认配置查询接口
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 请求解析 -> 服务调用 -> 统一响应
 * @rules 配置错误返回 400 并携带字段级错误信息；处理失败的业务结果仍以 200 返回
 * @dependencies dataclean-service/service, github.com/go-chi/render
 * @refs api/routes.go
 */

package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"dataclean-service/service"
	"dataclean-service/service/models"

	"github.com/go-chi/render"
)

// ProcessingController 数据处理控制器
type ProcessingController struct {
	processingService *service.ProcessingService
}

// NewProcessingController 创建数据处理控制器实例
func NewProcessingController() *ProcessingController {
	return &ProcessingController{
		processingService: service.GlobalProcessingService,
	}
}

// ProcessRequest 数据处理请求
type ProcessRequest struct {
	Data   *models.Dataset `json:"data"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Process 执行数据处理
func (c *ProcessingController) Process(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: -1, Msg: "请求体解析失败: " + err.Error()})
		return
	}
	if req.Data == nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: -1, Msg: "缺少 data 字段"})
		return
	}

	result, err := c.processingService.Process(req.Data, req.Config)
	if err != nil {
		var configErr *models.ConfigError
		if errors.As(err, &configErr) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, APIResponse{Status: -1, Msg: "配置无效", Data: configErr.Errors})
			return
		}
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: -1, Msg: err.Error()})
		return
	}

	render.JSON(w, r, APIResponse{Status: 0, Msg: "处理完成", Data: result})
}

// Validate 仅执行数据校验
func (c *ProcessingController) Validate(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: -1, Msg: "请求体解析失败: " + err.Error()})
		return
	}
	if req.Data == nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: -1, Msg: "缺少 data 字段"})
		return
	}

	result := c.processingService.Validate(req.Data)
	render.JSON(w, r, APIResponse{Status: 0, Msg: "校验完成", Data: result})
}

// DefaultConfig 返回默认处理配置模板
func (c *ProcessingController) DefaultConfig(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, APIResponse{
		Status: 0,
		Msg:    "操作成功",
		Data:   c.processingService.DefaultConfig(),
	})
}
