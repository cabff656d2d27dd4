/*
 * @module service/models/config
 * @description 数据处理配置模型，包含标准化、缺失值处理、脱敏规则和特征提取四组子配置
 * @architecture 数据模型层
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 配置加载 -> 配置校验 -> 流水线执行
 * @rules 配置在运行前整体校验，未通过则拒绝执行，不允许部分生效
 * @dependencies encoding/json, fmt
 * @refs service/pipeline/, utils/config_validator
 */

package models

import (
	"encoding/json"
	"fmt"
)

// NamingConvention 列名命名约定
type NamingConvention string

const (
	SnakeCase  NamingConvention = "snake_case"
	CamelCase  NamingConvention = "camelCase"
	PascalCase NamingConvention = "PascalCase"
)

// MissingStrategy 缺失值处理策略
type MissingStrategy string

const (
	StrategyMean         MissingStrategy = "mean"
	StrategyMedian       MissingStrategy = "median"
	StrategyMode         MissingStrategy = "mode"
	StrategyForwardFill  MissingStrategy = "forward_fill"
	StrategyBackwardFill MissingStrategy = "backward_fill"
	StrategyDrop         MissingStrategy = "drop"
	StrategyCustom       MissingStrategy = "custom"
)

// MaskingStrategy 脱敏策略
type MaskingStrategy string

const (
	MaskPartial MaskingStrategy = "partial"
	MaskHash    MaskingStrategy = "hash"
	MaskRandom  MaskingStrategy = "random"
	MaskRemove  MaskingStrategy = "remove"
)

// SensitiveType 敏感信息类型
type SensitiveType string

const (
	SensitivePhone   SensitiveType = "phone"
	SensitiveIDCard  SensitiveType = "id_card"
	SensitiveEmail   SensitiveType = "email"
	SensitiveName    SensitiveType = "name"
	SensitiveAddress SensitiveType = "address"
	SensitiveNone    SensitiveType = "none"
)

var validNamingConventions = map[NamingConvention]bool{
	SnakeCase: true, CamelCase: true, PascalCase: true,
}

var validMissingStrategies = map[MissingStrategy]bool{
	StrategyMean: true, StrategyMedian: true, StrategyMode: true,
	StrategyForwardFill: true, StrategyBackwardFill: true,
	StrategyDrop: true, StrategyCustom: true,
}

var validMaskingStrategies = map[MaskingStrategy]bool{
	MaskPartial: true, MaskHash: true, MaskRandom: true, MaskRemove: true,
}

var validSensitiveTypes = map[SensitiveType]bool{
	SensitivePhone: true, SensitiveIDCard: true, SensitiveEmail: true,
	SensitiveName: true, SensitiveAddress: true,
}

// StandardizationConfig 表结构标准化配置
type StandardizationConfig struct {
	EnableColumnRename     bool              `json:"enable_column_rename"`
	NamingConvention       NamingConvention  `json:"naming_convention"`
	RemoveDuplicateColumns bool              `json:"remove_duplicate_columns"`
	RemoveEmptyColumns     bool              `json:"remove_empty_columns"`
	AutoDetectTypes        bool              `json:"auto_detect_types"`
	CustomTypeMapping      map[string]string `json:"custom_type_mapping"`
}

// MissingHandlingConfig 缺失值处理配置
type MissingHandlingConfig struct {
	DefaultStrategy  MissingStrategy                `json:"default_strategy"`
	ColumnStrategies map[string]MissingStrategy     `json:"column_strategies"`
	CustomFillValues map[string]interface{}         `json:"custom_fill_values"`
	MissingThreshold float64                        `json:"missing_threshold"`
}

// ColumnMaskingRule 针对单列的脱敏规则
type ColumnMaskingRule struct {
	Type     SensitiveType   `json:"type"`
	Strategy MaskingStrategy `json:"strategy"`
}

// MaskingRuleConfig 脱敏规则配置
type MaskingRuleConfig struct {
	EnableAutoDetection  bool                         `json:"enable_auto_detection"`
	DefaultStrategy      MaskingStrategy              `json:"default_strategy"`
	ColumnRules          map[string]ColumnMaskingRule `json:"column_rules"`
	SensitivityThreshold float64                      `json:"sensitivity_threshold"`
}

// FeatureExtractionConfig 特征提取配置
type FeatureExtractionConfig struct {
	EnableExtraction        bool     `json:"enable_extraction"`
	ExtractNumericStats     bool     `json:"extract_numeric_stats"`
	ExtractTextFeatures     bool     `json:"extract_text_features"`
	ExtractDatetimeFeatures bool     `json:"extract_datetime_features"`
	CustomFeatures          []string `json:"custom_features"`
}

// ProcessingConfig 完整的数据处理配置
type ProcessingConfig struct {
	Standardization   StandardizationConfig   `json:"standardization"`
	MissingHandling   MissingHandlingConfig   `json:"missing_handling"`
	MaskingRules      MaskingRuleConfig       `json:"masking_rules"`
	FeatureExtraction FeatureExtractionConfig `json:"feature_extraction"`
}

// DefaultProcessingConfig 返回默认配置
func DefaultProcessingConfig() *ProcessingConfig {
	return &ProcessingConfig{
		Standardization: StandardizationConfig{
			EnableColumnRename:     true,
			NamingConvention:       SnakeCase,
			RemoveDuplicateColumns: true,
			RemoveEmptyColumns:     true,
			AutoDetectTypes:        true,
			CustomTypeMapping:      map[string]string{},
		},
		MissingHandling: MissingHandlingConfig{
			DefaultStrategy:  StrategyMean,
			ColumnStrategies: map[string]MissingStrategy{},
			CustomFillValues: map[string]interface{}{},
			MissingThreshold: 0.9,
		},
		MaskingRules: MaskingRuleConfig{
			EnableAutoDetection:  true,
			DefaultStrategy:      MaskPartial,
			ColumnRules:          map[string]ColumnMaskingRule{},
			SensitivityThreshold: 0.7,
		},
		FeatureExtraction: FeatureExtractionConfig{
			EnableExtraction:        false,
			ExtractNumericStats:     true,
			ExtractTextFeatures:     true,
			ExtractDatetimeFeatures: true,
			CustomFeatures:          []string{},
		},
	}
}

// LoadProcessingConfig 将 JSON 配置覆盖到默认配置之上并校验
// 未出现的字段保持默认值，校验失败时整体拒绝
func LoadProcessingConfig(raw []byte) (*ProcessingConfig, error) {
	config := DefaultProcessingConfig()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, config); err != nil {
			return nil, fmt.Errorf("解析配置失败: %w", err)
		}
	}
	if errs := config.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Errors: errs}
	}
	return config, nil
}

// ConfigFieldError 带字段定位的配置错误
type ConfigFieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ConfigFieldError) Error() string {
	return fmt.Sprintf("字段 '%s': %s", e.Field, e.Message)
}

// ConfigError 配置校验错误集合
type ConfigError struct {
	Errors []ConfigFieldError `json:"errors"`
}

func (e *ConfigError) Error() string {
	if len(e.Errors) == 0 {
		return "配置无效"
	}
	msg := "配置校验失败:"
	for _, fe := range e.Errors {
		msg += " " + fe.Error() + ";"
	}
	return msg
}

// Validate 校验配置的有效性，返回所有字段级错误
func (c *ProcessingConfig) Validate() []ConfigFieldError {
	var errs []ConfigFieldError

	if !validNamingConventions[c.Standardization.NamingConvention] {
		errs = append(errs, ConfigFieldError{
			Field:   "standardization.naming_convention",
			Message: fmt.Sprintf("不支持的命名约定 '%s'", c.Standardization.NamingConvention),
		})
	}
	for col, dtype := range c.Standardization.CustomTypeMapping {
		if !ValidDataTypes[DataType(dtype)] {
			errs = append(errs, ConfigFieldError{
				Field:   fmt.Sprintf("standardization.custom_type_mapping.%s", col),
				Message: fmt.Sprintf("无效的数据类型 '%s'", dtype),
			})
		}
	}

	if !validMissingStrategies[c.MissingHandling.DefaultStrategy] {
		errs = append(errs, ConfigFieldError{
			Field:   "missing_handling.default_strategy",
			Message: fmt.Sprintf("不支持的缺失值处理策略 '%s'", c.MissingHandling.DefaultStrategy),
		})
	}
	for col, strategy := range c.MissingHandling.ColumnStrategies {
		if !validMissingStrategies[strategy] {
			errs = append(errs, ConfigFieldError{
				Field:   fmt.Sprintf("missing_handling.column_strategies.%s", col),
				Message: fmt.Sprintf("不支持的缺失值处理策略 '%s'", strategy),
			})
		}
	}
	if c.MissingHandling.MissingThreshold < 0 || c.MissingHandling.MissingThreshold > 1 {
		errs = append(errs, ConfigFieldError{
			Field:   "missing_handling.missing_threshold",
			Message: "缺失率阈值必须在 0 和 1 之间",
		})
	}

	if !validMaskingStrategies[c.MaskingRules.DefaultStrategy] {
		errs = append(errs, ConfigFieldError{
			Field:   "masking_rules.default_strategy",
			Message: fmt.Sprintf("不支持的脱敏策略 '%s'", c.MaskingRules.DefaultStrategy),
		})
	}
	if c.MaskingRules.SensitivityThreshold < 0 || c.MaskingRules.SensitivityThreshold > 1 {
		errs = append(errs, ConfigFieldError{
			Field:   "masking_rules.sensitivity_threshold",
			Message: "敏感性阈值必须在 0 和 1 之间",
		})
	}
	for col, rule := range c.MaskingRules.ColumnRules {
		if rule.Type != "" && !validSensitiveTypes[rule.Type] {
			errs = append(errs, ConfigFieldError{
				Field:   fmt.Sprintf("masking_rules.column_rules.%s.type", col),
				Message: fmt.Sprintf("无效的敏感信息类型 '%s'", rule.Type),
			})
		}
		if rule.Strategy != "" && !validMaskingStrategies[rule.Strategy] {
			errs = append(errs, ConfigFieldError{
				Field:   fmt.Sprintf("masking_rules.column_rules.%s.strategy", col),
				Message: fmt.Sprintf("无效的脱敏策略 '%s'", rule.Strategy),
			})
		}
	}

	return errs
}

// Clone 深拷贝配置，保证并发运行之间互不共享可变配置
func (c *ProcessingConfig) Clone() *ProcessingConfig {
	cloned := *c

	cloned.Standardization.CustomTypeMapping = make(map[string]string, len(c.Standardization.CustomTypeMapping))
	for k, v := range c.Standardization.CustomTypeMapping {
		cloned.Standardization.CustomTypeMapping[k] = v
	}

	cloned.MissingHandling.ColumnStrategies = make(map[string]MissingStrategy, len(c.MissingHandling.ColumnStrategies))
	for k, v := range c.MissingHandling.ColumnStrategies {
		cloned.MissingHandling.ColumnStrategies[k] = v
	}
	cloned.MissingHandling.CustomFillValues = make(map[string]interface{}, len(c.MissingHandling.CustomFillValues))
	for k, v := range c.MissingHandling.CustomFillValues {
		cloned.MissingHandling.CustomFillValues[k] = v
	}

	cloned.MaskingRules.ColumnRules = make(map[string]ColumnMaskingRule, len(c.MaskingRules.ColumnRules))
	for k, v := range c.MaskingRules.ColumnRules {
		cloned.MaskingRules.ColumnRules[k] = v
	}

	cloned.FeatureExtraction.CustomFeatures = make([]string, len(c.FeatureExtraction.CustomFeatures))
	copy(cloned.FeatureExtraction.CustomFeatures, c.FeatureExtraction.CustomFeatures)

	return &cloned
}
