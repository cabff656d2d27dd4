/*
 * @module service/models/dataset
 * @description 数据集模型，定义内存中的列式数据集结构及其基础统计方法
 * @architecture 数据模型层
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 数据集输入 -> 流水线各阶段变换 -> 处理结果输出
 * @rules 列顺序有意义，值以 nil 表示缺失；所有变换在副本上进行，不修改调用方数据
 * @dependencies fmt, strings
 * @refs service/pipeline/, service/quality/
 */

package models

import (
	"fmt"
	"strings"
)

// DataType 列的语义数据类型
type DataType string

const (
	TypeNumeric     DataType = "numeric"
	TypeDatetime    DataType = "datetime"
	TypeBoolean     DataType = "boolean"
	TypeCategorical DataType = "categorical"
	TypeText        DataType = "text"
)

// ValidDataTypes 合法的数据类型集合
var ValidDataTypes = map[DataType]bool{
	TypeNumeric:     true,
	TypeDatetime:    true,
	TypeBoolean:     true,
	TypeCategorical: true,
	TypeText:        true,
}

// Column 数据列，带名称、语义类型标签和按行对齐的值序列
// 值为 nil 表示缺失
type Column struct {
	Name   string        `json:"name"`
	Type   DataType      `json:"type"`
	Values []interface{} `json:"values"`
}

// Dataset 列式数据集，列有序且行按位置对齐
type Dataset struct {
	Columns []Column `json:"columns"`
}

// NewDataset 创建空数据集
func NewDataset() *Dataset {
	return &Dataset{Columns: make([]Column, 0)}
}

// RowCount 行数
func (d *Dataset) RowCount() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Values)
}

// ColumnCount 列数
func (d *Dataset) ColumnCount() int {
	return len(d.Columns)
}

// ColumnNames 按顺序返回所有列名
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		names[i] = col.Name
	}
	return names
}

// Column 按名称查找列，返回列指针
func (d *Dataset) Column(name string) (*Column, bool) {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i], true
		}
	}
	return nil, false
}

// AddColumn 追加一列
func (d *Dataset) AddColumn(col Column) {
	d.Columns = append(d.Columns, col)
}

// Clone 深拷贝数据集，流水线各阶段在副本上工作
func (d *Dataset) Clone() *Dataset {
	cloned := &Dataset{Columns: make([]Column, len(d.Columns))}
	for i, col := range d.Columns {
		values := make([]interface{}, len(col.Values))
		copy(values, col.Values)
		cloned.Columns[i] = Column{Name: col.Name, Type: col.Type, Values: values}
	}
	return cloned
}

// TotalCells 单元格总数
func (d *Dataset) TotalCells() int {
	return d.RowCount() * d.ColumnCount()
}

// MissingCells 缺失单元格总数
func (d *Dataset) MissingCells() int {
	total := 0
	for _, col := range d.Columns {
		total += col.MissingCount()
	}
	return total
}

// MissingRate 整体缺失率
func (d *Dataset) MissingRate() float64 {
	total := d.TotalCells()
	if total == 0 {
		return 0
	}
	return float64(d.MissingCells()) / float64(total)
}

// DuplicateColumnNames 返回重复出现的列名
func (d *Dataset) DuplicateColumnNames() []string {
	seen := make(map[string]int)
	var duplicates []string
	for _, col := range d.Columns {
		seen[col.Name]++
		if seen[col.Name] == 2 {
			duplicates = append(duplicates, col.Name)
		}
	}
	return duplicates
}

// EmptyColumnNames 返回全空列的列名
func (d *Dataset) EmptyColumnNames() []string {
	var empty []string
	for _, col := range d.Columns {
		if col.MissingCount() == len(col.Values) && len(col.Values) > 0 {
			empty = append(empty, col.Name)
		}
	}
	return empty
}

// MissingCount 列中缺失值数量
func (c *Column) MissingCount() int {
	count := 0
	for _, v := range c.Values {
		if v == nil {
			count++
		}
	}
	return count
}

// MissingRate 列缺失率
func (c *Column) MissingRate() float64 {
	if len(c.Values) == 0 {
		return 0
	}
	return float64(c.MissingCount()) / float64(len(c.Values))
}

// NonNullValues 返回列中所有非空值
func (c *Column) NonNullValues() []interface{} {
	values := make([]interface{}, 0, len(c.Values))
	for _, v := range c.Values {
		if v != nil {
			values = append(values, v)
		}
	}
	return values
}

// SampleStrings 取前 limit 个非空值并转为字符串，用于类型检测和敏感字段识别
func (c *Column) SampleStrings(limit int) []string {
	samples := make([]string, 0, limit)
	for _, v := range c.Values {
		if v == nil {
			continue
		}
		samples = append(samples, ValueToString(v))
		if len(samples) >= limit {
			break
		}
	}
	return samples
}

// ValueToString 将单元格值安全转换为字符串
// 整数值的浮点表示转换时不丢失精度
func ValueToString(value interface{}) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	case float32:
		return ValueToString(float64(v))
	default:
		return fmt.Sprintf("%v", value)
	}
}

// IsBlank 判断值是否为空白（nil 或去除空格后为空字符串）
func IsBlank(value interface{}) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
