package export

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
)

// ErrNothingToExport 没有可导出的行
var ErrNothingToExport = errors.New("nothing to export")

// Cell 单元格，数值与文本分开保存，由各写出器决定格式
type Cell struct {
	number  decimal.Decimal
	text    string
	numeric bool
}

// Text 文本单元格
func Text(value string) Cell {
	return Cell{text: value}
}

// Int 整数单元格
func Int(value int) Cell {
	return Cell{number: decimal.NewFromInt(int64(value)), numeric: true}
}

// Decimal 数值单元格
func Decimal(value decimal.Decimal) Cell {
	return Cell{number: value, numeric: true}
}

// IsNumeric 是否数值单元格
func (c Cell) IsNumeric() bool {
	return c.numeric
}

// Raw 返回未做本地化的文本表示
func (c Cell) Raw() string {
	if c.numeric {
		return c.number.String()
	}
	return c.text
}

// Table 导出表格，Headers 同时作为列键参与格式判断
type Table struct {
	Headers []string
	Rows    [][]Cell
}

// Empty 没有数据行
func (t Table) Empty() bool {
	return len(t.Headers) == 0 || len(t.Rows) == 0
}

// Value 获取指定行列，越界时返回空文本
func (t Table) Value(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return Text("")
	}
	return t.Rows[row][col]
}

// Fixed2 保留两位小数的文本，等价于 toFixed(2)
func Fixed2(value decimal.Decimal) string {
	return value.StringFixed(2)
}

// Itoa 整数转文本
func Itoa(value int) string {
	return strconv.Itoa(value)
}
