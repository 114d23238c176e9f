// Package pagination 固定页长的分页计算
package pagination

import "strconv"

// DefaultPageSize 列表每页条数
const DefaultPageSize = 10

// Page 分页元信息
type Page struct {
	Number   int   `json:"number"`
	Size     int   `json:"size"`
	Total    int64 `json:"total"`
	NumPages int   `json:"num_pages"`
	HasPrev  bool  `json:"has_prev"`
	HasNext  bool  `json:"has_next"`
}

// Offset 当前页的起始偏移
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// New 计算页信息；页码越界时夹到 [1, NumPages]
func New(number int, size int, total int64) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	numPages := int((total + int64(size) - 1) / int64(size))
	if numPages < 1 {
		numPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}
	return Page{
		Number:   number,
		Size:     size,
		Total:    total,
		NumPages: numPages,
		HasPrev:  number > 1,
		HasNext:  number < numPages,
	}
}

// ParseNumber 解析 ?page= 参数，非法值视为第 1 页
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
