// Package validation 提交前的字段校验
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxTextLen 正文长度上限（不含）
	MaxTextLen = 2000
	// MaxWordLen 单词长度上限（不含）
	MaxWordLen = 60
)

// ValidationError 字段校验失败
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

var validate = validator.New()

// PostText 去掉首尾空白后校验帖子正文，返回去空白后的文本
func PostText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ValidationError{Field: "text", Message: "text is required"}
	}
	if err := validate.Var(text, fmt.Sprintf("lt=%d", MaxTextLen)); err != nil {
		return "", &ValidationError{Field: "text", Message: "text is too long"}
	}
	for _, word := range strings.Fields(text) {
		if utf8.RuneCountInString(word) >= MaxWordLen {
			return "", &ValidationError{Field: "text", Message: fmt.Sprintf("word %q is too long", word)}
		}
	}
	return text, nil
}

// CommentText 评论只要求非空，同样去掉首尾空白
func CommentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if err := validate.Var(text, "required"); err != nil {
		return "", &ValidationError{Field: "text", Message: "text is required"}
	}
	return text, nil
}
