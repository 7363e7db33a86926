// Package apperr 定義整個系統共用的錯誤分類。
//
// 所有對外的操作失敗時都會帶上其中一種分類，
// handler 依分類決定 HTTP 狀態碼，前端依分類決定提示方式。
package apperr

import (
	"errors"
	"fmt"
)

// 錯誤分類的哨兵值，搭配 errors.Is 使用
var (
	ErrAuth       = errors.New("auth error")       // 認證失敗（帳號重複、密碼錯誤、token 無效）
	ErrQuery      = errors.New("query error")      // 資料查詢或寫入失敗
	ErrNotFound   = errors.New("not found")        // 查無資料，屬於 ErrQuery 的特化
	ErrStorage    = errors.New("storage error")    // 媒體檔案儲存失敗
	ErrValidation = errors.New("validation error") // 本地驗證失敗，不會發出任何遠端呼叫
	ErrForbidden  = errors.New("forbidden")        // 權限不足（非作者刪文、非參與者讀私訊）
)

// Error 將一個分類與人類可讀的訊息綁在一起
type Error struct {
	Kind    error  // 上面的哨兵值之一
	Message string // 顯示給用戶的訊息
	Err     error  // 底層錯誤，可能為 nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Is 讓 errors.Is(err, apperr.ErrXXX) 能對應到分類
func (e *Error) Is(target error) bool {
	if target == ErrQuery && e.Kind == ErrNotFound {
		return true // 查無資料也算查詢錯誤
	}
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New 建立一個帶分類的錯誤
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap 建立一個帶分類並包住底層錯誤的錯誤
func Wrap(kind error, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}
