package usecase

import (
	"errors"
	"fmt"
)

// usecaseが返すエラーの種類。handlerはerrors.Asで判別してHTTPに変換する。
// どの失敗も必ずいずれかの型で返す（握りつぶし禁止）。

// 入力不正。ストアに触る前に返す。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// 対象が存在しない。トランザクション中ならrollbackされる。
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func NewNotFoundError(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// 在庫不足。どの商品が・いくつ要求され・いくつ残っているかを持つ。
type OutOfStockError struct {
	ProductID int64
	Requested int64
	Available int64
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %d out of stock: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// 権限不足。
type PermissionError struct {
	Required string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("missing permission %s", e.Required)
}

// ストア側の障害。呼び出し側はリトライしてよい。
// 部分適用は残らない（トランザクションごとrollbackされた後に返る）。
type StoreUnavailableError struct {
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable: %v", e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// ドメインの失敗でないrepoエラーをStoreUnavailableに包む。
func wrapStoreErr(err error) error {
	var ve *ValidationError
	var nf *NotFoundError
	var oos *OutOfStockError
	var pe *PermissionError
	var su *StoreUnavailableError
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &oos) ||
		errors.As(err, &pe) || errors.As(err, &su) {
		return err
	}
	return &StoreUnavailableError{Err: err}
}
