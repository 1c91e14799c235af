package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCaptchaRequired    = errors.New("captcha required")
	ErrCaptchaInvalid     = errors.New("captcha invalid")

	ErrFetchFailed = errors.New("fetch failed")
	ErrWriteFailed = errors.New("write failed")

	ErrOrderNotFound = errors.New("order not found")

	ErrRetrievalInvalid      = errors.New("retrieval invalid")
	ErrRetrieverNameRequired = errors.New("retriever name required")
	ErrRetrievalEmpty        = errors.New("retrieval has no quantity")
	ErrRetrievalOverPending  = errors.New("retrieval exceeds pending quantity")
	ErrRetrievalBusy         = errors.New("retrieval already in progress for order")

	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrNoActiveCampaign     = errors.New("no active campaign")
	ErrItemNotFound         = errors.New("item not found")
	ErrItemNameRequired     = errors.New("item name required")
	ErrItemInUse            = errors.New("item in use")
	ErrCampaignItemNotFound = errors.New("campaign item not found")
	ErrCampaignItemExists   = errors.New("campaign item already exists")
	ErrCampaignItemInvalid  = errors.New("campaign item invalid")

	ErrClubInvalid = errors.New("club invalid")

	ErrPublicOrderInvalid = errors.New("public order invalid")
	ErrFlavorSumMismatch  = errors.New("flavor quantities do not match order quantity")
	ErrPhoneInvalid       = errors.New("phone invalid")
	ErrItemUnavailable    = errors.New("item unavailable in campaign")
)

// FetchError 读取失败，Op 标识失败的子查询（orders、retrievals、retrieval_items 等）
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is 让 errors.Is(err, ErrFetchFailed) 成立
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

func newFetchError(op string, err error) error {
	return &FetchError{Op: op, Err: err}
}

// WriteError 写入失败，Op 标识失败的写操作
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s failed: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Is 让 errors.Is(err, ErrWriteFailed) 成立
func (e *WriteError) Is(target error) bool {
	return target == ErrWriteFailed
}

func newWriteError(op string, err error) error {
	return &WriteError{Op: op, Err: err}
}

// RetrievalValidationError 提货登记的校验失败，写入前返回
type RetrievalValidationError struct {
	Reason   error
	ItemName string
	Pending  int
}

func (e *RetrievalValidationError) Error() string {
	if errors.Is(e.Reason, ErrRetrievalOverPending) {
		name := strings.TrimSpace(e.ItemName)
		if name == "" {
			name = "item"
		}
		return fmt.Sprintf("quantidade inválida para %q. pendente: %d", name, e.Pending)
	}
	return e.Reason.Error()
}

func (e *RetrievalValidationError) Unwrap() error {
	return e.Reason
}

// Is 让 errors.Is(err, ErrRetrievalInvalid) 成立
func (e *RetrievalValidationError) Is(target error) bool {
	return target == ErrRetrievalInvalid
}
