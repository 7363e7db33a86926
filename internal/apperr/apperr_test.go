package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"liftsocial/internal/apperr"
)

func TestErrorClassification(t *testing.T) {
	err := apperr.New(apperr.ErrForbidden, "權限不足")

	assert.True(t, errors.Is(err, apperr.ErrForbidden))
	assert.False(t, errors.Is(err, apperr.ErrAuth))
	assert.Equal(t, "權限不足", err.Error())
}

func TestNotFoundIsAlsoQueryError(t *testing.T) {
	err := apperr.New(apperr.ErrNotFound, "查無資料")

	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.True(t, errors.Is(err, apperr.ErrQuery))
}

func TestWrapKeepsUnderlyingError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := apperr.Wrap(apperr.ErrQuery, "查詢失敗", cause)

	assert.True(t, errors.Is(err, apperr.ErrQuery))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrapSurvivesFurtherWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", apperr.New(apperr.ErrValidation, "輸入不合法"))
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
