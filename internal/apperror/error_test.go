package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFileExists(t *testing.T) {
	t.Parallel()

	assert.True(t, IsFileExists(NewFileExists("statement.xlsx")))
	assert.True(t, IsFileExists(fmt.Errorf("render: %w", NewFileExists("a.xlsx"))))
	assert.True(t, IsFileExists(errors.New("FILE_EXISTS: statement.xlsx")))
	assert.False(t, IsFileExists(errors.New("disk full")))
	assert.False(t, IsFileExists(nil))
}

func TestFileExistsErrorText(t *testing.T) {
	t.Parallel()

	err := NewFileExists("statement.xlsx")
	assert.Equal(t, "FILE_EXISTS: statement.xlsx", err.Error())
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestToAppError(t *testing.T) {
	t.Parallel()

	plain := errors.New("boom")
	appErr := ToAppError(plain)
	assert.Equal(t, CodeInternal, appErr.Code)
	assert.ErrorIs(t, appErr, plain)

	cfg := NewConfig("请先设置输出目录")
	assert.Same(t, cfg, ToAppError(cfg))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(cfg))
	assert.Nil(t, ToAppError(nil))
}
