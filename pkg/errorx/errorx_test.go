package errorx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrapf(cause, CodeDBError, "query user %s", "U1")

	assert.Equal(t, "query user U1: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeDBError, GetCode(err))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("send: %w", New(CodeForbidden, "request declined"))
	assert.Equal(t, CodeForbidden, GetCode(err))
	assert.Equal(t, CodeServerBusy, GetCode(errors.New("plain")))
}

func TestIsComparesCodeAndMessage(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeServerBusy, ErrServerBusy.Msg))
	assert.ErrorIs(t, err, ErrServerBusy)
	assert.NotErrorIs(t, New(CodeServerBusy, "other"), ErrServerBusy)
}

func TestNotFoundAndConflict(t *testing.T) {
	assert.True(t, IsNotFound(Wrap(errors.New("record not found"), CodeNotFound, "user")))
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(New(CodeDBError, "db")))
	assert.True(t, IsConflict(New(CodeConflict, "dup")))
}
