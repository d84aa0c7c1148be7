package model_test

import (
	"errors"
	"testing"

	"social-flood/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestPlatformError_Error(t *testing.T) {
	err := model.NewPlatformError(model.PlatformTwitter, model.ErrRemoteError, "rate limited")
	assert.Equal(t, "remote_error: rate limited", err.Error())

	bare := model.NewPlatformError("", model.ErrUnauthenticated, "")
	assert.Equal(t, "unauthenticated", bare.Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, model.ErrorKind(""), model.KindOf(nil))
	assert.Equal(t, model.ErrNotFound, model.KindOf(model.NewPlatformError("", model.ErrNotFound, "gone")))
	assert.Equal(t, model.ErrRemoteError, model.KindOf(errors.New("plain")))
}
