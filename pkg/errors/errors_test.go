package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	e := New(CodeAlreadyExists, "project with name 'x' already exists")
	assert.Equal(t, "already_exists: project with name 'x' already exists", e.Error())

	wrapped := Wrap(errors.New("boom"), CodeInternal, "seed failed")
	assert.Equal(t, "internal: seed failed: boom", wrapped.Error())

	var nilErr *AppError
	assert.Equal(t, "<nil>", nilErr.Error())
}

func TestCodeThroughWrapping(t *testing.T) {
	base := Newf(CodeAlreadyExists, "name %q taken", "Alpha").WithMeta("name", "Alpha")
	err := fmt.Errorf("creating: %w", base)

	require.True(t, IsCode(err, CodeAlreadyExists))
	require.False(t, IsCode(err, CodeNotFound))
	require.Equal(t, CodeAlreadyExists, CodeOf(err))
	require.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))

	var ae *AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Alpha", ae.Meta["name"])
}

func TestWrapNil(t *testing.T) {
	e := Wrap(nil, CodeInvalid, "bad input")
	assert.Nil(t, e.Unwrap())
	assert.Equal(t, CodeInvalid, e.Code)
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{New(CodeInvalid, "x"), http.StatusBadRequest},
		{New(CodeNotFound, "x"), http.StatusNotFound},
		{fmt.Errorf("w: %w", New(CodeAlreadyExists, "x")), http.StatusConflict},
		{New(CodeRateLimited, "x"), http.StatusTooManyRequests},
		{Wrap(errors.New("db"), CodeInternal, "x"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}
