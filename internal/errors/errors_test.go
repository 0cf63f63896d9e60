package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"paxboard/domain/core"
)

func TestWrapKeepsCode(t *testing.T) {
	err := Wrap(ConfigInvalid("PORT is not a number"), "failed to load config")
	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.Equal(t, "failed to load config: PORT is not a number", err.Error())

	assert.Nil(t, Wrap(nil, "x"))
	assert.Equal(t, CodeInternalError, GetCode(Wrap(stderrors.New("boom"), "x")))
}

func TestGetCodeMapsDomainErrors(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{core.NewSourceError("titanic.csv", stderrors.New("no such file")), CodeSourceUnavailable, http.StatusServiceUnavailable},
		{core.NewMissingColumnsError([]string{"Age"}), CodeSchemaMismatch, http.StatusUnprocessableEntity},
		{core.NewUnknownColumnError("Cabin"), CodeUnknownColumn, http.StatusBadRequest},
		{fmt.Errorf("lookup: %w", core.ErrSnapshotNotFound), CodeNotFound, http.StatusNotFound},
		{core.ErrArchiveDisabled, CodeArchiveDisabled, http.StatusServiceUnavailable},
		{core.NewSourceError("http://example.com/titanic.csv", ExternalServiceError("example.com", stderrors.New("status 502"))), CodeExternalService, http.StatusServiceUnavailable},
		{InvalidInput("age_min is not a number"), CodeInvalidInput, http.StatusBadRequest},
		{Wrap(core.NewSchemaError("bad"), "load failed"), CodeSchemaMismatch, http.StatusUnprocessableEntity},
		{stderrors.New("boom"), CodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, GetCode(tt.err))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, stderrors.New("rows must be positive"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.Nil(t, WithCode(CodeInvalidInput, nil))
}
