package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"rento/shared/constant"
	"rento/shared/failure"
	"rento/transport/http/response"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{
			name: "failure keeps its message",
			err:  failure.Forbidden("you are not a party to this booking"),
			code: http.StatusForbidden,
			body: `{"error":"you are not a party to this booking"}`,
		},
		{
			name: "wrapped failure keeps its code",
			err:  fmt.Errorf("approve: %w", failure.InvalidTransition("booking is not pending")),
			code: http.StatusConflict,
			body: `{"error":"approve: booking is not pending"}`,
		},
		{
			name: "infrastructure error is masked",
			err:  errors.New("dial tcp 10.0.0.3:5432: connection refused"),
			code: http.StatusInternalServerError,
			body: `{"error":"` + constant.ResponseErrorTryAgainLater + `"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			response.WithError(recorder, tt.err)

			assert.Equal(t, tt.code, recorder.Code)
			assert.Equal(t, constant.ContentTypeJSON, recorder.Header().Get(constant.RequestHeaderContentType))
			assert.JSONEq(t, tt.body, recorder.Body.String())
		})
	}
}

func TestWithJSON(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithJSON(recorder, http.StatusCreated, map[string]int{"unread": 3})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"unread":3}}`, recorder.Body.String())
}

func TestWithFile(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithFile(recorder, constant.ContentTypePDF, "receipt 1.pdf", []byte("%PDF"))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, constant.ContentTypePDF, recorder.Header().Get(constant.RequestHeaderContentType))
	assert.Equal(t, `attachment; filename="receipt 1.pdf"`, recorder.Header().Get(constant.RequestHeaderContentDisposition))
	assert.Equal(t, "%PDF", recorder.Body.String())
}

func TestWithRequestLimitExceeded(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithRequestLimitExceeded(recorder)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
}
