package test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/api/httperrors"
	"github.com/selendra/did-wallet/internal/types"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/stretchr/testify/require"
)

type GenericPayload map[string]any

// PerformRequest runs a request against the server's echo instance. A non-nil
// body is JSON encoded unless it is an io.Reader.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body any, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err, "failed to encode request body")
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)

	for k, v := range headers {
		for _, vv := range v {
			req.Header.Add(k, vv)
		}
	}

	if body != nil && req.Header.Get(echo.HeaderContentType) == "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	res := httptest.NewRecorder()
	s.Echo.ServeHTTP(res, req)

	return res
}

// PerformFileUpload posts data as multipart form file field.
func PerformFileUpload(t *testing.T, s *api.Server, path string, field string, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	headers := http.Header{}
	headers.Set(echo.HeaderContentType, w.FormDataContentType())

	return PerformRequest(t, s, http.MethodPost, path, &buf, headers)
}

// ParseResponseAndValidate decodes the response body into v and validates it.
func ParseResponseAndValidate(t *testing.T, res *httptest.ResponseRecorder, v util.Validatable) {
	t.Helper()

	require.NoError(t, json.NewDecoder(res.Body).Decode(v), "failed to parse response body")
	require.NoError(t, v.Validate(strfmt.Default), "response body does not validate")
}

// RequireHTTPError checks status code and error type of an error response.
func RequireHTTPError(t *testing.T, res *httptest.ResponseRecorder, httpErr *httperrors.HTTPError) types.PublicHTTPError {
	t.Helper()

	var response types.PublicHTTPError
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response), "failed to parse error response")

	require.Equal(t, int(swag.Int64Value(httpErr.Code)), res.Result().StatusCode)
	require.Equal(t, swag.Int64Value(httpErr.Code), swag.Int64Value(response.Code))
	require.NotNil(t, response.Type)
	require.Equal(t, *httpErr.Type, *response.Type)

	return response
}
