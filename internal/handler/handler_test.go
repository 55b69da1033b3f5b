package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wanderlog/internal/dto/request"
	"wanderlog/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := InitTrans("en"); err != nil {
		panic(err)
	}
}

func serve(t *testing.T, h gin.HandlerFunc, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	r := gin.New()
	r.POST("/", h)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w, out
}

func TestHandleErrorMapsCodes(t *testing.T) {
	cases := map[int]error{
		http.StatusBadRequest:          errorx.New(errorx.CodeInvalidParam, "bad"),
		http.StatusUnauthorized:        errorx.New(errorx.CodeInvalidPassword, "nope"),
		http.StatusForbidden:           errorx.New(errorx.CodeForbidden, "message request was declined"),
		http.StatusNotFound:            errorx.New(errorx.CodeNotFound, "missing"),
		http.StatusConflict:            errorx.New(errorx.CodeUserExist, "taken"),
		http.StatusTooManyRequests:     errorx.ErrTooManyRequests,
		http.StatusInternalServerError: errorx.New(errorx.CodeDBError, "select failed"),
	}
	for status, err := range cases {
		w, out := serve(t, func(c *gin.Context) { HandleError(c, err) }, "")
		assert.Equal(t, status, w.Code, err.Error())
		assert.Equal(t, false, out["success"])
		if status == http.StatusInternalServerError {
			assert.Equal(t, errorx.ErrServerBusy.Msg, out["message"])
		}
	}

	w, out := serve(t, func(c *gin.Context) { HandleError(c, errors.New("boom")) }, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, errorx.ErrServerBusy.Msg, out["message"])
}

func TestHandleSuccessMergesFields(t *testing.T) {
	w, out := serve(t, func(c *gin.Context) { HandleSuccess(c, gin.H{"count": 3}) }, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, out["success"])
	assert.EqualValues(t, 3, out["count"])
}

func TestHandleParamErrorTranslatesFields(t *testing.T) {
	bind := func(c *gin.Context) {
		var req request.SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleParamError(c, err)
			return
		}
		HandleSuccess(c, nil)
	}

	w, out := serve(t, bind, `{"message":"hi","messageType":"video"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs, ok := out["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "receiverId")
	assert.Contains(t, errs, "messageType")

	w, out = serve(t, bind, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, out, "errors")
}
