package handler

import (
	"errors"
	"net/http"

	"wanderlog/pkg/constants"
	"wanderlog/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// HandleSuccess 返回成功响应 {success:true, code:1000, ...fields}
func HandleSuccess(c *gin.Context, fields gin.H) {
	writeSuccess(c, http.StatusOK, fields)
}

// HandleCreated 同 HandleSuccess，状态码 201
func HandleCreated(c *gin.Context, fields gin.H) {
	writeSuccess(c, http.StatusCreated, fields)
}

func writeSuccess(c *gin.Context, status int, fields gin.H) {
	body := gin.H{
		"success": true,
		"code":    errorx.CodeSuccess,
	}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// statusOf 业务错误码对应的 HTTP 状态码
func statusOf(code int) int {
	switch code {
	case errorx.CodeInvalidParam:
		return http.StatusBadRequest
	case errorx.CodeUnauthorized, errorx.CodeInvalidPassword:
		return http.StatusUnauthorized
	case errorx.CodeForbidden:
		return http.StatusForbidden
	case errorx.CodeNotFound, errorx.CodeUserNotExist:
		return http.StatusNotFound
	case errorx.CodeConflict, errorx.CodeUserExist:
		return http.StatusConflict
	case errorx.CodeTooManyRequests:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// HandleError 通用错误处理方法
// errorx.CodeError 按错误码映射 HTTP 状态；5xx 与未知错误只返回“服务繁忙”，原因写日志
//
//	if err := svc.DoSomething(); err != nil {
//	    HandleError(c, err)
//	    return
//	}
func HandleError(c *gin.Context, err error) {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		status := statusOf(codeErr.Code)
		if status < http.StatusInternalServerError {
			c.JSON(status, gin.H{
				"success": false,
				"code":    codeErr.Code,
				"message": codeErr.Msg,
			})
			return
		}
	}

	zap.L().Error("system error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"code":    errorx.ErrServerBusy.Code,
		"message": errorx.ErrServerBusy.Msg,
	})
}

// HandleParamError 处理参数绑定错误（带 validator 翻译支持）
func HandleParamError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"code":    errorx.ErrInvalidParam.Code,
			"message": errorx.ErrInvalidParam.Msg,
			"errors":  RemoveTopStruct(validationErrs.Translate(Trans)),
		})
		return
	}

	// 非 validator 错误（如 JSON 格式错误）
	zap.L().Debug("param bind error", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"code":    errorx.ErrInvalidParam.Code,
		"message": "malformed request body",
	})
}

// currentUser JWTAuth 写入的用户 ID
func currentUser(c *gin.Context) string {
	return c.GetString(constants.CTX_USER_ID)
}
