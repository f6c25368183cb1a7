package api

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误信息中使用 JSON 字段名。
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// missingFieldsMessage 将校验错误格式化为列出字段名的提示。
func missingFieldsMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return "Missing required fields: " + strings.Join(fields, ", ")
}

// bindJSON 解析请求体并做必填校验，失败时已写入 400 响应。
func bindJSON(c *gin.Context, req any) bool {
	return bindJSONWithMessage(c, req, "")
}

// bindJSONWithMessage 与 bindJSON 相同；msg 非空时解析与校验失败都返回这一固定提示。
func bindJSONWithMessage(c *gin.Context, req any, msg string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		BadRequest(c, orDefault(msg, "Invalid request body"))
		return false
	}
	if err := validate.Struct(req); err != nil {
		BadRequest(c, orDefault(msg, missingFieldsMessage(err)))
		return false
	}
	return true
}

func orDefault(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
