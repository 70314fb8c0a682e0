package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/riqqa/models"
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

const localeKey = "locale"

// SetLocale records the response language for the request.
func SetLocale(ctx *gin.Context, locale string) {
	ctx.Set(localeKey, locale)
}

// Locale returns the response language chosen for the request, Arabic when unset.
func Locale(ctx *gin.Context) string {
	if v, ok := ctx.Get(localeKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return models.LocaleArabic
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	SuccessMessage(ctx, models.MsgSuccess, data)
}

// SuccessMessage returns a success response carrying a localized notification.
func SuccessMessage(ctx *gin.Context, key models.MessageKey, data interface{}) {
	Respond(ctx, 200, 0, models.Message(key, Locale(ctx)), data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// ErrorKey returns an error response with a localized notification.
func ErrorKey(ctx *gin.Context, status int, code int, key models.MessageKey) {
	Error(ctx, status, code, models.Message(key, Locale(ctx)))
}

// AbortKey is ErrorKey for middleware; it stops the handler chain.
func AbortKey(ctx *gin.Context, status int, code int, key models.MessageKey, data interface{}) {
	ctx.AbortWithStatusJSON(status, JSONResponse{
		Code:    code,
		Message: models.Message(key, Locale(ctx)),
		Data:    data,
	})
}
