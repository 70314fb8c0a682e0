package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/riqqa/models"
	"github.com/cppla/riqqa/utils"
)

// Locale picks the response language from ?locale=, then Accept-Language,
// then def.
func Locale(def string) gin.HandlerFunc {
	def = models.NormalizeLocale(def, models.LocaleArabic)
	return func(ctx *gin.Context) {
		requested := strings.ToLower(strings.TrimSpace(ctx.Query("locale")))
		if requested == "" {
			requested = primaryLanguage(ctx.GetHeader("Accept-Language"))
		}
		utils.SetLocale(ctx, models.NormalizeLocale(requested, def))
		ctx.Next()
	}
}

func primaryLanguage(header string) string {
	if header == "" {
		return ""
	}
	tag := strings.SplitN(header, ",", 2)[0]
	tag = strings.SplitN(tag, ";", 2)[0]
	tag = strings.SplitN(tag, "-", 2)[0]
	return strings.ToLower(strings.TrimSpace(tag))
}
