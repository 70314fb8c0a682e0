package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/riqqa/models"
	"github.com/cppla/riqqa/utils"
)

// respondError writes err as an envelope. AppErrors carry their own localized
// message; anything else is an internal failure.
func respondError(ctx *gin.Context, err error) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		utils.Sugar.Errorw("unhandled error", "path", ctx.Request.URL.Path, "error", err)
		utils.ErrorKey(ctx, http.StatusInternalServerError, 50000, models.MsgInternalError)
		return
	}

	msg := appErr.Localized(utils.Locale(ctx))
	switch appErr.Kind {
	case models.KindValidation:
		utils.Error(ctx, http.StatusBadRequest, 40001, msg)
	case models.KindCredential:
		utils.Error(ctx, http.StatusUnauthorized, 40111, msg)
	case models.KindMissingSession:
		utils.Respond(ctx, http.StatusUnauthorized, 40106, msg, gin.H{"redirect": "/admin/login"})
	case models.KindNotFound:
		utils.Error(ctx, http.StatusNotFound, 40401, msg)
	case models.KindUnavailable:
		utils.Error(ctx, http.StatusServiceUnavailable, 50301, msg)
	case models.KindRemote:
		utils.Error(ctx, http.StatusBadGateway, 50201, msg)
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50000, msg)
	}
}

func badPayload(ctx *gin.Context) {
	utils.ErrorKey(ctx, http.StatusBadRequest, 40002, models.MsgInvalidPayload)
}
