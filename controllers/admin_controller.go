package controllers

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/riqqa/middleware"
	"github.com/cppla/riqqa/models"
	"github.com/cppla/riqqa/services"
	"github.com/cppla/riqqa/utils"
)

// AdminController handles the admin login flow and post management.
type AdminController struct {
	admin     *services.AdminService
	maxUpload int64
}

// NewAdminController creates a new AdminController. Uploads larger than
// maxUpload bytes are rejected.
func NewAdminController(admin *services.AdminService, maxUpload int64) *AdminController {
	return &AdminController{admin: admin, maxUpload: maxUpload}
}

// Login verifies the admin credentials and issues a token.
func (a *AdminController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx)
		return
	}
	res, err := a.admin.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, models.MsgLoginSucceeded, res)
}

func (a *AdminController) Logout(ctx *gin.Context) {
	var (
		id  string
		exp time.Time
	)
	if claims, ok := middleware.ClaimsFrom(ctx); ok {
		id = claims.ID
		if claims.ExpiresAt != nil {
			exp = claims.ExpiresAt.Time
		}
	}
	if err := a.admin.Logout(ctx.Request.Context(), id, exp); err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, models.MsgLoggedOut, nil)
}

// Session reports the logged in admin; the middleware already checked the session.
func (a *AdminController) Session(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"logged_in": true,
		"username":  ctx.GetString(middleware.ContextUsernameKey),
	})
}

func (a *AdminController) ListPosts(ctx *gin.Context) {
	posts, err := a.admin.ListPosts(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"posts": posts, "total": len(posts)})
}

func (a *AdminController) CreatePost(ctx *gin.Context) {
	var req services.CreatePostInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx)
		return
	}
	post, err := a.admin.CreatePost(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, models.MsgPostAdded, gin.H{"post": post})
}

func (a *AdminController) DeletePost(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := a.admin.DeletePost(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, models.MsgPostDeleted, gin.H{"id": id})
}

// SetLikes overwrites the like counter of a post.
func (a *AdminController) SetLikes(ctx *gin.Context) {
	var req struct {
		Likes *int `json:"likes"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Likes == nil {
		badPayload(ctx)
		return
	}
	id := ctx.Param("id")
	if err := a.admin.SetLikes(ctx.Request.Context(), id, *req.Likes); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"id": id, "likes": *req.Likes})
}

// Upload stores a media file and returns its URL for a later image or video post.
func (a *AdminController) Upload(ctx *gin.Context) {
	if a.maxUpload > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, a.maxUpload+1<<20)
	}
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.ErrorKey(ctx, http.StatusBadRequest, 40030, models.MsgNoFile)
		return
	}
	defer file.Close()

	if a.maxUpload > 0 && header.Size > a.maxUpload {
		utils.ErrorKey(ctx, http.StatusBadRequest, 40032, models.MsgFileTooLarge)
		return
	}

	name := filepath.Base(header.Filename)
	url, err := a.admin.Upload(ctx.Request.Context(), name, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"url": url, "size": header.Size})
}
