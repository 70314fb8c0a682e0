package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/riqqa/services"
	"github.com/cppla/riqqa/utils"
)

// PostController serves the reader screens: feed, sections, post detail,
// likes and comments.
type PostController struct {
	posts *services.PostService
}

// NewPostController creates a new PostController instance.
func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

// ListPosts returns the home feed, newest first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	posts, err := p.posts.LoadFeed(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"posts": posts, "total": len(posts)})
}

func (p *PostController) ListSectionPosts(ctx *gin.Context) {
	res, err := p.posts.LoadSection(ctx.Request.Context(), ctx.Param("section"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"section": res.Section,
		"title":   res.Section.LocalizedTitle(utils.Locale(ctx)),
		"posts":   res.Posts,
		"total":   len(res.Posts),
	})
}

// GetPost returns a post with its comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	detail, err := p.posts.LoadPost(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, detail)
}

func (p *PostController) Like(ctx *gin.Context) {
	id := ctx.Param("id")
	likes, err := p.posts.Like(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"id": id, "likes": likes})
}

func (p *PostController) Unlike(ctx *gin.Context) {
	id := ctx.Param("id")
	likes, err := p.posts.Unlike(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"id": id, "likes": likes})
}

// CreateComment appends a comment to a post.
func (p *PostController) CreateComment(ctx *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx)
		return
	}
	comment, err := p.posts.AddComment(ctx.Request.Context(), ctx.Param("id"), req.Text)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}
