package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/riqqa/models"
	"github.com/cppla/riqqa/store"
	"github.com/cppla/riqqa/utils"
)

// StateController exposes the public, read-only views of the app.
type StateController struct {
	store *store.Store
}

func NewStateController(st *store.Store) *StateController {
	return &StateController{store: st}
}

// ListSections returns the home screen sections with titles in the request locale.
func (s *StateController) ListSections(ctx *gin.Context) {
	locale := utils.Locale(ctx)
	type item struct {
		models.SectionInfo
		LocalizedTitle string `json:"localized_title"`
	}
	sections := models.Sections()
	items := make([]item, 0, len(sections))
	for _, sec := range sections {
		items = append(items, item{SectionInfo: sec, LocalizedTitle: sec.LocalizedTitle(locale)})
	}
	utils.Success(ctx, gin.H{"sections": items})
}

// GetState returns a snapshot of the shared app state.
func (s *StateController) GetState(ctx *gin.Context) {
	utils.Success(ctx, s.store.Snapshot())
}
