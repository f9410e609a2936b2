package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vetalione/content-pipeline/store"
	"github.com/vetalione/content-pipeline/types"
)

// RegisterArticleRoutes registers article CRUD routes.
func RegisterArticleRoutes(r *gin.Engine, st store.Store) {
	g := r.Group("/api/articles")
	g.GET("", handleListArticles(st))
	g.POST("", handleCreateArticle(st))
	g.GET("/:id", handleGetArticle(st))
	g.PATCH("/:id", handleUpdateArticle(st))
	g.DELETE("/:id", handleDeleteArticle(st))
}

type createArticleRequest struct {
	CelebrityName string         `json:"celebrityName"`
	Language      types.Language `json:"language"`
}

func handleCreateArticle(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createArticleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
			return
		}
		if req.CelebrityName == "" {
			respondError(c, http.StatusBadRequest, "celebrityName is required")
			return
		}
		lang := req.Language
		if lang == "" {
			lang = types.LanguageRU
		}
		if !lang.Valid() {
			respondError(c, http.StatusBadRequest, "unknown language: "+string(lang))
			return
		}

		a := &types.Article{
			ID:            types.NewID(),
			CelebrityName: req.CelebrityName,
			Language:      lang,
			Status:        types.StatusDraft,
			CurrentStage:  types.StageInput,
		}
		if err := st.CreateArticle(c.Request.Context(), a); err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		respondMessage(c, http.StatusCreated, a, "article created")
	}
}

func handleListArticles(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
		if page < 1 {
			page = 1
		}
		if pageSize < 1 || pageSize > 100 {
			pageSize = 20
		}
		f := store.ArticleFilter{
			Status:   types.ArticleStatus(c.Query("status")),
			Stage:    types.Stage(c.Query("stage")),
			Page:     page,
			PageSize: pageSize,
		}
		articles, total, err := st.ListArticles(c.Request.Context(), f)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		totalPages := int(total) / pageSize
		if int(total)%pageSize != 0 {
			totalPages++
		}
		c.JSON(http.StatusOK, types.PaginatedResponse{
			Success:    true,
			Data:       articles,
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		})
	}
}

func handleGetArticle(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := st.GetArticle(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondStoreError(c, err)
			return
		}
		respondOK(c, http.StatusOK, a)
	}
}

type updateArticleRequest struct {
	CelebrityName *string              `json:"celebrityName"`
	Language      *types.Language      `json:"language"`
	Status        *types.ArticleStatus `json:"status"`
}

func handleUpdateArticle(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateArticleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
			return
		}
		ctx := c.Request.Context()
		a, err := st.GetArticle(ctx, c.Param("id"))
		if err != nil {
			respondStoreError(c, err)
			return
		}
		if req.CelebrityName != nil {
			if *req.CelebrityName == "" {
				respondError(c, http.StatusBadRequest, "celebrityName must not be empty")
				return
			}
			a.CelebrityName = *req.CelebrityName
		}
		if req.Language != nil {
			if !req.Language.Valid() {
				respondError(c, http.StatusBadRequest, "unknown language: "+string(*req.Language))
				return
			}
			a.Language = *req.Language
		}
		if req.Status != nil {
			if !req.Status.Valid() {
				respondError(c, http.StatusBadRequest, "unknown status: "+string(*req.Status))
				return
			}
			if err := st.SetStatus(ctx, a.ID, *req.Status); err != nil {
				respondStoreError(c, err)
				return
			}
			a.Status = *req.Status
		}
		if req.CelebrityName != nil || req.Language != nil {
			if err := st.UpdateArticle(ctx, a); err != nil {
				respondStoreError(c, err)
				return
			}
		}
		respondOK(c, http.StatusOK, a)
	}
}

func handleDeleteArticle(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := st.DeleteArticle(c.Request.Context(), c.Param("id")); err != nil {
			respondStoreError(c, err)
			return
		}
		respondMessage(c, http.StatusOK, nil, "article deleted")
	}
}

// respondStoreError maps store sentinels to HTTP statuses.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrArticleNotFound), errors.Is(err, store.ErrPublicationNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrIllegalTransition):
		respondError(c, http.StatusConflict, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}
