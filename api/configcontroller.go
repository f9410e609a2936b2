package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vetalione/content-pipeline/store"
	"github.com/vetalione/content-pipeline/types"
)

// RegisterConfigRoutes registers style-template routes.
func RegisterConfigRoutes(r *gin.Engine, st store.Store) {
	g := r.Group("/api/config/templates")
	g.GET("", handleListTemplates(st))
	g.POST("", handleCreateTemplate(st))
	g.GET("/default", handleDefaultTemplate(st))
}

func handleListTemplates(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		templates, err := st.ListTemplates(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		respondOK(c, http.StatusOK, templates)
	}
}

func handleCreateTemplate(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var t types.StyleTemplate
		if err := c.ShouldBindJSON(&t); err != nil {
			respondError(c, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
			return
		}
		if t.Name == "" {
			respondError(c, http.StatusBadRequest, "name is required")
			return
		}
		if t.ID == "" {
			t.ID = types.NewID()
		}
		if err := st.CreateTemplate(c.Request.Context(), &t); err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		respondMessage(c, http.StatusCreated, t, "template created")
	}
}

func handleDefaultTemplate(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := st.DefaultTemplate(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		if t == nil {
			respondError(c, http.StatusNotFound, "no default template configured")
			return
		}
		respondOK(c, http.StatusOK, t)
	}
}
