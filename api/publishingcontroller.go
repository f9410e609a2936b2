package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vetalione/content-pipeline/publish"
	"github.com/vetalione/content-pipeline/queue"
	"github.com/vetalione/content-pipeline/store"
	"github.com/vetalione/content-pipeline/types"
)

// RegisterPublishingRoutes registers publish and publication-listing routes.
func RegisterPublishingRoutes(r *gin.Engine, st store.Store, enq queue.Enqueuer, d *publish.Dispatcher) {
	g := r.Group("/api/publishing/:articleId")
	g.POST("/publish", handlePublish(st, enq, d))
	g.GET("/publications", handleListPublications(st))
}

// handlePublish runs (or schedules) one publication per requested platform.
// The response is success:true even when individual platforms failed; each
// row carries its own status and error. With async:true the request is
// enqueued for the publish workers instead, one job per platform.
func handlePublish(st store.Store, enq queue.Enqueuer, d *publish.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.PublishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
			return
		}
		// An empty platform list falls back to the article's language defaults.
		for _, p := range req.Platforms {
			if !p.Valid() {
				respondError(c, http.StatusBadRequest, "unknown platform: "+string(p))
				return
			}
		}

		if req.Async {
			handlePublishAsync(c, st, enq, req)
			return
		}

		pubs, err := d.Dispatch(c.Request.Context(), c.Param("articleId"), req)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		msg := "publishing finished"
		if req.ScheduledAt != nil {
			msg = "publishing scheduled"
		}
		respondMessage(c, http.StatusOK, pubs, msg)
	}
}

// handlePublishAsync enqueues one publish job per platform. Queue jobs carry
// only the platform, so scheduling and customizations stay on the inline path.
func handlePublishAsync(c *gin.Context, st store.Store, enq queue.Enqueuer, req types.PublishRequest) {
	if req.ScheduledAt != nil || len(req.Customizations) > 0 {
		respondError(c, http.StatusBadRequest, "async publishing supports platforms only")
		return
	}

	article, err := st.GetArticle(c.Request.Context(), c.Param("articleId"))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = publish.PlatformsForLanguage(article.Language)
	}

	jobIDs := make([]string, 0, len(platforms))
	for _, p := range platforms {
		jobID, err := enq.Enqueue(c.Request.Context(), queue.TopicPublish, types.PipelineJob{
			ArticleID: article.ID,
			Stage:     types.StagePublishing,
			Platform:  p,
		})
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		jobIDs = append(jobIDs, jobID)
	}
	respondMessage(c, http.StatusAccepted, gin.H{"jobIds": jobIDs}, "publishing queued")
}

func handleListPublications(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		articleID := c.Param("articleId")
		if _, err := st.GetArticle(c.Request.Context(), articleID); err != nil {
			respondStoreError(c, err)
			return
		}
		pubs, err := st.ListPublications(c.Request.Context(), articleID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		respondOK(c, http.StatusOK, pubs)
	}
}
