package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vetalione/content-pipeline/queue"
	"github.com/vetalione/content-pipeline/store"
	"github.com/vetalione/content-pipeline/types"
)

// RegisterPipelineRoutes registers stage-trigger and status routes.
func RegisterPipelineRoutes(r *gin.Engine, st store.Store, enq queue.Enqueuer, jobs JobLister) {
	g := r.Group("/api/pipeline/:articleId")
	g.POST("/research", handleStartStage(st, enq, types.StageResearch))
	g.POST("/generate", handleStartStage(st, enq, types.StageGeneration))
	g.POST("/cover", handleStartStage(st, enq, types.StageCover))
	g.GET("/status", handlePipelineStatus(st, jobs))
}

type startStageRequest struct {
	StyleConfig *types.StyleConfig `json:"styleConfig,omitempty"`
	Template    string             `json:"template,omitempty"`
}

// handleStartStage enqueues one stage job for the article. The worker pool
// does the actual work; the handler returns as soon as the job is queued.
func handleStartStage(st store.Store, enq queue.Enqueuer, stage types.Stage) gin.HandlerFunc {
	return func(c *gin.Context) {
		articleID := c.Param("articleId")
		if _, err := st.GetArticle(c.Request.Context(), articleID); err != nil {
			respondStoreError(c, err)
			return
		}

		var req startStageRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
				return
			}
		}

		job := types.PipelineJob{
			ArticleID:   articleID,
			Stage:       stage,
			StyleConfig: req.StyleConfig,
			Template:    req.Template,
		}
		jobID, err := enq.Enqueue(c.Request.Context(), queue.TopicForStage(stage), job)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "enqueue failed: "+err.Error())
			return
		}
		respondMessage(c, http.StatusAccepted, gin.H{"jobId": jobID, "stage": stage}, "job queued")
	}
}

// handlePipelineStatus reports the article's current stage plus the tracker's
// view of its queue jobs.
func handlePipelineStatus(st store.Store, jobs JobLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		articleID := c.Param("articleId")
		a, err := st.GetArticle(c.Request.Context(), articleID)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		statuses, err := jobs.ListByArticle(c.Request.Context(), articleID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		respondOK(c, http.StatusOK, gin.H{
			"articleId":    a.ID,
			"status":       a.Status,
			"currentStage": a.CurrentStage,
			"jobs":         statuses,
		})
	}
}
