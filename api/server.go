package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vetalione/content-pipeline/publish"
	"github.com/vetalione/content-pipeline/queue"
	"github.com/vetalione/content-pipeline/store"
	"github.com/vetalione/content-pipeline/types"
)

// JobLister reports queue job states for an article. The Redis tracker
// implements it; tests substitute a fake.
type JobLister interface {
	ListByArticle(ctx context.Context, articleID string) ([]types.JobStatus, error)
}

// Deps carries the collaborators the controllers need. Handlers close over
// it rather than reaching for package-level state.
type Deps struct {
	Store      store.Store
	Enqueuer   queue.Enqueuer
	Jobs       JobLister
	Dispatcher *publish.Dispatcher
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Deps, corsOrigins []string) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(corsOrigins))

	// Register resource routers
	RegisterArticleRoutes(r, deps.Store)
	RegisterPipelineRoutes(r, deps.Store, deps.Enqueuer, deps.Jobs)
	RegisterPublishingRoutes(r, deps.Store, deps.Enqueuer, deps.Dispatcher)
	RegisterConfigRoutes(r, deps.Store)
	RegisterHealthRoutes(r)
	return r
}

// corsMiddleware allows browser calls from the configured origins only.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowed["*"] || allowed[origin]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
