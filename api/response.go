package api

import (
	"github.com/gin-gonic/gin"

	"github.com/vetalione/content-pipeline/types"
)

// respondOK writes the standard success envelope around data.
func respondOK(c *gin.Context, code int, data any) {
	c.JSON(code, types.APIResponse{Success: true, Data: data})
}

// respondMessage writes a success envelope with a human-readable message.
func respondMessage(c *gin.Context, code int, data any, message string) {
	c.JSON(code, types.APIResponse{Success: true, Data: data, Message: message})
}

// respondError writes the standard failure envelope.
func respondError(c *gin.Context, code int, err string) {
	c.JSON(code, types.APIResponse{Success: false, Error: err})
}
