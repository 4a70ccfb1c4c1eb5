package handlers

import (
	"seatshare/internal/utils"
	"seatshare/pkg/logger"

	"github.com/gin-gonic/gin"
)

// respondError writes err in the response envelope. Internal errors are
// logged in full; clients only see the generic message unless debug is on.
func respondError(c *gin.Context, log *logger.Logger, debug bool, err error) {
	kind := utils.KindOf(err)
	status := utils.StatusForKind(kind)
	message := utils.PublicMessage(err)

	if kind == utils.KindInternal {
		log.WithRequestID(c.GetString(utils.ContextRequestID)).
			WithError(err).
			WithFields(map[string]interface{}{
				"method": c.Request.Method,
				"path":   c.FullPath(),
			}).Error("Request failed")
		if debug {
			message = message + ": " + err.Error()
		}
	}

	utils.ErrorResponse(c, status, message)
}
