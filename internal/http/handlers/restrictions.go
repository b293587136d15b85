package handlers

import (
	"net/http"
	"time"

	"ferry-booking/internal/http/middleware"
	"ferry-booking/internal/services"

	"github.com/gin-gonic/gin"
)

func restrictionService(c *gin.Context) services.RestrictionService {
	return services.RestrictionService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/restrictions/:profileID
func GetRestriction(c *gin.Context) {
	profileID, ok := pathID(c, "profileID")
	if !ok {
		return
	}
	restriction, err := restrictionService(c).Get(profileID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restriction": restriction})
}

// POST /api/restrictions/:profileID/warn
func WarnProfile(c *gin.Context) {
	profileID, ok := pathID(c, "profileID")
	if !ok {
		return
	}
	restriction, err := restrictionService(c).Warn(profileID, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restriction": restriction})
}

type blockRequest struct {
	Until string `json:"until,omitempty"` // RFC3339, empty = indefinite
}

// POST /api/restrictions/:profileID/block
func BlockProfile(c *gin.Context) {
	profileID, ok := pathID(c, "profileID")
	if !ok {
		return
	}
	var req blockRequest
	if c.Request.ContentLength > 0 {
		if !BindJSONOrError(c, &req) {
			return
		}
	}

	svc := restrictionService(c)
	actorID := middleware.GetUserID(c)
	if req.Until != "" {
		until, err := time.Parse(time.RFC3339, req.Until)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "until must be RFC3339", err)
			return
		}
		restriction, err := svc.BlockUntil(profileID, actorID, until)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"restriction": restriction})
		return
	}

	restriction, err := svc.Block(profileID, actorID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restriction": restriction})
}

// POST /api/restrictions/:profileID/unblock
func UnblockProfile(c *gin.Context) {
	profileID, ok := pathID(c, "profileID")
	if !ok {
		return
	}
	restriction, err := restrictionService(c).Unblock(profileID, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restriction": restriction})
}

// POST /api/restrictions/:profileID/clear-warnings
func ClearProfileWarnings(c *gin.Context) {
	profileID, ok := pathID(c, "profileID")
	if !ok {
		return
	}
	restriction, err := restrictionService(c).ClearWarnings(profileID, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restriction": restriction})
}
