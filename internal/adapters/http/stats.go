package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (d Deps) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"translator_healthy": d.Gate.Healthy(),
	})
}

func (d Deps) handleLiveStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connections":    d.Registry.Count(),
		"rooms":          d.Rooms.Count(),
		"activeMeetings": d.Presence.ActiveMeetings(),
		"agentsOnline":   d.Presence.AgentsOnline(),
	})
}
