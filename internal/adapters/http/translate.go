package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lekkas/callbridge/internal/translate"
)

type translateRequest struct {
	Text      string `json:"text" binding:"required"`
	Source    string `json:"source" binding:"required"`
	Target    string `json:"target" binding:"required"`
	Reference string `json:"reference,omitempty"`
	RoomID    string `json:"roomId,omitempty"`
}

func (d Deps) handleTranslate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing text, source or target"})
		return
	}

	res, err := d.Translator.Translate(c.Request.Context(), translate.Request{
		Text:       req.Text,
		SourceLang: req.Source,
		TargetLang: req.Target,
		Reference:  req.Reference,
		RoomID:     req.RoomID,
	})
	if err != nil {
		c.JSON(translateStatus(err), gin.H{"error": err.Error()})
		return
	}

	out := res.Text
	if d.Dict != nil {
		out = d.Dict.Apply(out, req.Target)
	}

	resp := gin.H{
		"translated": out,
		"durationMs": res.Duration.Milliseconds(),
	}
	if res.Accuracy != nil {
		resp["accuracy"] = *res.Accuracy
	}
	c.JSON(http.StatusOK, resp)
}

// translateStatus maps the error taxonomy onto the API contract: 400 for
// anything the backend would reject or local validation caught, 503 for the
// health-gate short-circuit, 504 for a timed-out call, 500 otherwise.
func translateStatus(err error) int {
	switch {
	case errors.Is(err, translate.ErrInvalidInput), errors.Is(err, translate.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, translate.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, translate.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (d Deps) handleTranslationLogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"logs": d.Logs.Tail()})
}
