package rest

import (
	"errors"
	"net/http"

	"github.com/KevinKickass/StormBridge/internal/bridge"
	"github.com/KevinKickass/StormBridge/internal/channels"
	"github.com/KevinKickass/StormBridge/internal/types"
	"github.com/gin-gonic/gin"
)

// Value is a pointer so that false and 0 pass the required check.
type setChannelRequest struct {
	Value *any `json:"value" binding:"required"`
}

// channelError maps registry and bus errors onto the API envelope.
func channelError(c *gin.Context, err error, message string) {
	status := channels.StatusCode(err)
	if errors.Is(err, bridge.ErrValueType) {
		status = http.StatusBadRequest
	}
	c.JSON(status, types.NewErrorResponse(types.ErrorCode("CHANNEL", status), message, err.Error()))
}

// GET /api/v1/channels
func (s *Server) listChannels(c *gin.Context) {
	b := s.lm.Bridge()
	c.JSON(http.StatusOK, gin.H{
		"bus":   b.Bus().Snapshot(),
		"named": b.NamedChannels(),
	})
}

// GET /api/v1/channels/:role/:name
func (s *Server) getChannel(c *gin.Context) {
	role, err := channels.ParseRole(c.Param("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("CHANNEL_400", "Invalid channel role", err.Error()))
		return
	}
	name := c.Param("name")

	value, err := s.lm.Bridge().Value(role, name)
	if err != nil {
		channelError(c, err, "Failed to read channel")
		return
	}
	if f, ok := value.(float64); ok {
		value = channels.Finite(f)
	}

	c.JSON(http.StatusOK, gin.H{
		"role":  role.String(),
		"name":  name,
		"value": value,
	})
}

// PUT /api/v1/channels/:role/:name
func (s *Server) setChannel(c *gin.Context) {
	role, err := channels.ParseRole(c.Param("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("CHANNEL_400", "Invalid channel role", err.Error()))
		return
	}
	name := c.Param("name")

	var req setChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("CHANNEL_400", "Invalid request body", err.Error()))
		return
	}
	if err := s.lm.Bridge().SetValue(role, name, *req.Value); err != nil {
		channelError(c, err, "Failed to write channel")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":  role.String(),
		"name":  name,
		"value": *req.Value,
	})
}
