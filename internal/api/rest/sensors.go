package rest

import (
	"net/http"

	"github.com/KevinKickass/StormBridge/internal/channels"
	"github.com/KevinKickass/StormBridge/internal/types"
	"github.com/gin-gonic/gin"
)

// GET /api/v1/sensors
func (s *Server) listSensors(c *gin.Context) {
	readings := s.lm.Bridge().Sensors().ReadAll()
	c.JSON(http.StatusOK, gin.H{
		"sensors": readings,
		"count":   len(readings),
	})
}

// GET /api/v1/sensors/:name
func (s *Server) getSensor(c *gin.Context) {
	name := c.Param("name")

	sensor, err := s.lm.Bridge().Sensor(name)
	s.lm.Metrics().RecordSensorAccess(name, err)
	if err != nil {
		status := channels.StatusCode(err)
		c.JSON(status, types.NewErrorResponse(types.ErrorCode("SENSOR", status), "Failed to access sensor", err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":     name,
		"kind":     sensor.Kind(),
		"readings": sensor.Readings(),
	})
}
