package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GET /?num1=..&bool1=..
func (s *Server) exchange(c *gin.Context) {
	start := time.Now()

	b := s.lm.Bridge()
	req, resp := b.Exchange(c.Request.URL.Query())

	m := s.lm.Metrics()
	m.Exchanges.Inc()
	m.ExchangeDuration.Observe(time.Since(start).Seconds())
	if req.Defaulted > 0 {
		m.DefaultedNumbers.Add(float64(req.Defaulted))
		s.logger.Debug("Unparsable numeric inputs defaulted to 0",
			zap.Int("count", req.Defaulted))
	}

	s.lm.Streamer().Publish(b.Bus().Snapshot(), req.Defaulted)

	c.JSON(http.StatusOK, resp)
}
