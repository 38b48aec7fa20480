package stream

import (
	"io"
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServeSSE streams the messages of topic to the client as server-sent
// events until the client disconnects or the hub stops.
func (h *Hub) ServeSSE(topic string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := h.Subscribe(topic)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		defer h.Unsubscribe(sub)

		h.logger.Info("SSE client connected",
			zap.String("subscriber", sub.ID),
			zap.String("topic", topic),
			zap.String("remote_addr", c.ClientIP()))

		c.Header("Content-Type", sse.ContentType)
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")
		c.Status(http.StatusOK)
		c.Writer.Flush()

		ctx := c.Request.Context()
		c.Stream(func(w io.Writer) bool {
			select {
			case msg, ok := <-sub.Send:
				if !ok {
					return false
				}
				c.Render(-1, sse.Event{
					Id:    msg.ID,
					Event: "message",
					Data:  msg.Data,
				})
				return true
			case <-ctx.Done():
				return false
			}
		})

		h.logger.Info("SSE client disconnected", zap.String("subscriber", sub.ID), zap.String("topic", topic))
	}
}
