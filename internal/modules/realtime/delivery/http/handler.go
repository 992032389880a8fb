package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	realtime "anoa.com/neoboard/internal/modules/realtime/service"
	"anoa.com/neoboard/pkg/apperror"
	commonDto "anoa.com/neoboard/pkg/dto"
	"anoa.com/neoboard/pkg/metrics"
	"anoa.com/neoboard/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type threadFinder interface {
	GetThread(ctx context.Context, id uuid.UUID) (*commonDto.ThreadResponse, error)
}

type LiveHandler struct {
	hub      realtime.Hub
	threads  threadFinder
	upgrader websocket.Upgrader
}

func NewLiveHandler(hub realtime.Hub, threads threadFinder, allowedOrigins []string) *LiveHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &LiveHandler{
		hub:     hub,
		threads: threads,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// HandleThreadSocket streams post events of one thread until either side hangs up.
func (h *LiveHandler) HandleThreadSocket(c *gin.Context) {
	threadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.NotFound("Thread not found"))
		return
	}

	if _, err := h.threads.GetThread(c.Request.Context(), threadID); err != nil {
		response.ResponseError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	events, unsubscribe, err := h.hub.Subscribe(ctx, threadID)
	if err != nil {
		log.Printf("Failed to subscribe to thread %s: %v", threadID, err)
		return
	}
	defer unsubscribe()

	metrics.LiveSubscribers.Inc()
	defer metrics.LiveSubscribers.Dec()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("Failed to write message to websocket: %v", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
