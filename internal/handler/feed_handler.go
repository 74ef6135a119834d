package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"flood-monitor/internal/controller"
	"flood-monitor/internal/view"
)

const (
	// pongWait - сколько ждать любого кадра от клиента; пинг уходит чаще.
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	writeTimeout   = 10 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 16

	defaultFeedInterval = 5 * time.Second
)

// FeedHandler - живая лента камер по WebSocket
type FeedHandler struct {
	logger     *zap.Logger
	service    *controller.CameraServiceImpl
	interval   time.Duration
	pingPeriod time.Duration
	pongWait   time.Duration
	upgrader   websocket.Upgrader
}

// NewFeedHandler создает новый хендлер. interval - период отправки представления.
func NewFeedHandler(
	logger *zap.Logger,
	service *controller.CameraServiceImpl,
	interval time.Duration,
	allowedOrigins []string,
) *FeedHandler {
	if interval <= 0 {
		interval = defaultFeedInterval
	}
	return &FeedHandler{
		logger:     logger,
		service:    service,
		interval:   interval,
		pingPeriod: pingPeriod,
		pongWait:   pongWait,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// RegisterRoutes регистрирует маршруты
func (h *FeedHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/cameras", h.Cameras)
}

// feedCommand - сообщение клиента
type feedCommand struct {
	Action string `json:"action"`
	Q      string `json:"q"`
	Filter string `json:"filter"`
	Sort   string `json:"sort"`
}

// feedSession - одно WebSocket соединение
type feedSession struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	quit chan struct{}
}

// Cameras открывает ленту; параметры ?q=&filter=&sort= задают начальный запрос
func (h *FeedHandler) Cameras(c *gin.Context) {
	q, err := queryFromRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query",
			"message": err.Error(),
		})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	session := &feedSession{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		quit: make(chan struct{}),
	}
	h.service.Subscriptions().Save(&controller.Subscription{
		ID:         session.id,
		RemoteAddr: c.ClientIP(),
		Query:      q,
	})

	h.logger.Info("Feed client connected",
		zap.String("session_id", session.id),
		zap.String("client_ip", c.ClientIP()))

	go h.serve(session)
}

// serve обслуживает сессию до закрытия соединения
func (h *FeedHandler) serve(session *feedSession) {
	defer func() {
		session.conn.Close()
		h.service.Subscriptions().Remove(session.id)
		h.logger.Info("Feed client disconnected", zap.String("session_id", session.id))
	}()

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		h.readMessages(session)
	}()

	h.writeMessages(session, readDone)
}

// readMessages читает команды клиента.
// Без кадров от клиента дольше pongWait соединение считается потерянным.
func (h *FeedHandler) readMessages(session *feedSession) {
	session.conn.SetReadLimit(maxMessageSize)
	session.conn.SetReadDeadline(time.Now().Add(h.pongWait))
	session.conn.SetPongHandler(func(string) error {
		return session.conn.SetReadDeadline(time.Now().Add(h.pongWait))
	})

	for {
		messageType, message, err := session.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseAbnormalClosure) {
				h.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		session.conn.SetReadDeadline(time.Now().Add(h.pongWait))
		if messageType == websocket.TextMessage {
			h.handleCommand(session, message)
		}
	}
}

// writeMessages - единственный писатель в соединение
func (h *FeedHandler) writeMessages(session *feedSession, readDone <-chan struct{}) {
	defer close(session.quit)

	feed := time.NewTicker(h.interval)
	defer feed.Stop()
	ping := time.NewTicker(h.pingPeriod)
	defer ping.Stop()

	if !h.pushView(session) {
		return
	}

	for {
		select {
		case msg := <-session.send:
			if err := h.write(session, websocket.TextMessage, msg); err != nil {
				h.logger.Warn("WebSocket write error", zap.Error(err))
				return
			}

		case <-feed.C:
			if !h.pushView(session) {
				return
			}

		case <-ping.C:
			if err := h.write(session, websocket.PingMessage, nil); err != nil {
				return
			}

		case <-readDone:
			return
		}
	}
}

// handleCommand обрабатывает команды ping и query
func (h *FeedHandler) handleCommand(session *feedSession, message []byte) {
	var cmd feedCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		h.logger.Debug("Failed to unmarshal feed command", zap.Error(err))
		h.enqueue(session, gin.H{"action": "error", "message": "invalid JSON"})
		return
	}

	switch cmd.Action {
	case "ping":
		h.enqueue(session, gin.H{
			"action": "pong",
			"time":   time.Now().Unix(),
		})

	case "query":
		q, err := view.ParseQuery(cmd.Q, cmd.Filter, cmd.Sort)
		if err != nil {
			h.enqueue(session, gin.H{"action": "error", "message": err.Error()})
			return
		}
		h.service.Subscriptions().UpdateQuery(session.id, q)
		h.enqueue(session, h.viewMessage(q))

	default:
		h.enqueue(session, gin.H{"action": "error", "message": "unknown action " + cmd.Action})
	}
}

// pushView отправляет текущее представление по запросу подписки
func (h *FeedHandler) pushView(session *feedSession) bool {
	sub, ok := h.service.Subscriptions().Get(session.id)
	if !ok {
		return false
	}

	data, err := json.Marshal(h.viewMessage(sub.Query))
	if err != nil {
		h.logger.Error("Failed to marshal camera view", zap.Error(err))
		return true
	}
	if err := h.write(session, websocket.TextMessage, data); err != nil {
		h.logger.Warn("WebSocket write error", zap.Error(err))
		return false
	}

	h.service.Subscriptions().MarkPushed(session.id, time.Now())
	return true
}

func (h *FeedHandler) viewMessage(q view.Query) gin.H {
	cameras := h.service.List(q)
	return gin.H{
		"action":  "cameras",
		"time":    time.Now().Unix(),
		"count":   len(cameras),
		"cameras": cameras,
		"query": gin.H{
			"q":      q.Text,
			"filter": q.Category,
			"sort":   sortName(q.Sort),
		},
	}
}

// enqueue передает сообщение писателю; после закрытия сессии сообщение теряется
func (h *FeedHandler) enqueue(session *feedSession, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal feed message", zap.Error(err))
		return
	}
	select {
	case session.send <- data:
	case <-session.quit:
	}
}

func (h *FeedHandler) write(session *feedSession, messageType int, data []byte) error {
	session.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return session.conn.WriteMessage(messageType, data)
}

// originChecker разрешает Origin из списка; "*" или пустой список - любой
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}
