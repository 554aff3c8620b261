package api

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"crypto-dashboard/internal/model"
	"crypto-dashboard/internal/view"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

// 推送给浏览器的消息类型
const (
	MsgFields       = "fields"
	MsgNotice       = "notice"
	MsgChartCreate  = "chart.create"
	MsgChartDestroy = "chart.destroy"
)

// Message 是 Hub 推送给展示层的消息
type Message struct {
	Type    string          `json:"type"`
	Updates []view.Update   `json:"updates,omitempty"`
	Notice  *view.Notice    `json:"notice,omitempty"`
	Chart   *view.ChartSpec `json:"chart,omitempty"`
	ChartID string          `json:"chartId,omitempty"`
}

// GestureHandler 处理展示层上报的用户操作
type GestureHandler interface {
	Handle(ctx context.Context, g model.Gesture) error
}

// Hub 是基于 WebSocket 的展示层
// 它实现 view.Writer 和 view.ChartSurface：写入先进入字段缓存再广播给所有会话，
// 新会话连接时先收到缓存中的完整画面
type Hub struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader
	origins  []string // 额外允许的跨域来源

	mu       sync.RWMutex
	sessions map[*session]struct{}
	order    []string               // 字段首次写入的顺序，用于重放
	fields   map[string]view.Update // Update.Key() -> 最后一次写入
	chartID  string
	chart    *view.ChartSpec
	handler  GestureHandler
}

// NewHub 创建 Hub，handler 可以稍后通过 SetHandler 设置
// 只接受同源连接以及 allowedOrigins 中列出的来源
func NewHub(logger *zap.Logger, allowedOrigins []string) *Hub {
	h := &Hub{
		logger:   logger.With(zap.String("component", "hub")),
		origins:  slices.Clone(allowedOrigins),
		sessions: make(map[*session]struct{}),
		fields:   make(map[string]view.Update),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin 没有 Origin 头 (非浏览器客户端) 或与 Host 相同时放行
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(h.origins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	h.logger.Warn("WebSocket origin rejected", zap.String("origin", origin), zap.String("host", r.Host))
	return false
}

// SetHandler 设置用户操作的处理方
func (h *Hub) SetHandler(handler GestureHandler) {
	h.mu.Lock()
	h.handler = handler
	h.mu.Unlock()
}

// Sessions 返回当前连接的会话数
func (h *Hub) Sessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Write 实现 view.Writer
func (h *Hub) Write(updates ...view.Update) {
	if len(updates) == 0 {
		return
	}
	h.mu.Lock()
	for _, u := range updates {
		key := u.Key()
		if _, ok := h.fields[key]; !ok {
			h.order = append(h.order, key)
		}
		h.fields[key] = u
	}
	h.broadcastLocked(Message{Type: MsgFields, Updates: updates})
	h.mu.Unlock()
}

// Notify 实现 view.Writer，提示不进入缓存
func (h *Hub) Notify(n view.Notice) {
	h.mu.Lock()
	h.broadcastLocked(Message{Type: MsgNotice, Notice: &n})
	h.mu.Unlock()
}

// Create 实现 view.ChartSurface
func (h *Hub) Create(spec view.ChartSpec) (view.Chart, error) {
	id := uuid.NewString()

	h.mu.Lock()
	h.chartID = id
	h.chart = &spec
	h.broadcastLocked(Message{Type: MsgChartCreate, Chart: &spec, ChartID: id})
	h.mu.Unlock()

	return &hubChart{hub: h, id: id}, nil
}

type hubChart struct {
	hub  *Hub
	id   string
	once sync.Once
}

func (c *hubChart) Destroy() {
	c.once.Do(func() {
		h := c.hub
		h.mu.Lock()
		if h.chartID == c.id {
			h.chartID = ""
			h.chart = nil
		}
		h.broadcastLocked(Message{Type: MsgChartDestroy, ChartID: c.id})
		h.mu.Unlock()
	})
}

// replayLocked 构建新会话需要的完整画面
func (h *Hub) replayLocked() []Message {
	updates := make([]view.Update, 0, len(h.order))
	for _, key := range h.order {
		updates = append(updates, h.fields[key])
	}
	msgs := []Message{{Type: MsgFields, Updates: updates}}
	if h.chart != nil {
		msgs = append(msgs, Message{Type: MsgChartCreate, Chart: h.chart, ChartID: h.chartID})
	}
	return msgs
}

// broadcastLocked 非阻塞地发送给所有会话，发送缓冲区满的会话被断开
func (h *Hub) broadcastLocked(msg Message) {
	for s := range h.sessions {
		select {
		case s.send <- msg:
		default:
			s.logger.Warn("Send buffer full! Dropping session")
			h.removeLocked(s)
		}
	}
}

func (h *Hub) removeLocked(s *session) {
	if _, ok := h.sessions[s]; !ok {
		return
	}
	delete(h.sessions, s)
	close(s.send)
}

func (h *Hub) remove(s *session) {
	h.mu.Lock()
	h.removeLocked(s)
	h.mu.Unlock()
}

// Close 断开所有会话
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.sessions {
		h.removeLocked(s)
	}
}

// ServeHTTP 升级为 WebSocket 并在当前 goroutine 中读取用户操作
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	s := &session{
		conn:   conn,
		send:   make(chan Message, sendBufferSize),
		logger: h.logger.With(zap.String("session", uuid.NewString())),
	}

	// 先入队完整画面再注册，保证新会话不会漏掉中间的写入
	h.mu.Lock()
	for _, msg := range h.replayLocked() {
		s.send <- msg
	}
	h.sessions[s] = struct{}{}
	h.mu.Unlock()

	s.logger.Info("Display session connected", zap.String("remote", r.RemoteAddr))

	go s.writePump()
	h.readPump(r.Context(), s)

	h.remove(s)
	s.logger.Info("Display session closed")
}

func (h *Hub) readPump(ctx context.Context, s *session) {
	defer s.conn.Close()

	s.conn.SetReadLimit(4096)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var g model.Gesture
		if err := s.conn.ReadJSON(&g); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("Error reading gesture", zap.Error(err))
			}
			return
		}

		h.mu.RLock()
		handler := h.handler
		h.mu.RUnlock()
		if handler == nil {
			continue
		}
		if err := handler.Handle(ctx, g); err != nil {
			s.logger.Warn("Gesture rejected",
				zap.String("type", string(g.Kind)),
				zap.String("value", g.Value),
				zap.Error(err))
		}
	}
}

// session 是一个浏览器连接
type session struct {
	conn   *websocket.Conn
	send   chan Message
	logger *zap.Logger
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(msg); err != nil {
				s.logger.Warn("Write error", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
