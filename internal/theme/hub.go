package theme

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"houseboard/internal/model"
)

// 消息类型
const (
	MessageTheme        = "theme"         // 文档上报自身主题
	MessageThemeChanged = "theme-changed" // 服务端广播主题变化
)

// 文档角色
const (
	RoleParent = "parent" // 嵌入本页面的外层文档
	RoleChild  = "child"  // 被嵌入的本页面
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 8
)

// Message 主题同步消息
type Message struct {
	Type  string      `json:"type"`
	Role  string      `json:"role,omitempty"`
	Theme model.Theme `json:"theme"`
}

type client struct {
	conn *websocket.Conn
	role string
	send chan Message

	// 连接本身是外层文档，或替同源外层文档上报过主题
	speaksForParent bool
}

// Hub 基于 WebSocket 的主题同步对端
// 记住外层文档最后上报的主题，并向所有连接广播变化
type Hub struct {
	mu          sync.RWMutex
	clients     map[*client]struct{}
	parentTheme model.Theme
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// NewHub 创建 Hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 外层文档可能来自其他站点
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// CurrentTheme 外层文档最后上报的主题
func (h *Hub) CurrentTheme() (model.Theme, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.parentTheme == "" {
		return "", false
	}
	return h.parentTheme, true
}

// NotifyThemeChanged 广播主题变化；没有连接时返回 ErrPeerUnreachable
func (h *Hub) NotifyThemeChanged(theme model.Theme) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) == 0 {
		return ErrPeerUnreachable
	}
	if h.parentTheme != "" {
		h.parentTheme = theme
	}
	msg := Message{Type: MessageThemeChanged, Theme: theme}
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("dropping theme notification for slow client", zap.String("role", c.role))
		}
	}
	return nil
}

// Clients 当前连接数
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP 升级为 WebSocket 连接
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("theme websocket upgrade failed", zap.Error(err))
		return
	}

	role := r.URL.Query().Get("role")
	if role != RoleParent {
		role = RoleChild
	}
	c := &client{conn: conn, role: role, send: make(chan Message, sendBuffer), speaksForParent: role == RoleParent}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer h.remove(c)

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("theme websocket closed", zap.Error(err))
			}
			return
		}
		if msg.Type != MessageTheme {
			continue
		}
		t, err := model.ParseTheme(string(msg.Theme))
		if err != nil {
			continue
		}
		// 被嵌入页面能读到同源外层文档时，以 role=parent 代为上报
		if c.role == RoleParent || msg.Role == RoleParent {
			h.mu.Lock()
			c.speaksForParent = true
			h.parentTheme = t
			h.mu.Unlock()
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)

	if !c.speaksForParent {
		return
	}
	for other := range h.clients {
		if other.speaksForParent {
			return
		}
	}
	h.parentTheme = ""
}

// Close 断开所有连接
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
}
