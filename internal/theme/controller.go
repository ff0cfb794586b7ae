// Package theme 主题控制：持久化偏好并与嵌入/被嵌入文档同步
package theme

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"houseboard/internal/model"
)

// ErrPeerUnreachable 对端文档不可达
var ErrPeerUnreachable = errors.New("theme peer unreachable")

// Prefs 主题偏好持久化
type Prefs interface {
	GetConfig(key string) (string, error)
	SetConfig(key, value string) error
}

// Peer 跨文档边界的另一方
// 读取失败或不存在时 CurrentTheme 返回 false；通知失败不是致命错误
type Peer interface {
	CurrentTheme() (model.Theme, bool)
	NotifyThemeChanged(theme model.Theme) error
}

// TileSwitcher 按主题切换底图
type TileSwitcher interface {
	UseTiles(theme model.Theme)
}

// State 当前文档的主题属性与切换按钮文字
type State struct {
	Theme model.Theme `json:"theme"`
	Label string      `json:"label"`
}

// Controller 主题控制器
type Controller struct {
	mu     sync.Mutex
	prefs  Prefs
	key    string
	peer   Peer
	tiles  TileSwitcher
	logger *zap.Logger

	current model.Theme
	applied bool
}

// NewController 创建主题控制器；peer 与 tiles 可为 nil
func NewController(prefs Prefs, key string, peer Peer, tiles TileSwitcher, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		key = "theme"
	}
	return &Controller{
		prefs:   prefs,
		key:     key,
		peer:    peer,
		tiles:   tiles,
		logger:  logger,
		current: model.DefaultTheme,
	}
}

// Apply 按优先级确定主题：对端文档 > 持久化值 > light
func (c *Controller) Apply() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = c.resolve()
	c.applied = true
	if c.tiles != nil {
		c.tiles.UseTiles(c.current)
	}
	return stateFor(c.current)
}

func (c *Controller) resolve() model.Theme {
	if c.peer != nil {
		if t, ok := c.peer.CurrentTheme(); ok {
			return t
		}
	}
	if c.prefs != nil {
		if v, err := c.prefs.GetConfig(c.key); err == nil {
			if t, err := model.ParseTheme(v); err == nil {
				return t
			}
			c.logger.Warn("ignoring invalid persisted theme", zap.String("value", v))
		}
	}
	return model.DefaultTheme
}

// Toggle 切换主题：持久化、应用、通知对端、切换底图
func (c *Controller) Toggle() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.applied {
		c.current = c.resolve()
		c.applied = true
	}
	c.current = c.current.Flip()

	if c.prefs != nil {
		if err := c.prefs.SetConfig(c.key, string(c.current)); err != nil {
			c.logger.Warn("failed to persist theme", zap.String("theme", string(c.current)), zap.Error(err))
		}
	}
	if c.peer != nil {
		if err := c.peer.NotifyThemeChanged(c.current); err != nil {
			c.logger.Debug("theme peer not notified", zap.Error(err))
		}
	}
	if c.tiles != nil {
		c.tiles.UseTiles(c.current)
	}
	return stateFor(c.current)
}

// Current 当前状态
func (c *Controller) Current() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return stateFor(c.current)
}

// stateFor 按钮文字提示切换后的主题
func stateFor(t model.Theme) State {
	label := "Dark Mode"
	if t == model.ThemeDark {
		label = "Light Mode"
	}
	return State{Theme: t, Label: label}
}
