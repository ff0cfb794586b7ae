package theme

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"houseboard/internal/model"
)

type fakePeer struct {
	theme    model.Theme
	readable bool
	notified []model.Theme
	err      error
}

func (p *fakePeer) CurrentTheme() (model.Theme, bool) {
	return p.theme, p.readable
}

func (p *fakePeer) NotifyThemeChanged(t model.Theme) error {
	if p.err != nil {
		return p.err
	}
	p.notified = append(p.notified, t)
	return nil
}

type fakeTiles struct {
	attached []model.Theme
}

func (f *fakeTiles) UseTiles(t model.Theme) {
	f.attached = []model.Theme{t}
}

type failingPrefs struct{}

func (failingPrefs) GetConfig(string) (string, error) { return "", errors.New("disk gone") }
func (failingPrefs) SetConfig(string, string) error   { return errors.New("disk gone") }

func TestApplyPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		peer      Peer
		persisted string
		want      model.Theme
	}{
		{name: "default", want: model.ThemeLight},
		{name: "persisted", persisted: "dark", want: model.ThemeDark},
		{name: "invalid persisted", persisted: "purple", want: model.ThemeLight},
		{name: "peer wins", peer: &fakePeer{theme: model.ThemeDark, readable: true}, persisted: "light", want: model.ThemeDark},
		{name: "unreadable peer falls through", peer: &fakePeer{theme: model.ThemeLight, readable: false}, persisted: "dark", want: model.ThemeDark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := NewMemoryPrefs()
			if tt.persisted != "" {
				require.NoError(t, prefs.SetConfig("theme", tt.persisted))
			}
			tiles := &fakeTiles{}
			c := NewController(prefs, "theme", tt.peer, tiles, zaptest.NewLogger(t))

			st := c.Apply()
			assert.Equal(t, tt.want, st.Theme)
			assert.Equal(t, []model.Theme{tt.want}, tiles.attached)
		})
	}
}

func TestApplyDoesNotPersist(t *testing.T) {
	prefs := NewMemoryPrefs()
	c := NewController(prefs, "theme", &fakePeer{theme: model.ThemeDark, readable: true}, nil, nil)
	c.Apply()

	_, err := prefs.GetConfig("theme")
	assert.Error(t, err)
}

func TestToggleTwiceRestoresState(t *testing.T) {
	prefs := NewMemoryPrefs()
	require.NoError(t, prefs.SetConfig("theme", "light"))
	peer := &fakePeer{}
	tiles := &fakeTiles{}
	c := NewController(prefs, "theme", peer, tiles, zaptest.NewLogger(t))

	before := c.Apply()
	require.Len(t, tiles.attached, 1)

	mid := c.Toggle()
	assert.Equal(t, model.ThemeDark, mid.Theme)
	assert.Equal(t, "Light Mode", mid.Label)
	v, _ := prefs.GetConfig("theme")
	assert.Equal(t, "dark", v)

	after := c.Toggle()
	assert.Equal(t, before, after)
	v, _ = prefs.GetConfig("theme")
	assert.Equal(t, "light", v)

	assert.Equal(t, []model.Theme{model.ThemeLight}, tiles.attached)
	assert.Equal(t, []model.Theme{model.ThemeDark, model.ThemeLight}, peer.notified)
}

func TestToggleToleratesFailures(t *testing.T) {
	peer := &fakePeer{err: ErrPeerUnreachable}
	c := NewController(failingPrefs{}, "theme", peer, nil, zaptest.NewLogger(t))

	st := c.Toggle()
	assert.Equal(t, model.ThemeDark, st.Theme)
	assert.Equal(t, model.ThemeDark, c.Current().Theme)
}
