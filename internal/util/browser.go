// Package util 平台相关的小工具
package util

import (
	"errors"
	"os/exec"
	"runtime"
)

// ErrNoBrowser 没有可用的浏览器启动方式
var ErrNoBrowser = errors.New("no browser opener available")

// BrowserCommands 按优先级返回打开 url 的候选命令
func BrowserCommands(goos, url string) [][]string {
	switch goos {
	case "windows":
		// rundll32 在旧版 Windows 上比 cmd /c start 稳定
		return [][]string{
			{"rundll32", "url.dll,FileProtocolHandler", url},
			{"explorer", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	default:
		cmds := [][]string{{"xdg-open", url}}
		for _, b := range []string{"sensible-browser", "google-chrome", "firefox", "chromium-browser"} {
			cmds = append(cmds, []string{b, url})
		}
		return cmds
	}
}

// OpenBrowser 依次尝试候选命令，第一个成功启动即返回
func OpenBrowser(url string) error {
	err := ErrNoBrowser
	for _, args := range BrowserCommands(runtime.GOOS, url) {
		if err = exec.Command(args[0], args[1:]...).Start(); err == nil {
			return nil
		}
	}
	return err
}
