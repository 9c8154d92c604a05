package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// 场景名称
const (
	SceneMenu = "menu"
	SceneGame = "game"
)

// Scene represents a game scene (main menu, the survival run).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic.
	// deltaTime is the real (unscaled) time elapsed since the last update in seconds;
	// scenes derive scaled time from the shared Clock.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Exiter 是可选接口,场景被替换时调用 OnExit 释放它创建的实体
type Exiter interface {
	OnExit()
}

// Saveable 是可选接口,用于在游戏窗口关闭时保存状态
//
// 实现此接口的场景会在以下时机被调用 SaveOnExit():
//   - 游戏窗口关闭
//   - 用户通过 OS 命令关闭程序
type Saveable interface {
	// SaveOnExit 在程序退出时保存状态
	// 返回 true 表示保存成功或无需保存
	SaveOnExit() bool
}
