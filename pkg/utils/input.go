// Package utils 提供输入、平台与存储相关的工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
)

// Controls 当前帧的玩家输入
// 键盘与触摸合并到同一结构,场景只处理语义动作
type Controls struct {
	Move    cp.Vector // 移动方向(未归一化,分量为 -1/0/1)
	Running bool      // 按住 Shift 奔跑
	Fire    bool      // 本帧开火(空格或点击/触摸)
	Aim     cp.Vector // 点击/触摸位置(Fire 来自指针时有效)
	Pointer bool      // Fire 由指针触发

	Pause   bool // Esc / P 刚按下
	Confirm bool // Enter 刚按下
	Back    bool // Backspace 刚按下

	// 暂停菜单导航
	Up, Down, Left, Right bool
}

// ReadControls 读取当前帧的输入状态
func ReadControls() Controls {
	var c Controls

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		c.Move.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		c.Move.X++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		c.Move.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		c.Move.Y++
	}
	c.Running = ebiten.IsKeyPressed(ebiten.KeyShift)

	c.Fire = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	if pressed, x, y := IsJustTouchedOrClicked(); pressed {
		c.Fire = true
		c.Pointer = true
		c.Aim = cp.Vector{X: float64(x), Y: float64(y)}
	}

	c.Pause = inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP)
	c.Confirm = inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	c.Back = inpututil.IsKeyJustPressed(ebiten.KeyBackspace)

	c.Up = inpututil.IsKeyJustPressed(ebiten.KeyArrowUp)
	c.Down = inpututil.IsKeyJustPressed(ebiten.KeyArrowDown)
	c.Left = inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft)
	c.Right = inpututil.IsKeyJustPressed(ebiten.KeyArrowRight)
	return c
}

// IsJustTouchedOrClicked 检查是否刚刚发生点击或触摸
// 返回是否点击以及点击位置
func IsJustTouchedOrClicked() (bool, int, int) {
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}
