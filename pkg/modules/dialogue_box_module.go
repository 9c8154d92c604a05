package modules

import (
	"fmt"

	"github.com/decker502/zsurvive/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// TranscriptHideDelay 对白结束后字幕保留的时间(秒,非缩放时间)
const TranscriptHideDelay = 0.5

// DialogueBoxModule 对白字幕框
// 实现 game.DialogueListener:开始说话时显示字幕,对白发声器被清理后延迟隐藏
type DialogueBoxModule struct {
	line      *game.DialogueLine
	visible   bool
	hiding    bool
	hideTimer float64

	x, y int
}

// NewDialogueBoxModule 创建字幕框,(x, y) 为文字左上角的屏幕坐标
func NewDialogueBoxModule(x, y int) *DialogueBoxModule {
	return &DialogueBoxModule{x: x, y: y}
}

// SpeakVoiceLine 显示一句台词的字幕
func (m *DialogueBoxModule) SpeakVoiceLine(line *game.DialogueLine) {
	if line == nil {
		return
	}
	m.line = line
	m.visible = true
	m.hiding = false
}

// EndDialogue 对白结束,TranscriptHideDelay 后隐藏字幕
func (m *DialogueBoxModule) EndDialogue() {
	if !m.visible {
		return
	}
	m.hiding = true
	m.hideTimer = TranscriptHideDelay
}

// Update 推进隐藏计时
// 参数: unscaledDelta - 真实时间增量(秒)
func (m *DialogueBoxModule) Update(unscaledDelta float64) {
	if !m.hiding {
		return
	}
	m.hideTimer -= unscaledDelta
	if m.hideTimer > 0 {
		return
	}
	m.hiding = false
	m.visible = false
	m.line = nil
}

// Visible 字幕是否可见
func (m *DialogueBoxModule) Visible() bool {
	return m.visible
}

// Line 当前显示的台词(不可见时为 nil)
func (m *DialogueBoxModule) Line() *game.DialogueLine {
	return m.line
}

// Draw 绘制字幕
func (m *DialogueBoxModule) Draw(screen *ebiten.Image) {
	if !m.visible || m.line == nil {
		return
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("[%s] %s", m.line.Actor, m.line.Transcript), m.x, m.y)
}
