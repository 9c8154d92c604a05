package modules

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/decker502/zsurvive/pkg/types"
	"github.com/decker502/zsurvive/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// VolumeStep 左右键每次调整的音量
const VolumeStep = 0.1

// PauseAudio 暂停菜单需要的音频能力(*game.AudioManager)
type PauseAudio interface {
	PauseDialogue(state bool)
	SetVolume(group types.AudioType, value float64, updatePref bool)
	Volume(group types.AudioType) float64
}

// TimeScaler 全局时间缩放(*game.Clock)
type TimeScaler interface {
	SetTimeScale(scale float64)
}

// PauseMenuCallbacks 暂停菜单回调函数集合
type PauseMenuCallbacks struct {
	OnRestart  func() // "重新开始"
	OnMainMenu func() // "返回主菜单"
}

// pauseRow 菜单行
type pauseRow struct {
	label  string
	volume bool            // 音量行
	group  types.AudioType // 音量行的混音分组
}

var pauseRows = []pauseRow{
	{label: "Resume"},
	{label: "Master", volume: true, group: types.AudioMaster},
	{label: "Music", volume: true, group: types.AudioMusic},
	{label: "Ambience", volume: true, group: types.AudioAmbience},
	{label: "Dialogue", volume: true, group: types.AudioDialogue},
	{label: "SFX", volume: true, group: types.AudioSFX},
	{label: "Restart"},
	{label: "Main Menu"},
}

// PauseMenuModule 暂停菜单模块
//
// 打开时把时间缩放设为 0(清理任务因此立即结束)并暂停对白,
// 音乐和环境音继续播放;菜单内可以调整各分组音量,调整结果写入偏好设置。
type PauseMenuModule struct {
	audio     PauseAudio
	clock     TimeScaler
	callbacks PauseMenuCallbacks

	active   bool
	selected int

	x, y int
}

// NewPauseMenuModule 创建暂停菜单模块
//
// 参数:
//   - audio: 音频管理器
//   - clock: 全局时钟
//   - x, y: 菜单文字左上角的屏幕坐标
//   - callbacks: 暂停菜单回调函数集合
func NewPauseMenuModule(audio PauseAudio, clock TimeScaler, x, y int, callbacks PauseMenuCallbacks) *PauseMenuModule {
	return &PauseMenuModule{
		audio:     audio,
		clock:     clock,
		callbacks: callbacks,
		x:         x,
		y:         y,
	}
}

// Show 打开暂停菜单
func (m *PauseMenuModule) Show() {
	if m.active {
		return
	}
	m.active = true
	m.selected = 0
	m.clock.SetTimeScale(0)
	m.audio.PauseDialogue(true)
	log.Printf("[PauseMenuModule] Paused")
}

// Hide 关闭暂停菜单并恢复游戏
func (m *PauseMenuModule) Hide() {
	if !m.active {
		return
	}
	m.active = false
	m.clock.SetTimeScale(1)
	m.audio.PauseDialogue(false)
	log.Printf("[PauseMenuModule] Resumed")
}

// Toggle 切换暂停状态
func (m *PauseMenuModule) Toggle() {
	if m.active {
		m.Hide()
	} else {
		m.Show()
	}
}

// IsActive 暂停菜单是否打开
func (m *PauseMenuModule) IsActive() bool {
	return m.active
}

// Selected 当前选中行的标签
func (m *PauseMenuModule) Selected() string {
	return pauseRows[m.selected].label
}

// HandleControls 处理菜单内的导航、音量调整与确认
func (m *PauseMenuModule) HandleControls(c utils.Controls) {
	if !m.active {
		return
	}
	switch {
	case c.Up:
		m.selected = (m.selected + len(pauseRows) - 1) % len(pauseRows)
	case c.Down:
		m.selected = (m.selected + 1) % len(pauseRows)
	case c.Left:
		m.adjust(-VolumeStep)
	case c.Right:
		m.adjust(VolumeStep)
	case c.Confirm:
		m.confirm()
	}
}

func (m *PauseMenuModule) adjust(delta float64) {
	row := pauseRows[m.selected]
	if !row.volume {
		return
	}
	// 四舍五入到 0.1,避免反复加减后出现 0.30000000000000004
	v := math.Round((m.audio.Volume(row.group)+delta)*10) / 10
	m.audio.SetVolume(row.group, v, true)
}

func (m *PauseMenuModule) confirm() {
	switch pauseRows[m.selected].label {
	case "Resume":
		m.Hide()
	case "Restart":
		m.Hide()
		if m.callbacks.OnRestart != nil {
			m.callbacks.OnRestart()
		}
	case "Main Menu":
		m.Hide()
		if m.callbacks.OnMainMenu != nil {
			m.callbacks.OnMainMenu()
		}
	}
}

// Draw 绘制暂停菜单
func (m *PauseMenuModule) Draw(screen *ebiten.Image) {
	if !m.active {
		return
	}
	var b strings.Builder
	b.WriteString("PAUSED\n\n")
	for i, row := range pauseRows {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		if !row.volume {
			fmt.Fprintf(&b, "%s%s\n", cursor, row.label)
			continue
		}
		fmt.Fprintf(&b, "%s%-9s %3.0f%%\n", cursor, row.label, m.audio.Volume(row.group)*100)
	}
	ebitenutil.DebugPrintAt(screen, b.String(), m.x, m.y)
}
