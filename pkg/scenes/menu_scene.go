package scenes

import (
	"fmt"
	"image/color"

	"github.com/decker502/zsurvive/pkg/game"
	"github.com/decker502/zsurvive/pkg/types"
	"github.com/decker502/zsurvive/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// MenuScene 主菜单
// 播放菜单音乐与环境音;Enter(或点击)进入生存模式
type MenuScene struct {
	rt           *Runtime
	sceneManager *game.SceneManager
}

// NewMenuScene 创建主菜单场景
func NewMenuScene(rt *Runtime, sm *game.SceneManager) *MenuScene {
	return &MenuScene{rt: rt, sceneManager: sm}
}

// Update 更新菜单
func (s *MenuScene) Update(deltaTime float64) {
	s.step(deltaTime, utils.ReadControls())
}

func (s *MenuScene) step(deltaTime float64, c utils.Controls) {
	s.rt.BeginFrame(deltaTime)
	if c.Confirm || c.Fire {
		s.sceneManager.LoadScene(game.SceneGame)
	}
	s.rt.EndFrame(deltaTime)
}

// Draw 绘制菜单
func (s *MenuScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 18, A: 255})
	am := s.rt.Audio
	text := fmt.Sprintf("Z SURVIVE\n\nPress Enter to start\n\nBest wave: %d\n\nmaster %.0f%%  music %.0f%%  sfx %.0f%%",
		s.rt.HighScore,
		am.Volume(types.AudioMaster)*100,
		am.Volume(types.AudioMusic)*100,
		am.Volume(types.AudioSFX)*100,
	)
	if utils.IsMobile() {
		text += "\n\nTap to start"
	}
	ebitenutil.DebugPrintAt(screen, text, ScreenWidth/2-80, ScreenHeight/3)
	s.rt.DialogueBox.Draw(screen)
}
