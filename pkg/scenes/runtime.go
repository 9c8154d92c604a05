// Package scenes 提供菜单与生存模式场景
//
// 所有场景共享同一个 Runtime:实体管理器、时钟、音频管理器以及每帧必须运行的音频系统。
// 场景之间切换时 Runtime 不重建,音源池和专用发声器在整个进程生命周期内保持存在。
package scenes

import (
	"log"
	"math/rand"

	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/decker502/zsurvive/pkg/game"
	"github.com/decker502/zsurvive/pkg/modules"
	"github.com/decker502/zsurvive/pkg/systems"
)

// 屏幕尺寸(逻辑像素)
const (
	ScreenWidth  = 960
	ScreenHeight = 540
)

// Runtime 场景共享的运行时
type Runtime struct {
	EntityManager *ecs.EntityManager
	Clock         *game.Clock
	Audio         *game.AudioManager
	Settings      *game.SettingsManager
	DialogueBox   *modules.DialogueBoxModule
	Dialogue      *systems.DialogueQueueSystem
	Rand          *rand.Rand

	// HighScore 本次运行的最高波次
	HighScore int

	transforms *systems.TransformSystem
	cleanup    *systems.SourceCleanupSystem
	spatial    *systems.SpatialAudioSystem
}

// NewRuntime 创建共享运行时
//
// 参数：
//   - em: 实体管理器(音频管理器使用的同一个)
//   - clock: 全局时钟
//   - am: 音频管理器
//   - settings: 偏好设置(可为 nil)
//   - box: 对白字幕框(音频管理器的对白监听器)
//   - rng: 随机源
func NewRuntime(em *ecs.EntityManager, clock *game.Clock, am *game.AudioManager, settings *game.SettingsManager, box *modules.DialogueBoxModule, rng *rand.Rand) *Runtime {
	rt := &Runtime{
		EntityManager: em,
		Clock:         clock,
		Audio:         am,
		Settings:      settings,
		DialogueBox:   box,
		Dialogue:      systems.NewDialogueQueueSystem(am, clock),
		Rand:          rng,
		cleanup:       systems.NewSourceCleanupSystem(em, clock, am),
		spatial:       systems.NewSpatialAudioSystem(em, am),
	}
	rt.transforms = systems.NewTransformSystem(em, rt.handleLostParent)
	rt.cleanup.Verbose = am.Verbose
	return rt
}

// advancer 需要手动推进播放时钟的后端(headless)
type advancer interface {
	Advance(dt float64)
}

// BeginFrame 推进时钟、混音器、字幕框与台词队列
// 参数: realDelta - 真实时间增量(秒)
// 返回: 本帧的缩放时间增量
func (rt *Runtime) BeginFrame(realDelta float64) float64 {
	if adv, ok := rt.Audio.Backend().(advancer); ok {
		adv.Advance(realDelta)
	}
	scaled := rt.Clock.Tick(realDelta)
	rt.Audio.Update(realDelta)
	rt.DialogueBox.Update(realDelta)
	rt.Dialogue.Update(realDelta)
	return scaled
}

// EndFrame 在场景逻辑之后运行:锚点跟随、延迟清理、空间音频,最后删除标记的实体
// 锚点跟随必须先于 RemoveMarkedEntities,挂在被销毁对象上的发声器才能被收回
func (rt *Runtime) EndFrame(realDelta float64) {
	rt.transforms.Update(realDelta)
	rt.cleanup.Update(realDelta)
	rt.spatial.Update(realDelta)
	rt.EntityManager.RemoveMarkedEntities()
}

// handleLostParent 父实体消失:发声器交还音源池,其余实体挂到世界根节点
func (rt *Runtime) handleLostParent(ids []ecs.EntityID) {
	for _, id := range ids {
		if ecs.HasComponent[*components.AudioSourceComponent](rt.EntityManager, id) {
			rt.Audio.ReturnSourceToHoldingArea(id)
			continue
		}
		game.SetParent(rt.EntityManager, id, 0)
	}
	if rt.Audio.Verbose {
		log.Printf("[Runtime] %d children lost their parent", len(ids))
	}
}

// IntroPlayed 开场对白是否播过
func (rt *Runtime) IntroPlayed() bool {
	return rt.Settings != nil && rt.Settings.IntroPlayed()
}

// MarkIntroPlayed 记录开场对白已播放并保存偏好设置
func (rt *Runtime) MarkIntroPlayed() {
	if rt.Settings == nil {
		return
	}
	rt.Settings.SetIntroPlayed(true)
	if err := rt.Settings.Save(); err != nil {
		log.Printf("[Runtime] Warning: failed to save settings: %v", err)
	}
}

// QueueLine 按ID把配置中的台词加入队列
func (rt *Runtime) QueueLine(id string) {
	line, ok := rt.Audio.Line(id)
	if !ok {
		log.Printf("[Runtime] Warning: dialogue line %q not configured", id)
		return
	}
	rt.Dialogue.Enqueue(line)
}
