package systems

import (
	"log"

	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/decker502/zsurvive/pkg/game"
)

// CleanupHost 清理系统需要的音频管理器能力
// *game.AudioManager 实现了该接口
type CleanupHost interface {
	Holding() ecs.EntityID
	CleanupDelay() float64
	RearmWhilePlaying() bool
	NotifyDialogueEnd()
}

// SourceCleanupSystem 发声器延迟清理系统
//
// 每帧推进所有 SourceCleanupComponent 的状态机:
//
//	WaitingForDialogueEnd --对白播完--> FixedDelay --倒计时结束--> Done
//
// 倒计时使用非缩放时间;时间缩放为 0 时 FixedDelay 任务立即结束。
// 任务记录的 Generation 与发声器不一致时视为过期任务,直接丢弃。
type SourceCleanupSystem struct {
	entityManager *ecs.EntityManager
	pause         game.PauseSignal
	host          CleanupHost

	Verbose bool
}

// NewSourceCleanupSystem 创建清理系统
//
// 参数：
//   - em: 实体管理器
//   - pause: 全局时间缩放
//   - host: 收纳节点、延迟配置与对白结束通知
func NewSourceCleanupSystem(em *ecs.EntityManager, pause game.PauseSignal, host CleanupHost) *SourceCleanupSystem {
	return &SourceCleanupSystem{
		entityManager: em,
		pause:         pause,
		host:          host,
	}
}

// Update 推进所有清理任务
// 参数: unscaledDelta - 真实时间增量(秒)
func (s *SourceCleanupSystem) Update(unscaledDelta float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.SourceCleanupComponent](s.entityManager) {
		task, ok := ecs.GetComponent[*components.SourceCleanupComponent](s.entityManager, id)
		if !ok {
			continue
		}

		src, ok := ecs.GetComponent[*components.AudioSourceComponent](s.entityManager, id)
		if !ok {
			s.debugf("entity %d has no source, task dropped", id)
			ecs.RemoveComponent[*components.SourceCleanupComponent](s.entityManager, id)
			continue
		}

		if task.Generation != src.Generation {
			s.debugf("source %d: stale task (gen %d, current %d)", id, task.Generation, src.Generation)
			ecs.RemoveComponent[*components.SourceCleanupComponent](s.entityManager, id)
			continue
		}

		s.step(id, task, src, unscaledDelta)

		if task.State == components.CleanupDone {
			ecs.RemoveComponent[*components.SourceCleanupComponent](s.entityManager, id)
		}
	}
}

func (s *SourceCleanupSystem) step(id ecs.EntityID, task *components.SourceCleanupComponent, src *components.AudioSourceComponent, dt float64) {
	if task.State == components.CleanupWaitingForDialogueEnd {
		if src.Voice != nil && (src.Voice.IsPlaying() || src.Voice.Position() != 0) {
			return
		}
		task.State = components.CleanupFixedDelay
	}

	if task.State != components.CleanupFixedDelay {
		return
	}

	paused := s.pause != nil && s.pause.TimeScale() == 0
	if paused {
		s.Finalize(id, task)
		task.State = components.CleanupDone
		return
	}

	task.Remaining -= dt
	if task.Remaining > 0 {
		return
	}

	if src.Voice != nil && src.Voice.IsPlaying() {
		if s.host.RearmWhilePlaying() {
			task.Remaining = s.host.CleanupDelay()
			return
		}
		// 仍在播放:放弃清理,发声器保持占用直到下一次派发或清理
		s.debugf("source %d still playing after delay, left busy", id)
		task.State = components.CleanupDone
		return
	}

	s.Finalize(id, task)
	task.State = components.CleanupDone
}

// Finalize 把发声器恢复为空闲状态
// 对已经空闲的发声器重复调用是安全的;对白任务每次调用通知一次对白结束
func (s *SourceCleanupSystem) Finalize(id ecs.EntityID, task *components.SourceCleanupComponent) {
	src, ok := ecs.GetComponent[*components.AudioSourceComponent](s.entityManager, id)
	if !ok {
		return
	}

	src.SpatialBlend = 0
	src.Clip = nil
	if task.ResetParent {
		game.SetParent(s.entityManager, id, s.host.Holding())
	}
	game.DeactivateSource(src)

	if task.Dialogue {
		s.host.NotifyDialogueEnd()
	}
	s.debugf("source %d finalized", id)
}

func (s *SourceCleanupSystem) debugf(format string, args ...interface{}) {
	if s.Verbose {
		log.Printf("[SourceCleanup] "+format, args...)
	}
}
