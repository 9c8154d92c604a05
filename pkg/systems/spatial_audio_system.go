package systems

import (
	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/decker502/zsurvive/pkg/game"
	"github.com/jakecoffman/cp"
)

// SpatialHost 空间音频系统需要的音频管理器能力
type SpatialHost interface {
	Mixer() *game.Mixer
	SpatialRange() (minDistance, maxDistance float64)
}

// SpatialAudioSystem 空间音频系统
// 每帧把混音器增益、快照权重、距离衰减和左右声像写入激活发声器的 Voice
type SpatialAudioSystem struct {
	entityManager *ecs.EntityManager
	host          SpatialHost
}

// NewSpatialAudioSystem 创建空间音频系统
func NewSpatialAudioSystem(em *ecs.EntityManager, host SpatialHost) *SpatialAudioSystem {
	return &SpatialAudioSystem{
		entityManager: em,
		host:          host,
	}
}

// Update 更新所有激活发声器的增益与声像
func (s *SpatialAudioSystem) Update(deltaTime float64) {
	mixer := s.host.Mixer()
	minDistance, maxDistance := s.host.SpatialRange()
	listener, hasListener := s.listenerPosition()

	for _, id := range ecs.GetEntitiesWith2[*components.AudioSourceComponent, *components.TransformComponent](s.entityManager) {
		src, _ := ecs.GetComponent[*components.AudioSourceComponent](s.entityManager, id)
		if !src.Active || src.Voice == nil {
			continue
		}
		tr, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

		gain := mixer.Gain(src.Group)
		if slot, ok := ecs.GetComponent[*components.SnapshotSlotComponent](s.entityManager, id); ok {
			gain *= mixer.SnapshotWeight(slot.Slot)
		}

		pan := 0.0
		if hasListener && src.SpatialBlend > 0 {
			delta := tr.Position.Sub(listener)
			rolloff := Rolloff(delta.Length(), minDistance, maxDistance)
			gain *= 1 + (rolloff-1)*src.SpatialBlend
			pan = src.SpatialBlend * cp.Clamp(delta.X/maxDistance, -1, 1)
		}

		src.Voice.SetGain(gain)
		src.Voice.SetPan(pan)
	}
}

// listenerPosition 第一个监听器实体的位置
func (s *SpatialAudioSystem) listenerPosition() (cp.Vector, bool) {
	ids := ecs.GetEntitiesWith2[*components.AudioListenerComponent, *components.TransformComponent](s.entityManager)
	if len(ids) == 0 {
		return cp.Vector{}, false
	}
	tr, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, ids[0])
	return tr.Position, true
}

// Rolloff 线性距离衰减
// minDistance 以内为 1,maxDistance 以外为 0,中间线性插值
func Rolloff(distance, minDistance, maxDistance float64) float64 {
	if distance <= minDistance {
		return 1
	}
	if distance >= maxDistance {
		return 0
	}
	return 1 - (distance-minDistance)/(maxDistance-minDistance)
}
