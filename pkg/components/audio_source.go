package components

import (
	"github.com/decker502/zsurvive/internal/audio"
	"github.com/decker502/zsurvive/pkg/types"
)

// AudioSourceComponent 发声器(音源)
// 一个实体 = 一个可播放单元,位置与父锚点存放在同实体的 TransformComponent 中
//
// 状态约束:
//   - 空闲: Active == false 且 Clip == nil
//   - 占用: Active == true 且 Clip != nil
type AudioSourceComponent struct {
	Clip         *audio.Clip     // 当前音频片段(nil 表示无)
	Pitch        float64         // 音调,默认 1.0
	SpatialBlend float64         // 0=非定位(2D), 1=完全定位(3D)
	Active       bool            // 是否激活
	PlayOnAwake  bool            // 激活时自动开始播放
	Loop         bool            // 循环播放
	Group        types.AudioType // 混音分组

	// IgnoreListenerPause 为 true 时不受监听器暂停影响(暂停菜单下的音乐/环境音)
	IgnoreListenerPause bool
	// Pooled 标记该发声器属于音源池
	Pooled bool
	// Generation 每次派发递增,清理任务据此识别过期任务
	Generation uint64

	// Voice 后端播放通道,由工厂创建,发声器存在期间不更换
	Voice audio.Voice
}

// IsFree 是否处于空闲状态
func (s *AudioSourceComponent) IsFree() bool {
	return !s.Active && s.Clip == nil
}

// IsBusy 是否处于占用状态
func (s *AudioSourceComponent) IsBusy() bool {
	return s.Active && s.Clip != nil
}
