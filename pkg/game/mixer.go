package game

import (
	"github.com/decker502/zsurvive/pkg/types"
)

// mixerGroups 可调音量的混音分组
var mixerGroups = []types.AudioType{
	types.AudioMaster,
	types.AudioMusic,
	types.AudioAmbience,
	types.AudioDialogue,
	types.AudioSFX,
}

// snapshotFade 单个快照权重的淡入淡出状态
type snapshotFade struct {
	weight   float64
	from     float64
	target   float64
	elapsed  float64
	duration float64
}

func (f *snapshotFade) update(dt float64) {
	if f.weight == f.target {
		return
	}
	f.elapsed += dt
	if f.duration <= 0 || f.elapsed >= f.duration {
		f.weight = f.target
		return
	}
	f.weight = f.from + (f.target-f.from)*(f.elapsed/f.duration)
}

// Mixer 混音器
// 管理各分组的线性音量(0~1)以及两个音乐/环境音快照槽的权重。
// 所有时间都是非缩放时间。
type Mixer struct {
	volumes   map[types.AudioType]float64
	snapshots [2]snapshotFade
}

// NewMixer 创建所有分组音量为 1、快照 0 为当前快照的混音器
func NewMixer() *Mixer {
	m := &Mixer{volumes: make(map[types.AudioType]float64, len(mixerGroups))}
	for _, g := range mixerGroups {
		m.volumes[g] = 1
	}
	m.snapshots[0] = snapshotFade{weight: 1, target: 1}
	return m
}

// IsMixerGroup 是否为可调音量的分组
func IsMixerGroup(t types.AudioType) bool {
	for _, g := range mixerGroups {
		if g == t {
			return true
		}
	}
	return false
}

// SetVolume 设置分组音量(限制在 0~1)
// 返回: 分组是否存在
func (m *Mixer) SetVolume(group types.AudioType, volume float64) bool {
	if !IsMixerGroup(group) {
		return false
	}
	m.volumes[group] = clampVolume(volume)
	return true
}

// Volume 分组音量(非分组返回 0)
func (m *Mixer) Volume(group types.AudioType) float64 {
	return m.volumes[group]
}

// Gain 某类别最终增益 = 主音量 × 所属分组音量
func (m *Mixer) Gain(t types.AudioType) float64 {
	master := m.volumes[types.AudioMaster]
	group := t.MixerGroup()
	if group == types.AudioMaster {
		return master
	}
	return master * m.volumes[group]
}

// TransitionTo 切换到快照 slot
// 新快照权重从 0 在 duration 秒内升到 1,另一个快照立即归零
func (m *Mixer) TransitionTo(slot int, duration float64) {
	if slot < 0 || slot > 1 {
		return
	}
	other := 1 - slot
	m.snapshots[other] = snapshotFade{}
	m.snapshots[slot] = snapshotFade{from: 0, target: 1, duration: duration}
	if duration <= 0 {
		m.snapshots[slot].weight = 1
	}
}

// SnapshotWeight 快照槽当前权重
func (m *Mixer) SnapshotWeight(slot int) float64 {
	if slot < 0 || slot > 1 {
		return 1
	}
	return m.snapshots[slot].weight
}

// IsTransitioning 是否有快照在淡入
func (m *Mixer) IsTransitioning() bool {
	for i := range m.snapshots {
		if m.snapshots[i].weight != m.snapshots[i].target {
			return true
		}
	}
	return false
}

// Update 推进淡入淡出
// 参数: unscaledDelta - 真实时间增量(秒)
func (m *Mixer) Update(unscaledDelta float64) {
	for i := range m.snapshots {
		m.snapshots[i].update(unscaledDelta)
	}
}
