// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import (
	"fmt"
	"strings"
)

// AudioType 声音类别
// 既表示播放请求的目标通道,也表示混音分组
type AudioType int

const (
	// AudioMaster 主音量(只作为混音分组)
	AudioMaster AudioType = iota
	// AudioMusic 背景音乐
	AudioMusic
	// AudioAmbience 环境音
	AudioAmbience
	// AudioDialogue 对白(专用通道)
	AudioDialogue
	// AudioSFX 普通音效(走音源池)
	AudioSFX
	// AudioFootsteps 脚步声(专用通道)
	AudioFootsteps
	// AudioWeapon 武器声(专用通道)
	AudioWeapon
	// AudioEnemy 敌人音效(走音源池)
	AudioEnemy
	// AudioNone 未分类(走音源池)
	AudioNone
)

var audioTypeNames = [...]string{
	AudioMaster:    "Master",
	AudioMusic:     "Music",
	AudioAmbience:  "Ambience",
	AudioDialogue:  "Dialogue",
	AudioSFX:       "SFX",
	AudioFootsteps: "Footsteps",
	AudioWeapon:    "Weapon",
	AudioEnemy:     "Enemy",
	AudioNone:      "None",
}

// String 返回类别名称
func (t AudioType) String() string {
	if t < 0 || int(t) >= len(audioTypeNames) {
		return fmt.Sprintf("AudioType(%d)", int(t))
	}
	return audioTypeNames[t]
}

// IsPooled 是否从音源池分配发声器
func (t AudioType) IsPooled() bool {
	return t == AudioSFX || t == AudioEnemy || t == AudioNone
}

// IsDedicated 是否使用预先分配的专用发声器
func (t AudioType) IsDedicated() bool {
	return t == AudioFootsteps || t == AudioWeapon || t == AudioDialogue
}

// MixerGroup 返回该类别所属的混音分组
// Footsteps/Weapon/Enemy/None 都归入 SFX
func (t AudioType) MixerGroup() AudioType {
	switch t {
	case AudioFootsteps, AudioWeapon, AudioEnemy, AudioNone:
		return AudioSFX
	}
	return t
}

// ParseAudioType 解析配置或命令行中的类别名(不区分大小写)
// 只在配置/CLI 边界使用,内部一律传枚举值
func ParseAudioType(name string) (AudioType, error) {
	for i, n := range audioTypeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return AudioType(i), nil
		}
	}
	return AudioNone, fmt.Errorf("unknown audio type %q", name)
}
