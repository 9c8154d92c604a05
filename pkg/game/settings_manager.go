package game

import (
	"fmt"
	"log"

	"github.com/decker502/zsurvive/pkg/types"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// AudioSettings 音频偏好设置
// 音量均为线性值 0.0 ~ 1.0
type AudioSettings struct {
	MasterVolume   float64 `yaml:"masterVolume"`
	MusicVolume    float64 `yaml:"musicVolume"`
	AmbienceVolume float64 `yaml:"ambienceVolume"`
	DialogueVolume float64 `yaml:"dialogueVolume"`
	SFXVolume      float64 `yaml:"sfxVolume"`

	// IntroPlayed 开场无线电对白是否已经播放过(每个存档只播一次)
	IntroPlayed bool `yaml:"introPlayed"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *AudioSettings {
	return &AudioSettings{
		MasterVolume:   1.0,
		MusicVolume:    0.6,
		AmbienceVolume: 0.7,
		DialogueVolume: 1.0,
		SFXVolume:      0.8,
		IntroPlayed:    false,
	}
}

// SettingsManager 设置管理器
// 负责音频偏好的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *AudioSettings // 当前设置
	defaults     AudioSettings  // Reset 恢复的值
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "audio"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//   - defaults: 默认设置，nil 时使用 DefaultSettings()
//
// 返回：
//   - *SettingsManager: 设置管理器实例
func NewSettingsManager(gdataManager *gdata.Manager, defaults *AudioSettings) *SettingsManager {
	if defaults == nil {
		defaults = DefaultSettings()
	}
	sm := &SettingsManager{
		gdataManager: gdataManager,
		defaults:     *defaults,
	}
	sm.settings = sm.defaultCopy()

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

func (sm *SettingsManager) defaultCopy() *AudioSettings {
	s := sm.defaults
	return &s
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = sm.defaultCopy()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = sm.defaultCopy()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = sm.defaultCopy()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 先填默认值，缺失字段保持默认
	loaded := sm.defaultCopy()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = sm.defaultCopy()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.clamp()

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
//
// 返回：
//   - error: 如果序列化或保存失败返回错误
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// Reset 恢复默认设置并保存
func (sm *SettingsManager) Reset() error {
	log.Printf("[SettingsManager] Resetting all preferences")
	sm.settings = sm.defaultCopy()
	return sm.Save()
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *AudioSettings {
	return sm.settings
}

// Volume 获取分组音量
// 非混音分组返回 0
func (sm *SettingsManager) Volume(group types.AudioType) float64 {
	if p := sm.settings.volumeField(group); p != nil {
		return *p
	}
	return 0
}

// SetVolume 设置分组音量
//
// 音量值会被限制在 0.0 ~ 1.0 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
//
// 返回：
//   - bool: 分组是否存在
func (sm *SettingsManager) SetVolume(group types.AudioType, volume float64) bool {
	p := sm.settings.volumeField(group)
	if p == nil {
		return false
	}
	*p = clampVolume(volume)
	return true
}

// IntroPlayed 开场对白是否已播放
func (sm *SettingsManager) IntroPlayed() bool {
	return sm.settings.IntroPlayed
}

// SetIntroPlayed 标记开场对白已播放
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetIntroPlayed(played bool) {
	sm.settings.IntroPlayed = played
}

func (s *AudioSettings) volumeField(group types.AudioType) *float64 {
	switch group {
	case types.AudioMaster:
		return &s.MasterVolume
	case types.AudioMusic:
		return &s.MusicVolume
	case types.AudioAmbience:
		return &s.AmbienceVolume
	case types.AudioDialogue:
		return &s.DialogueVolume
	case types.AudioSFX:
		return &s.SFXVolume
	}
	return nil
}

func (s *AudioSettings) clamp() {
	for _, g := range mixerGroups {
		p := s.volumeField(g)
		*p = clampVolume(*p)
	}
}

// clampVolume 将音量值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
