package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/decker502/zsurvive/internal/audio"
	"github.com/decker502/zsurvive/pkg/embedded"
	"github.com/decker502/zsurvive/pkg/types"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid audio config")

// DefaultAudioConfigPath 内置音频配置路径
const DefaultAudioConfigPath = "data/config/audio.yaml"

// 默认值
const (
	DefaultMinSources         = 1
	DefaultCleanupDelay       = 0.5
	DefaultPitchMin           = 0.1
	DefaultPitchMax           = 3.0
	DefaultMinDistance        = 50.0
	DefaultMaxDistance        = 600.0
	DefaultSampleRate         = 48000
	DefaultSnapshotTransition = 1.0
)

// AudioConfig 音频运行时配置文件结构
type AudioConfig struct {
	Pool     PoolConfig          `yaml:"pool"`
	Pitch    PitchConfig         `yaml:"pitch"`
	Spatial  SpatialConfig       `yaml:"spatial"`
	Mixer    MixerConfig         `yaml:"mixer"`
	Cache    CacheConfig         `yaml:"cache"`
	Clips    []ClipConfig        `yaml:"clips"`
	Banks    map[string][]string `yaml:"banks"`  // 音效库名 -> 片段ID列表
	Scenes   ScenesConfig        `yaml:"scenes"` // 菜单/游戏内的音乐与环境音
	Dialogue []DialogueConfig    `yaml:"dialogue"`
}

// PoolConfig 音源池配置
type PoolConfig struct {
	MinSources        int     `yaml:"minSources"`        // 启动时预创建的发声器数量
	CleanupDelay      float64 `yaml:"cleanupDelay"`      // 清理固定延迟(秒,非缩放时间)
	RearmWhilePlaying bool    `yaml:"rearmWhilePlaying"` // 倒计时结束仍在播放时重新计时,而不是放弃清理
}

// PitchConfig 随机音调范围
type PitchConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// SpatialConfig 空间音频衰减距离(世界坐标单位)
type SpatialConfig struct {
	MinDistance float64 `yaml:"minDistance"` // 此距离内不衰减
	MaxDistance float64 `yaml:"maxDistance"` // 此距离外静音
}

// MixerConfig 混音器配置
type MixerConfig struct {
	SampleRate         int                `yaml:"sampleRate"`
	SnapshotTransition float64            `yaml:"snapshotTransition"` // 快照切换淡入时长(秒)
	Defaults           map[string]float64 `yaml:"defaults"`           // 分组名 -> 默认音量(0~1)
}

// CacheConfig 解码缓存配置
type CacheConfig struct {
	TTLSeconds float64 `yaml:"ttlSeconds"` // 0 表示永不过期
}

// ClipConfig 音频片段来源:文件路径或合成配方二选一
type ClipConfig struct {
	ID    string       `yaml:"id"`
	Path  string       `yaml:"path,omitempty"`
	Synth *SynthConfig `yaml:"synth,omitempty"`
}

// SynthConfig 程序化合成配方
type SynthConfig struct {
	Wave     string  `yaml:"wave"` // sine | square | saw | noise
	Freq     float64 `yaml:"freq"`
	FreqEnd  float64 `yaml:"freqEnd,omitempty"`
	Duration float64 `yaml:"duration"`
	Attack   float64 `yaml:"attack,omitempty"`
	Release  float64 `yaml:"release,omitempty"`
	Gain     float64 `yaml:"gain,omitempty"`
	Seed     int64   `yaml:"seed,omitempty"`
}

// ScenesConfig 场景音频集合
type ScenesConfig struct {
	Menu   SceneAudioConfig `yaml:"menu"`
	InGame SceneAudioConfig `yaml:"inGame"`
}

// SceneAudioConfig 一组音乐 + 环境音
type SceneAudioConfig struct {
	Music    string `yaml:"music"`
	Ambience string `yaml:"ambience"`
}

// DialogueConfig 对白台词
type DialogueConfig struct {
	ID         string `yaml:"id"`
	Actor      string `yaml:"actor"` // radio | voices
	Transcript string `yaml:"transcript"`
	Clip       string `yaml:"clip"`
}

// LoadAudioConfig 从 YAML 文件加载音频配置
// 参数：
//
//	filepath - 配置文件路径("data/" 开头读取嵌入资源,否则读取磁盘文件)
//
// 返回：
//
//	*AudioConfig - 应用默认值并通过校验的配置
//	error - 读取、解析或校验失败时返回错误
func LoadAudioConfig(filepath string) (*AudioConfig, error) {
	data, err := embedded.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio config file %s: %w", filepath, err)
	}

	config, err := ParseAudioConfig(data)
	if err != nil {
		return nil, fmt.Errorf("audio config %s: %w", filepath, err)
	}
	return config, nil
}

// ParseAudioConfig 解析 YAML 内容、应用默认值并校验
func ParseAudioConfig(data []byte) (*AudioConfig, error) {
	var config AudioConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config.applyDefaults()

	if err := validateAudioConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// DefaultAudioConfig 返回不含任何片段的默认配置
func DefaultAudioConfig() *AudioConfig {
	config := &AudioConfig{}
	config.applyDefaults()
	return config
}

func (c *AudioConfig) applyDefaults() {
	if c.Pool.MinSources == 0 {
		c.Pool.MinSources = DefaultMinSources
	}
	if c.Pool.CleanupDelay == 0 {
		c.Pool.CleanupDelay = DefaultCleanupDelay
	}
	if c.Pitch.Min == 0 && c.Pitch.Max == 0 {
		c.Pitch.Min, c.Pitch.Max = DefaultPitchMin, DefaultPitchMax
	}
	if c.Spatial.MinDistance == 0 && c.Spatial.MaxDistance == 0 {
		c.Spatial.MinDistance, c.Spatial.MaxDistance = DefaultMinDistance, DefaultMaxDistance
	}
	if c.Mixer.SampleRate == 0 {
		c.Mixer.SampleRate = DefaultSampleRate
	}
	if c.Mixer.SnapshotTransition == 0 {
		c.Mixer.SnapshotTransition = DefaultSnapshotTransition
	}
	if c.Banks == nil {
		c.Banks = make(map[string][]string)
	}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// validateAudioConfig 验证配置的完整性和合法性
func validateAudioConfig(c *AudioConfig) error {
	if c.Pool.MinSources < 0 {
		return invalid("pool.minSources cannot be negative, got %d", c.Pool.MinSources)
	}
	if c.Pool.CleanupDelay < 0 {
		return invalid("pool.cleanupDelay cannot be negative, got %v", c.Pool.CleanupDelay)
	}
	if c.Pitch.Min <= 0 || c.Pitch.Max < c.Pitch.Min {
		return invalid("pitch range must satisfy 0 < min <= max, got [%v, %v]", c.Pitch.Min, c.Pitch.Max)
	}
	if c.Spatial.MinDistance < 0 || c.Spatial.MaxDistance <= c.Spatial.MinDistance {
		return invalid("spatial range must satisfy 0 <= minDistance < maxDistance, got [%v, %v]",
			c.Spatial.MinDistance, c.Spatial.MaxDistance)
	}
	if c.Mixer.SampleRate < 8000 || c.Mixer.SampleRate > 192000 {
		return invalid("mixer.sampleRate out of range: %d", c.Mixer.SampleRate)
	}
	if c.Mixer.SnapshotTransition < 0 {
		return invalid("mixer.snapshotTransition cannot be negative, got %v", c.Mixer.SnapshotTransition)
	}
	if c.Cache.TTLSeconds < 0 {
		return invalid("cache.ttlSeconds cannot be negative, got %v", c.Cache.TTLSeconds)
	}

	for name, volume := range c.Mixer.Defaults {
		if _, err := ParseMixerGroup(name); err != nil {
			return invalid("mixer.defaults: %v", err)
		}
		if volume < 0 || volume > 1 {
			return invalid("mixer.defaults.%s must be within [0, 1], got %v", name, volume)
		}
	}

	ids := make(map[string]bool, len(c.Clips))
	for i, clip := range c.Clips {
		if clip.ID == "" {
			return invalid("clips[%d]: id is required", i)
		}
		if ids[clip.ID] {
			return invalid("clips[%d]: duplicate id %q", i, clip.ID)
		}
		ids[clip.ID] = true

		if (clip.Path == "") == (clip.Synth == nil) {
			return invalid("clip %s: exactly one of path or synth is required", clip.ID)
		}
		if clip.Synth != nil {
			if _, err := clip.Synth.Spec(); err != nil {
				return invalid("clip %s: %v", clip.ID, err)
			}
		}
	}

	for bank, members := range c.Banks {
		if len(members) == 0 {
			return invalid("bank %s is empty", bank)
		}
		for _, id := range members {
			if !ids[id] {
				return invalid("bank %s references unknown clip %q", bank, id)
			}
		}
	}

	for scene, set := range map[string]SceneAudioConfig{"menu": c.Scenes.Menu, "inGame": c.Scenes.InGame} {
		for _, id := range []string{set.Music, set.Ambience} {
			if id != "" && !ids[id] {
				return invalid("scenes.%s references unknown clip %q", scene, id)
			}
		}
	}

	lines := make(map[string]bool, len(c.Dialogue))
	for i, line := range c.Dialogue {
		if line.ID == "" {
			return invalid("dialogue[%d]: id is required", i)
		}
		if lines[line.ID] {
			return invalid("dialogue[%d]: duplicate id %q", i, line.ID)
		}
		lines[line.ID] = true
		if a := strings.ToLower(line.Actor); a != "radio" && a != "voices" {
			return invalid("dialogue %s: actor must be radio or voices, got %q", line.ID, line.Actor)
		}
		if !ids[line.Clip] {
			return invalid("dialogue %s references unknown clip %q", line.ID, line.Clip)
		}
	}

	return nil
}

// ParseMixerGroup 解析混音分组名,只接受 Master/Music/Ambience/Dialogue/SFX
func ParseMixerGroup(name string) (types.AudioType, error) {
	t, err := types.ParseAudioType(name)
	if err != nil {
		return t, err
	}
	switch t {
	case types.AudioMaster, types.AudioMusic, types.AudioAmbience, types.AudioDialogue, types.AudioSFX:
		return t, nil
	}
	return t, fmt.Errorf("%s is not a mixer group", t)
}

// Spec 转换为合成器参数
func (s *SynthConfig) Spec() (audio.SynthSpec, error) {
	wave, err := audio.ParseWaveType(s.Wave)
	if err != nil {
		return audio.SynthSpec{}, err
	}
	if s.Duration <= 0 {
		return audio.SynthSpec{}, fmt.Errorf("synth duration must be positive, got %v", s.Duration)
	}
	if s.Freq < 0 || s.FreqEnd < 0 {
		return audio.SynthSpec{}, fmt.Errorf("synth frequency cannot be negative")
	}
	return audio.SynthSpec{
		Wave:     wave,
		Freq:     s.Freq,
		FreqEnd:  s.FreqEnd,
		Duration: s.Duration,
		Attack:   s.Attack,
		Release:  s.Release,
		Gain:     s.Gain,
		Seed:     s.Seed,
	}, nil
}

// ClipByID 查找片段配置
func (c *AudioConfig) ClipByID(id string) (*ClipConfig, bool) {
	for i := range c.Clips {
		if c.Clips[i].ID == id {
			return &c.Clips[i], true
		}
	}
	return nil, false
}

// DialogueByID 查找对白配置
func (c *AudioConfig) DialogueByID(id string) (*DialogueConfig, bool) {
	for i := range c.Dialogue {
		if c.Dialogue[i].ID == id {
			return &c.Dialogue[i], true
		}
	}
	return nil, false
}
