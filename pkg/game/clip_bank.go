package game

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/decker502/zsurvive/internal/audio"
	"github.com/decker502/zsurvive/pkg/config"
	"github.com/decker502/zsurvive/pkg/embedded"
	"github.com/patrickmn/go-cache"
)

// 音效库名称
const (
	BankZombieAttack = "zombieAttack"
	BankZombieDeath  = "zombieDeath"
	BankZombieNoise  = "zombieNoise"
	BankZombieSpawn  = "zombieSpawn"
	BankHealthPickup = "healthPickup"
	BankFootsteps    = "footsteps"
	BankRunning      = "running"
	BankWeapon       = "weapon"
	BankPlayerHit    = "playerHit"
)

// ClipSource 片段来源:文件路径或合成配方
type ClipSource struct {
	ID    string
	Path  string
	Synth *audio.SynthSpec
}

// ClipBank 音频片段注册表
// 片段按需解码(以后端采样率),解码结果放入 go-cache,可配置过期时间;
// 音效库把一个名字映射到一组片段,播放时随机选一个。
type ClipBank struct {
	sampleRate int
	sources    map[string]ClipSource
	banks      map[string][]string
	decoded    *cache.Cache
	ttl        time.Duration
	readFile   func(path string) ([]byte, error)
	rng        *rand.Rand
}

// NewClipBank 创建片段注册表
//
// 参数：
//   - sampleRate: 解码目标采样率
//   - ttl: 解码缓存过期时间(0 表示永不过期)
//   - rng: 随机源(nil 时使用当前时间作为种子)
//
// 返回：
//   - *ClipBank: 片段注册表实例
func NewClipBank(sampleRate int, ttl time.Duration, rng *rand.Rand) *ClipBank {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	b := &ClipBank{
		sampleRate: sampleRate,
		sources:    make(map[string]ClipSource),
		banks:      make(map[string][]string),
		readFile:   embedded.ReadFile,
		rng:        rng,
	}
	b.setTTL(ttl)
	return b
}

func (b *ClipBank) setTTL(ttl time.Duration) {
	b.ttl = ttl
	if ttl <= 0 {
		b.decoded = cache.New(cache.NoExpiration, 0)
		return
	}
	b.decoded = cache.New(ttl, 2*ttl)
}

// SetReader 替换文件读取函数(测试或外部资源目录)
func (b *ClipBank) SetReader(readFile func(path string) ([]byte, error)) {
	b.readFile = readFile
}

// SampleRate 解码目标采样率
func (b *ClipBank) SampleRate() int {
	return b.sampleRate
}

// Register 注册片段来源,同 ID 覆盖并使缓存失效
func (b *ClipBank) Register(src ClipSource) {
	b.sources[src.ID] = src
	b.decoded.Delete(src.ID)
}

// Add 直接注册已解码的片段(不会过期)
func (b *ClipBank) Add(clip *audio.Clip) {
	b.sources[clip.ID] = ClipSource{ID: clip.ID}
	b.decoded.Set(clip.ID, clip, cache.NoExpiration)
}

// SetBank 设置音效库成员
func (b *ClipBank) SetBank(name string, ids []string) {
	members := make([]string, len(ids))
	copy(members, ids)
	b.banks[name] = members
}

// Bank 音效库成员
func (b *ClipBank) Bank(name string) []string {
	return b.banks[name]
}

// Banks 所有音效库名称(排序)
func (b *ClipBank) Banks() []string {
	names := make([]string, 0, len(b.banks))
	for name := range b.banks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IDs 所有已注册片段ID(排序)
func (b *ClipBank) IDs() []string {
	ids := make([]string, 0, len(b.sources))
	for id := range b.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has 片段是否已注册
func (b *ClipBank) Has(id string) bool {
	_, ok := b.sources[id]
	return ok
}

// CachedCount 缓存中已解码的片段数
func (b *ClipBank) CachedCount() int {
	return b.decoded.ItemCount()
}

// Clip 获取解码后的片段
//
// 参数：
//   - id: 片段ID
//
// 返回：
//   - *audio.Clip: 解码后的片段
//   - error: 片段未注册或解码失败
func (b *ClipBank) Clip(id string) (*audio.Clip, error) {
	if cached, found := b.decoded.Get(id); found {
		return cached.(*audio.Clip), nil
	}

	src, ok := b.sources[id]
	if !ok {
		return nil, fmt.Errorf("clip %q not registered", id)
	}

	var clip *audio.Clip
	switch {
	case src.Synth != nil:
		clip = audio.Synthesize(id, *src.Synth, b.sampleRate)
	case src.Path != "":
		data, err := b.readFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read clip %s: %w", id, err)
		}
		clip, err = audio.DecodeClip(id, src.Path, data, b.sampleRate)
		if err != nil {
			return nil, fmt.Errorf("failed to decode clip %s: %w", id, err)
		}
	default:
		return nil, fmt.Errorf("clip %q has no source", id)
	}

	b.decoded.Set(id, clip, cache.DefaultExpiration)
	return clip, nil
}

// Random 从音效库随机选一个片段
// 音效库不存在或为空返回 nil(调用方静默忽略)
func (b *ClipBank) Random(bank string) *audio.Clip {
	members := b.banks[bank]
	if len(members) == 0 {
		return nil
	}
	id := members[b.rng.Intn(len(members))]
	clip, err := b.Clip(id)
	if err != nil {
		log.Printf("[ClipBank] Warning: %v", err)
		return nil
	}
	return clip
}

// Preload 解码所有已注册片段
// 返回: 第一个失败的错误(其余片段仍会尝试)
func (b *ClipBank) Preload() error {
	var firstErr error
	for _, id := range b.IDs() {
		if _, err := b.Clip(id); err != nil {
			log.Printf("[ClipBank] Warning: preload failed: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// LoadConfig 用配置替换全部片段与音效库
func (b *ClipBank) LoadConfig(cfg *config.AudioConfig) error {
	sources := make(map[string]ClipSource, len(cfg.Clips))
	for _, c := range cfg.Clips {
		src := ClipSource{ID: c.ID, Path: c.Path}
		if c.Synth != nil {
			spec, err := c.Synth.Spec()
			if err != nil {
				return fmt.Errorf("clip %s: %w", c.ID, err)
			}
			src.Synth = &spec
		}
		sources[c.ID] = src
	}

	b.sources = sources
	b.banks = make(map[string][]string, len(cfg.Banks))
	for name, ids := range cfg.Banks {
		b.SetBank(name, ids)
	}
	b.setTTL(time.Duration(cfg.Cache.TTLSeconds * float64(time.Second)))
	log.Printf("[ClipBank] Loaded %d clips, %d banks", len(b.sources), len(b.banks))
	return nil
}
