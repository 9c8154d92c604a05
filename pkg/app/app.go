// Package app 提供游戏应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 所有协作者(后端、片段库、偏好设置、音频管理器)在 NewApp 中创建一次并注入,
// 退出时由 Close 统一释放。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/decker502/zsurvive/internal/audio"
	"github.com/decker502/zsurvive/pkg/config"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/decker502/zsurvive/pkg/embedded"
	"github.com/decker502/zsurvive/pkg/game"
	"github.com/decker502/zsurvive/pkg/modules"
	"github.com/decker502/zsurvive/pkg/scenes"
	"github.com/decker502/zsurvive/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 后端名称
const (
	BackendEbiten   = "ebiten"
	BackendBeep     = "beep"
	BackendHeadless = "headless"
)

// DefaultConfigPath 内置音频配置
const DefaultConfigPath = "data/config/audio.yaml"

// AppName 存档目录名
const AppName = "zsurvive"

// beepBuffer speaker 缓冲时长
const beepBuffer = 100 * time.Millisecond

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出(包括静默忽略的播放请求)
	Verbose bool
	// ConfigPath 音频配置路径,为空时使用内置配置;磁盘上的文件会被监听并热重载
	ConfigPath string
	// Backend 音频后端: ebiten | beep | headless,为空时使用 ebiten
	Backend string
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	runtime      *scenes.Runtime
	audio        *game.AudioManager
	watcher      *config.ConfigWatcher
	configPath   string
	verbose      bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
	closed                   bool
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	audioConfig, err := config.LoadAudioConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("音频配置加载失败: %w", err)
	}
	log.Printf("[Config] Loaded audio config %s (%d clips, %d banks)", configPath, len(audioConfig.Clips), len(audioConfig.Banks))

	backend := OpenBackend(cfg.Backend, audioConfig.Mixer.SampleRate)
	log.Printf("[App] Audio backend: %s @ %d Hz", backend.Name(), backend.SampleRate())

	store, err := utils.OpenStore(AppName)
	if err != nil {
		log.Printf("[App] Warning: preferences will not be saved: %v", err)
	}
	settings := game.NewSettingsManager(store, game.SettingsDefaults(audioConfig))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	em := ecs.NewEntityManager()
	clock := game.NewClock()
	box := modules.NewDialogueBoxModule(16, scenes.ScreenHeight-48)

	clips := game.NewClipBank(backend.SampleRate(), time.Duration(audioConfig.Cache.TTLSeconds*float64(time.Second)), rng)
	am := game.NewAudioManager(game.AudioManagerOptions{
		EntityManager: em,
		Backend:       backend,
		Clips:         clips,
		Settings:      settings,
		Listener:      box,
		Config:        audioConfig,
		Rand:          rng,
		Verbose:       cfg.Verbose,
	})
	am.Init()
	log.Printf("[App] AudioManager initialized (%d pooled sources)", am.Pool().Size())

	rt := scenes.NewRuntime(em, clock, am, settings, box, rng)

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(name string) game.Scene {
		switch name {
		case game.SceneMenu:
			return scenes.NewMenuScene(rt, sceneManager)
		case game.SceneGame:
			return scenes.NewGameScene(rt, sceneManager)
		}
		return nil
	})
	sceneManager.SwitchTo(scenes.NewMenuScene(rt, sceneManager))

	a := &App{
		sceneManager: sceneManager,
		runtime:      rt,
		audio:        am,
		configPath:   configPath,
		verbose:      cfg.Verbose,
	}

	// 只监听磁盘上的配置文件,内置配置不会变化
	if cfg.ConfigPath != "" && !embedded.IsEmbeddedPath(cfg.ConfigPath) {
		watcher, err := config.NewConfigWatcher(filepath.Dir(cfg.ConfigPath))
		if err != nil {
			log.Printf("[Config] Warning: hot reload disabled: %v", err)
		} else {
			a.watcher = watcher
			log.Printf("[Config] Watching %s", cfg.ConfigPath)
		}
	}

	return a, nil
}

// OpenBackend 按名称创建音频后端,失败时降级为 headless
//
// 参数：
//   - name: ebiten | beep | headless(为空时使用 ebiten)
//   - sampleRate: 采样率
//
// 返回：
//   - audio.Backend: 可用的后端,永不为 nil
func OpenBackend(name string, sampleRate int) audio.Backend {
	switch name {
	case "", BackendEbiten:
		if ctx := ebaudio.CurrentContext(); ctx != nil {
			return audio.NewEbitenBackend(ctx)
		}
		return audio.NewEbitenBackend(ebaudio.NewContext(sampleRate))
	case BackendBeep:
		b, err := audio.NewBeepBackend(sampleRate, beepBuffer)
		if err != nil {
			log.Printf("[App] Warning: beep backend unavailable, falling back to headless: %v", err)
			return audio.NewHeadlessBackend(sampleRate)
		}
		return b
	case BackendHeadless:
		return audio.NewHeadlessBackend(sampleRate)
	}
	log.Printf("[App] Warning: unknown audio backend %q, using headless", name)
	return audio.NewHeadlessBackend(sampleRate)
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.Close()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(scenes.ScreenWidth, scenes.ScreenHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.pollConfig()

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// pollConfig 配置文件变化时重新加载并应用
func (a *App) pollConfig() {
	if a.watcher == nil {
		return
	}
	changed := false
	for _, name := range a.watcher.Poll() {
		if filepath.Base(name) == filepath.Base(a.configPath) {
			changed = true
		}
	}
	if !changed {
		return
	}
	if err := a.ReloadConfig(); err != nil {
		log.Printf("[Config] Warning: reload failed, keeping previous config: %v", err)
	}
}

// ReloadConfig 重新读取音频配置并应用到音频管理器
func (a *App) ReloadConfig() error {
	cfg, err := config.LoadAudioConfig(a.configPath)
	if err != nil {
		return err
	}
	a.audio.ApplyConfig(cfg)
	log.Printf("[Config] Reloaded %s", a.configPath)
	return nil
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return scenes.ScreenWidth, scenes.ScreenHeight
}

// Close 保存偏好设置并释放音频资源,可重复调用
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true

	if s, ok := a.sceneManager.GetCurrentScene().(game.Saveable); ok {
		s.SaveOnExit()
	} else if a.runtime.Settings != nil {
		if err := a.runtime.Settings.Save(); err != nil {
			log.Printf("[App] Warning: failed to save settings: %v", err)
		}
	}
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			log.Printf("[Config] Warning: failed to close watcher: %v", err)
		}
	}
	if err := a.audio.Close(); err != nil {
		log.Printf("[App] Warning: failed to close audio: %v", err)
	}
	log.Printf("[App] Closed")
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// Runtime 场景共享运行时
func (a *App) Runtime() *scenes.Runtime {
	return a.runtime
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
