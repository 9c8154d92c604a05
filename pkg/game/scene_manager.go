package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 按名称创建场景,避免 game 包依赖具体场景实现
type SceneFactory func(name string) Scene

// SceneManager manages which scene is active.
// Only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	currentName  string
	sceneFactory SceneFactory
	pending      string // 下一帧开始前切换的场景
}

// NewSceneManager creates a SceneManager with no active scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene immediately.
// The previous scene gets OnExit if it implements Exiter.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if exiter, ok := sm.currentScene.(Exiter); ok && sm.currentScene != scene {
		exiter.OnExit()
	}
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景,没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentName 当前场景名称(通过 LoadScene 切换时记录)
func (sm *SceneManager) CurrentName() string {
	return sm.currentName
}

// LoadScene 请求切换到指定名称的场景
// 切换在下一次 Update 开始前执行,场景可以在自己的 Update 中安全调用
func (sm *SceneManager) LoadScene(name string) {
	sm.pending = name
}

func (sm *SceneManager) applyPending() {
	if sm.pending == "" {
		return
	}
	name := sm.pending
	sm.pending = ""

	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] 错误: SceneFactory 未设置")
		return
	}
	scene := sm.sceneFactory(name)
	if scene == nil {
		log.Printf("[SceneManager] 错误: 无法创建场景: %s", name)
		return
	}
	sm.SwitchTo(scene)
	sm.currentName = name
	log.Printf("[SceneManager] 切换到场景: %s", name)
}

// Update applies a pending scene switch, then updates the active scene.
func (sm *SceneManager) Update(deltaTime float64) {
	sm.applyPending()
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the active scene. Does nothing without one.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
