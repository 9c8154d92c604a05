package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene 记录调用的场景
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	exited       int
	deltaTime    float64
}

func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

func (m *MockScene) OnExit() {
	m.exited++
}

// TestSceneManagerUpdate verifies that Update calls the current scene's Update method.
func TestSceneManagerUpdate(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	sm.Update(0.016)
	sm.Draw(nil)

	if !mockScene.updateCalled || mockScene.deltaTime != 0.016 {
		t.Errorf("Scene's Update was not called with deltaTime, got %+v", mockScene)
	}
	if !mockScene.drawCalled {
		t.Error("Scene's Draw method was not called")
	}
}

// TestSceneManagerNoScene verifies that Update and Draw handle a nil scene.
func TestSceneManagerNoScene(t *testing.T) {
	sm := NewSceneManager()
	sm.Update(0.016)
	sm.Draw(nil)
	if sm.GetCurrentScene() != nil {
		t.Error("Expected no current scene")
	}
}

// TestSceneManagerSwitchCallsOnExit 切换场景时旧场景收到 OnExit
func TestSceneManagerSwitchCallsOnExit(t *testing.T) {
	sm := NewSceneManager()
	scene1 := &MockScene{}
	scene2 := &MockScene{}

	sm.SwitchTo(scene1)
	sm.SwitchTo(scene1)
	if scene1.exited != 0 {
		t.Error("Switching to the same scene should not exit it")
	}

	sm.SwitchTo(scene2)
	if scene1.exited != 1 {
		t.Errorf("Expected scene1 to exit once, got %d", scene1.exited)
	}
	if sm.GetCurrentScene() != scene2 {
		t.Error("SwitchTo did not set the current scene")
	}
}

// TestSceneManagerLoadSceneDeferred LoadScene 在下一次 Update 开始时生效
func TestSceneManagerLoadSceneDeferred(t *testing.T) {
	sm := NewSceneManager()
	created := map[string]*MockScene{}
	sm.SetSceneFactory(func(name string) Scene {
		if name == "missing" {
			return nil
		}
		s := &MockScene{}
		created[name] = s
		return s
	})

	sm.LoadScene(SceneMenu)
	if sm.GetCurrentScene() != nil {
		t.Fatal("LoadScene should not switch immediately")
	}

	sm.Update(0.016)
	menu := created[SceneMenu]
	if menu == nil || sm.GetCurrentScene() != menu || !menu.updateCalled {
		t.Fatal("Menu scene should be created and updated")
	}
	if sm.CurrentName() != SceneMenu {
		t.Errorf("Expected current name %q, got %q", SceneMenu, sm.CurrentName())
	}

	sm.LoadScene("missing")
	sm.Update(0.016)
	if sm.GetCurrentScene() != menu {
		t.Error("Failed factory should keep the current scene")
	}

	sm.LoadScene(SceneGame)
	sm.Update(0.016)
	if menu.exited != 1 || sm.GetCurrentScene() != created[SceneGame] {
		t.Error("Game scene should replace the menu")
	}
}
