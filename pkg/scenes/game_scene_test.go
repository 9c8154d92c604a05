package scenes

import (
	"testing"

	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/decker502/zsurvive/pkg/entities"
	"github.com/decker502/zsurvive/pkg/game"
	"github.com/decker502/zsurvive/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
)

type stubScene struct{ updates int }

func (s *stubScene) Update(deltaTime float64) { s.updates++ }
func (s *stubScene) Draw(screen *ebiten.Image) {}

func (r *sceneRig) player(s *GameScene) (*components.TransformComponent, *components.PlayerComponent) {
	tr, _ := ecs.GetComponent[*components.TransformComponent](r.rt.EntityManager, s.Player())
	p, _ := ecs.GetComponent[*components.PlayerComponent](r.rt.EntityManager, s.Player())
	return tr, p
}

func TestNewGameScene_QueuesIntroOnce(t *testing.T) {
	r := newSceneRig(t)
	s := NewGameScene(r.rt, r.sm)

	if s.State().Wave != 1 {
		t.Errorf("Expected wave 1, got %d", s.State().Wave)
	}
	if !r.rt.IntroPlayed() {
		t.Error("Expected intro to be marked as played")
	}
	if r.rt.Dialogue.Len() != 1 {
		t.Fatalf("Expected intro queued, got %d lines", r.rt.Dialogue.Len())
	}
	if r.rt.Audio.CurrentSnapshot() != 1 {
		t.Errorf("Expected in-game snapshot 1, got %d", r.rt.Audio.CurrentSnapshot())
	}

	s.step(0.25, utils.Controls{})
	if !r.rt.DialogueBox.Visible() || r.rt.DialogueBox.Line().ID != LineIntro {
		t.Error("Expected intro transcript to be shown")
	}

	s.OnExit()
	r.rt.EntityManager.RemoveMarkedEntities()
	r.rt.Dialogue.Clear()

	NewGameScene(r.rt, r.sm)
	if r.rt.Dialogue.Len() != 0 {
		t.Errorf("Expected intro to be skipped the second time, got %d lines", r.rt.Dialogue.Len())
	}
}

func TestGameScene_SpawnsWaveAfterDelay(t *testing.T) {
	r := newSceneRig(t)
	s := NewGameScene(r.rt, r.sm)

	for i := 0; i < 19; i++ {
		s.step(0.25, utils.Controls{})
	}
	if n := len(r.zombies()); n != 0 {
		t.Fatalf("Expected no zombies before the wave delay, got %d", n)
	}

	s.step(0.25, utils.Controls{})
	want := game.WaveSize(1, game.DefaultStartingWaveAmount)
	if n := len(r.zombies()); n != want {
		t.Errorf("Expected %d zombies, got %d", want, n)
	}
	if s.State().Alive() != want {
		t.Errorf("Expected %d alive, got %d", want, s.State().Alive())
	}
}

func TestGameScene_PauseStopsScaledTime(t *testing.T) {
	r := newSceneRig(t)
	s := NewGameScene(r.rt, r.sm)

	s.step(0.25, utils.Controls{Pause: true})
	if r.rt.Clock.TimeScale() != 0 {
		t.Fatalf("Expected time scale 0 while paused, got %v", r.rt.Clock.TimeScale())
	}
	before := r.rt.Clock.Time()
	for i := 0; i < 40; i++ {
		s.step(0.25, utils.Controls{})
	}
	if r.rt.Clock.Time() != before {
		t.Error("Expected scaled time to stand still while paused")
	}
	if len(r.zombies()) != 0 {
		t.Error("Expected no wave to spawn while paused")
	}

	s.step(0.25, utils.Controls{Pause: true})
	if r.rt.Clock.TimeScale() != 1 {
		t.Errorf("Expected time scale 1 after resume, got %v", r.rt.Clock.TimeScale())
	}
}

func TestGameScene_FireKillsNearestZombie(t *testing.T) {
	r := newSceneRig(t)
	s := NewGameScene(r.rt, r.sm)
	tr, _ := r.player(s)

	near, err := entities.NewZombieEntity(r.rt.EntityManager, s.Space(), tr.Position.Add(cp.Vector{X: 100}), entities.ZombieSpeed)
	if err != nil {
		t.Fatalf("NewZombieEntity failed: %v", err)
	}
	far, err := entities.NewZombieEntity(r.rt.EntityManager, s.Space(), tr.Position.Add(cp.Vector{X: -210}), entities.ZombieSpeed)
	if err != nil {
		t.Fatalf("NewZombieEntity failed: %v", err)
	}

	for i := 0; i < entities.ZombieHealth; i++ {
		s.step(0.25, utils.Controls{Fire: true})
	}

	if r.rt.EntityManager.Exists(near) {
		t.Error("Expected nearest zombie to be destroyed")
	}
	farZombie, ok := ecs.GetComponent[*components.ZombieComponent](r.rt.EntityManager, far)
	if !ok || farZombie.Health != entities.ZombieHealth {
		t.Error("Expected the farther zombie to be untouched")
	}
}

func TestGameScene_PickupHealsPlayer(t *testing.T) {
	r := newSceneRig(t)
	s := NewGameScene(r.rt, r.sm)
	tr, p := r.player(s)
	p.Health = 5

	pickup, err := entities.NewHealthPickupEntity(r.rt.EntityManager, tr.Position, int(PickupAmount))
	if err != nil {
		t.Fatalf("NewHealthPickupEntity failed: %v", err)
	}
	s.step(0.25, utils.Controls{})

	if p.Health != 5+PickupAmount {
		t.Errorf("Expected health %v, got %v", 5+PickupAmount, p.Health)
	}
	if r.rt.EntityManager.Exists(pickup) {
		t.Error("Expected pickup to be destroyed")
	}

	// 拾取音效挂在血包上,血包销毁后回到收纳节点并继续播放
	busy := 0
	for _, id := range r.rt.Audio.Pool().Sources() {
		src, _ := ecs.GetComponent[*components.AudioSourceComponent](r.rt.EntityManager, id)
		str, _ := ecs.GetComponent[*components.TransformComponent](r.rt.EntityManager, id)
		if src.IsBusy() && str.Parent == r.rt.Audio.Holding() {
			busy++
		}
	}
	if busy == 0 {
		t.Error("Expected the pickup sound to survive in the holding area")
	}
}

func TestGameScene_PlayerDeathAndRestart(t *testing.T) {
	r := newSceneRig(t)
	s := NewGameScene(r.rt, r.sm)
	_, p := r.player(s)
	p.Health = ZombieDamage

	s.onZombieAttack(0, s.Player())
	if !s.IsDead() {
		t.Fatal("Expected player to be dead")
	}
	if r.rt.HighScore != 1 {
		t.Errorf("Expected high score 1, got %d", r.rt.HighScore)
	}
	if r.rt.Dialogue.Len() != 1 {
		t.Errorf("Expected only player_down queued, got %d lines", r.rt.Dialogue.Len())
	}

	// 死亡后不能打开暂停菜单
	s.step(0.25, utils.Controls{Pause: true})
	if r.rt.Clock.TimeScale() != 1 {
		t.Error("Expected pause to be ignored after death")
	}

	s.step(0.25, utils.Controls{Confirm: true})
	if s.IsDead() {
		t.Fatal("Expected restart to revive the player")
	}
	if p.Health != p.MaxHealth {
		t.Errorf("Expected full health, got %v", p.Health)
	}
	if s.State().Wave != 1 || s.State().Alive() != 0 {
		t.Errorf("Expected fresh wave 1, got wave %d alive %d", s.State().Wave, s.State().Alive())
	}
}

func TestGameScene_BackToMainExitsScene(t *testing.T) {
	r := newSceneRig(t)
	s := NewGameScene(r.rt, r.sm)
	r.sm.SwitchTo(s)

	menu := &stubScene{}
	var requested string
	r.sm.SetSceneFactory(func(name string) game.Scene {
		requested = name
		return menu
	})

	if _, err := entities.NewZombieEntity(r.rt.EntityManager, s.Space(), cp.Vector{X: 10, Y: 10}, 0); err != nil {
		t.Fatalf("NewZombieEntity failed: %v", err)
	}

	s.onZombieAttack(0, s.Player())
	for !s.IsDead() {
		s.onZombieAttack(0, s.Player())
	}
	s.step(0.25, utils.Controls{Back: true})
	if r.rt.Audio.CurrentSnapshot() != 0 {
		t.Errorf("Expected menu snapshot 0, got %d", r.rt.Audio.CurrentSnapshot())
	}

	r.sm.Update(0.25)
	if requested != game.SceneMenu || r.sm.GetCurrentScene() != menu {
		t.Fatalf("Expected switch to menu, got %q", requested)
	}
	r.rt.EntityManager.RemoveMarkedEntities()
	if len(r.zombies()) != 0 {
		t.Error("Expected zombies to be removed on exit")
	}
	if r.rt.EntityManager.Exists(s.Player()) {
		t.Error("Expected player to be removed on exit")
	}
}

func TestMenuScene_ConfirmLoadsGame(t *testing.T) {
	r := newSceneRig(t)
	m := NewMenuScene(r.rt, r.sm)
	r.sm.SwitchTo(m)

	m.step(0.25, utils.Controls{})
	if r.sm.GetCurrentScene() != m {
		t.Fatal("Expected menu to stay active without input")
	}

	m.step(0.25, utils.Controls{Confirm: true})
	// 切换延迟到下一次 Update;这里直接应用,避免读取真实输入
	var loaded game.Scene
	r.sm.SetSceneFactory(func(name string) game.Scene {
		if name == game.SceneGame {
			loaded = &stubScene{}
		}
		return loaded
	})
	r.sm.Update(0.25)
	if loaded == nil || r.sm.CurrentName() != game.SceneGame {
		t.Errorf("Expected game scene to be loaded, got %q", r.sm.CurrentName())
	}
}
