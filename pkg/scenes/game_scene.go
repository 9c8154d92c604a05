package scenes

import (
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/decker502/zsurvive/pkg/entities"
	"github.com/decker502/zsurvive/pkg/game"
	"github.com/decker502/zsurvive/pkg/modules"
	"github.com/decker502/zsurvive/pkg/systems"
	"github.com/decker502/zsurvive/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
)

// 玩家与玩法参数
const (
	PlayerSpeed         = 150.0 // 像素/秒
	RunMultiplier       = 1.8
	FootstepInterval    = 0.45 // 步行脚步间隔(秒)
	RunningStepInterval = 0.28
	WeaponRange         = 220.0
	WeaponDamage        = 1
	ZombieDamage        = 1.0
	PickupInterval      = 15.0 // 血包刷新间隔(秒,缩放时间)
	PickupAmount        = 3.0
	spawnMargin         = 20.0
)

// 配置中的台词ID
const (
	LineIntro        = "intro"
	LineWaveIncoming = "wave_incoming"
	LinePlayerDown   = "player_down"
)

// GameScene 生存模式
//
// 僵尸成波出现并追向玩家;出生、低吼、攻击和死亡都是定位音效,
// 血包拾取音效挂在血包上,血包销毁后发声器由 Runtime 收回音源池。
// 暂停菜单把时间缩放设为 0,玩家死亡时清理所有音效发声器。
type GameScene struct {
	rt           *Runtime
	sceneManager *game.SceneManager

	space  *cp.Space
	bodies *systems.BodySyncSystem
	state  *game.GameState
	pause  *modules.PauseMenuModule

	player      ecs.EntityID
	pickupTimer float64
	dead        bool
}

// NewGameScene 创建生存模式场景并切换到游戏内音频
func NewGameScene(rt *Runtime, sm *game.SceneManager) *GameScene {
	s := &GameScene{
		rt:           rt,
		sceneManager: sm,
		space:        cp.NewSpace(),
		state:        game.NewGameState(game.DefaultStartingWaveAmount, game.DefaultWaveDelay),
	}
	s.state.HighScore = rt.HighScore
	s.bodies = systems.NewBodySyncSystem(rt.EntityManager, s.space, rt.Audio, rt.Rand)
	s.bodies.OnAttack = s.onZombieAttack
	s.pause = modules.NewPauseMenuModule(rt.Audio, rt.Clock, ScreenWidth/2-60, ScreenHeight/4, modules.PauseMenuCallbacks{
		OnRestart:  s.Restart,
		OnMainMenu: s.backToMain,
	})

	player, err := entities.NewPlayerEntity(rt.EntityManager, cp.Vector{X: ScreenWidth / 2, Y: ScreenHeight / 2})
	if err != nil {
		log.Printf("[GameScene] Error: failed to create player: %v", err)
	}
	s.player = player

	rt.Audio.StartGame()
	s.startFirstWave()
	return s
}

func (s *GameScene) startFirstWave() {
	if s.state.RestartWave(s.rt.IntroPlayed()) {
		s.rt.QueueLine(LineIntro)
		s.rt.MarkIntroPlayed()
	}
	log.Printf("[GameScene] Wave %d in %.1fs", s.state.Wave, s.state.WaveDelay)
}

// Update 更新场景
func (s *GameScene) Update(deltaTime float64) {
	s.step(deltaTime, utils.ReadControls())
}

func (s *GameScene) step(deltaTime float64, c utils.Controls) {
	if c.Pause && !s.dead {
		s.pause.Toggle()
	} else {
		s.pause.HandleControls(c)
	}

	scaled := s.rt.BeginFrame(deltaTime)

	if !s.pause.IsActive() {
		if s.dead {
			switch {
			case c.Confirm:
				s.Restart()
			case c.Back:
				s.backToMain()
			}
		} else {
			s.updatePlayer(scaled, c)
			s.updateWaves(scaled)
			s.updatePickups(scaled)
		}
	}

	s.bodies.Update(scaled)
	s.rt.EndFrame(deltaTime)
}

func (s *GameScene) playerState() (*components.TransformComponent, *components.PlayerComponent) {
	tr, _ := ecs.GetComponent[*components.TransformComponent](s.rt.EntityManager, s.player)
	p, _ := ecs.GetComponent[*components.PlayerComponent](s.rt.EntityManager, s.player)
	return tr, p
}

func (s *GameScene) updatePlayer(dt float64, c utils.Controls) {
	if dt <= 0 {
		return
	}
	tr, p := s.playerState()
	if tr == nil || p == nil {
		return
	}

	if c.Move.Length() > 0 {
		speed, interval := PlayerSpeed, FootstepInterval
		if c.Running {
			speed *= RunMultiplier
			interval = RunningStepInterval
		}
		pos := tr.Position.Add(c.Move.Normalize().Mult(speed * dt))
		pos.X = cp.Clamp(pos.X, 0, ScreenWidth)
		pos.Y = cp.Clamp(pos.Y, 0, ScreenHeight)
		tr.Position = pos
		tr.LocalOffset = pos

		p.StepTimer -= dt
		if p.StepTimer <= 0 {
			s.rt.Audio.PlayFootstep(c.Running)
			p.StepTimer = interval
		}
	} else {
		p.StepTimer = 0
	}

	if c.Fire {
		s.fire(tr.Position)
	}

	if id := entities.FindPickupInRange(s.rt.EntityManager, tr.Position); id != 0 {
		s.collectPickup(id)
	}
}

// fire 命中射程内最近的僵尸
func (s *GameScene) fire(from cp.Vector) {
	s.rt.Audio.PlayWeapon()

	var target ecs.EntityID
	best := WeaponRange
	em := s.rt.EntityManager
	for _, id := range ecs.GetEntitiesWith2[*components.ZombieComponent, *components.TransformComponent](em) {
		if em.IsMarkedForDestroy(id) {
			continue
		}
		tr, _ := ecs.GetComponent[*components.TransformComponent](em, id)
		if d := tr.Position.Distance(from); d <= best {
			best = d
			target = id
		}
	}
	if target == 0 {
		return
	}
	if entities.DamageZombie(em, target, WeaponDamage) {
		s.killZombie(target)
	}
}

func (s *GameScene) killZombie(id ecs.EntityID) {
	s.rt.Audio.ZombieDeath(id)
	entities.DestroyZombieEntity(s.rt.EntityManager, s.space, id)
	if s.state.ZombieKilled() {
		s.state.StartWave(true)
		s.rt.QueueLine(LineWaveIncoming)
		log.Printf("[GameScene] Wave cleared, wave %d incoming", s.state.Wave)
	}
}

func (s *GameScene) updateWaves(dt float64) {
	for i, n := 0, s.state.Update(dt); i < n; i++ {
		s.spawnZombie()
	}
}

// spawnZombie 在随机一条屏幕边缘外生成僵尸
func (s *GameScene) spawnZombie() {
	rng := s.rt.Rand
	var pos cp.Vector
	switch rng.Intn(4) {
	case 0:
		pos = cp.Vector{X: rng.Float64() * ScreenWidth, Y: -spawnMargin}
	case 1:
		pos = cp.Vector{X: rng.Float64() * ScreenWidth, Y: ScreenHeight + spawnMargin}
	case 2:
		pos = cp.Vector{X: -spawnMargin, Y: rng.Float64() * ScreenHeight}
	default:
		pos = cp.Vector{X: ScreenWidth + spawnMargin, Y: rng.Float64() * ScreenHeight}
	}
	speed := entities.ZombieSpeed * (0.8 + rng.Float64()*0.4)
	id, err := entities.NewZombieEntity(s.rt.EntityManager, s.space, pos, speed)
	if err != nil {
		log.Printf("[GameScene] Error: failed to spawn zombie: %v", err)
		return
	}
	s.rt.Audio.ZombieSpawn(id)
}

func (s *GameScene) updatePickups(dt float64) {
	s.pickupTimer += dt
	if s.pickupTimer < PickupInterval {
		return
	}
	s.pickupTimer = 0
	if len(ecs.GetEntitiesWith1[*components.PickupComponent](s.rt.EntityManager)) > 0 {
		return
	}
	pos := cp.Vector{
		X: 40 + s.rt.Rand.Float64()*(ScreenWidth-80),
		Y: 40 + s.rt.Rand.Float64()*(ScreenHeight-80),
	}
	if _, err := entities.NewHealthPickupEntity(s.rt.EntityManager, pos, int(PickupAmount)); err != nil {
		log.Printf("[GameScene] Error: failed to spawn pickup: %v", err)
	}
}

// collectPickup 拾取音效挂在血包上,血包随即销毁
func (s *GameScene) collectPickup(id ecs.EntityID) {
	em := s.rt.EntityManager
	pickup, ok := ecs.GetComponent[*components.PickupComponent](em, id)
	if !ok {
		return
	}
	pickup.Collected = true
	s.rt.Audio.HealthPickup(id)
	entities.HealPlayer(em, s.player, float64(pickup.Amount))
	em.DestroyEntity(id)
}

func (s *GameScene) onZombieAttack(zombie, target ecs.EntityID) {
	if s.dead || target != s.player {
		return
	}
	s.rt.Audio.PlayerHit()
	if entities.DamagePlayer(s.rt.EntityManager, target, ZombieDamage) {
		s.onPlayerDeath()
	}
}

func (s *GameScene) onPlayerDeath() {
	s.dead = true
	s.rt.Audio.CleanupAllSFXSources()
	s.rt.Dialogue.Clear()
	s.rt.QueueLine(LinePlayerDown)
	if s.state.RecordHighScore() {
		s.rt.HighScore = s.state.HighScore
	}
	log.Printf("[GameScene] Player died on wave %d", s.state.Wave)
}

// clearWorld 销毁僵尸与血包
func (s *GameScene) clearWorld() {
	em := s.rt.EntityManager
	for _, id := range ecs.GetEntitiesWith1[*components.ZombieComponent](em) {
		entities.DestroyZombieEntity(em, s.space, id)
	}
	for _, id := range ecs.GetEntitiesWith1[*components.PickupComponent](em) {
		em.DestroyEntity(id)
	}
}

// Restart 从第一波重新开始
func (s *GameScene) Restart() {
	s.clearWorld()
	s.rt.Dialogue.Clear()
	s.rt.Audio.Reset(false)

	tr, p := s.playerState()
	if tr != nil && p != nil {
		tr.Position = cp.Vector{X: ScreenWidth / 2, Y: ScreenHeight / 2}
		tr.LocalOffset = tr.Position
		p.Health = p.MaxHealth
		p.StepTimer = 0
	}
	s.dead = false
	s.pickupTimer = 0
	s.startFirstWave()
}

func (s *GameScene) backToMain() {
	s.rt.Dialogue.Clear()
	s.rt.Audio.Reset(true)
	s.sceneManager.LoadScene(game.SceneMenu)
}

// OnExit 离开场景时销毁本场景创建的实体
func (s *GameScene) OnExit() {
	s.clearWorld()
	s.rt.EntityManager.DestroyEntity(s.player)
	s.rt.Clock.SetTimeScale(1)
}

// SaveOnExit 保存偏好设置
func (s *GameScene) SaveOnExit() bool {
	if s.rt.Settings == nil {
		return true
	}
	if err := s.rt.Settings.Save(); err != nil {
		log.Printf("[GameScene] Warning: failed to save settings: %v", err)
		return false
	}
	return true
}

// IsDead 玩家是否死亡
func (s *GameScene) IsDead() bool {
	return s.dead
}

// State 波次状态
func (s *GameScene) State() *game.GameState {
	return s.state
}

// Player 玩家实体
func (s *GameScene) Player() ecs.EntityID {
	return s.player
}

// Space 物理空间
func (s *GameScene) Space() *cp.Space {
	return s.space
}

var (
	colorBackground = color.RGBA{R: 24, G: 28, B: 22, A: 255}
	colorPlayer     = color.RGBA{R: 90, G: 160, B: 255, A: 255}
	colorZombie     = color.RGBA{R: 170, G: 60, B: 50, A: 255}
	colorPickup     = color.RGBA{R: 80, G: 220, B: 120, A: 255}
	colorSource     = color.RGBA{R: 250, G: 220, B: 90, A: 200}
)

// Draw 绘制场景
func (s *GameScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	em := s.rt.EntityManager

	for _, id := range ecs.GetEntitiesWith2[*components.PickupComponent, *components.TransformComponent](em) {
		tr, _ := ecs.GetComponent[*components.TransformComponent](em, id)
		vector.DrawFilledRect(screen, float32(tr.Position.X-8), float32(tr.Position.Y-8), 16, 16, colorPickup, true)
	}
	for _, id := range ecs.GetEntitiesWith2[*components.ZombieComponent, *components.TransformComponent](em) {
		tr, _ := ecs.GetComponent[*components.TransformComponent](em, id)
		vector.DrawFilledCircle(screen, float32(tr.Position.X), float32(tr.Position.Y), entities.ZombieRadius, colorZombie, true)
	}
	if tr, _ := s.playerState(); tr != nil {
		vector.DrawFilledCircle(screen, float32(tr.Position.X), float32(tr.Position.Y), 12, colorPlayer, true)
	}

	busy := 0
	for _, id := range s.rt.Audio.Pool().Sources() {
		src, _ := ecs.GetComponent[*components.AudioSourceComponent](em, id)
		if src == nil || !src.IsBusy() {
			continue
		}
		busy++
		if tr, ok := ecs.GetComponent[*components.TransformComponent](em, id); ok && src.SpatialBlend > 0 {
			vector.DrawFilledCircle(screen, float32(tr.Position.X), float32(tr.Position.Y), 3, colorSource, true)
		}
	}

	health := 0.0
	if _, p := s.playerState(); p != nil {
		health = p.Health
	}
	hud := fmt.Sprintf("wave %d  alive %d  best %d  hp %.0f\nsources %d busy %d  snapshot %d",
		s.state.Wave, s.state.Alive(), s.state.HighScore, health,
		s.rt.Audio.Pool().Size(), busy, s.rt.Audio.CurrentSnapshot())
	ebitenutil.DebugPrintAt(screen, hud, 8, 8)

	if s.dead {
		ebitenutil.DebugPrintAt(screen, "YOU DIED\nEnter: restart   Backspace: main menu", ScreenWidth/2-110, ScreenHeight/2-20)
	}
	s.pause.Draw(screen)
	s.rt.DialogueBox.Draw(screen)
}
