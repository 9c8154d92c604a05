package main

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/decker502/zsurvive/internal/audio"
	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/config"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/decker502/zsurvive/pkg/entities"
	"github.com/decker502/zsurvive/pkg/game"
	"github.com/decker502/zsurvive/pkg/systems"
	"github.com/jakecoffman/cp"
)

// 模拟场地(与游戏窗口一致)
const (
	arenaWidth  = 960.0
	arenaHeight = 540.0
)

// simParams 模拟参数
type simParams struct {
	Duration   float64 // 模拟时长(秒,真实时间)
	Step       float64 // 每帧时长
	KillRate   float64 // 每只僵尸每秒被击杀的概率
	PauseEvery float64 // 每隔多久切换一次暂停(0 表示不暂停)
	PickupRate float64 // 每秒生成血包的概率
	Rearm      bool    // 覆盖配置中的 pool.rearmWhilePlaying
	Seed       int64
}

// poolStats 音源池快照
type poolStats struct {
	Time     float64
	Wave     int
	Zombies  int
	Size     int
	Busy     int
	Free     int
	Attached int
	Paused   bool
}

// simReport 模拟结果
type simReport struct {
	Frames    int
	Plays     int
	Kills     int
	MaxWave   int
	MaxBusy   int
	FinalSize int
	Final     poolStats
}

// simulation 无窗口的生存模式
// 和游戏场景使用相同的系统顺序:推进后端与时钟、玩法、锚点跟随、延迟清理、空间音频、删除实体
type simulation struct {
	params simParams

	em         *ecs.EntityManager
	backend    *audio.HeadlessBackend
	clock      *game.Clock
	am         *game.AudioManager
	space      *cp.Space
	state      *game.GameState
	rng        *rand.Rand
	transforms *systems.TransformSystem
	cleanup    *systems.SourceCleanupSystem
	spatial    *systems.SpatialAudioSystem
	dialogue   *systems.DialogueQueueSystem
	bodies     *systems.BodySyncSystem

	player     ecs.EntityID
	time       float64
	pauseTimer float64
	report     simReport
}

func newSimulation(cfg *config.AudioConfig, params simParams, verbose bool) (*simulation, error) {
	if params.Step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %v", params.Step)
	}
	if params.Rearm {
		cfg.Pool.RearmWhilePlaying = true
	}

	rng := rand.New(rand.NewSource(params.Seed))
	em := ecs.NewEntityManager()
	backend := audio.NewHeadlessBackend(cfg.Mixer.SampleRate)
	clock := game.NewClock()
	am := game.NewAudioManager(game.AudioManagerOptions{
		EntityManager: em,
		Backend:       backend,
		Clips:         game.NewClipBank(backend.SampleRate(), 0, rng),
		Config:        cfg,
		Rand:          rng,
		Verbose:       verbose,
	})
	am.Init()
	am.StartGame()

	s := &simulation{
		params:   params,
		em:       em,
		backend:  backend,
		clock:    clock,
		am:       am,
		space:    cp.NewSpace(),
		state:    game.NewGameState(game.DefaultStartingWaveAmount, game.DefaultWaveDelay),
		rng:      rng,
		cleanup:  systems.NewSourceCleanupSystem(em, clock, am),
		spatial:  systems.NewSpatialAudioSystem(em, am),
		dialogue: systems.NewDialogueQueueSystem(am, clock),
	}
	s.cleanup.Verbose = verbose
	s.transforms = systems.NewTransformSystem(em, s.onLostParent)
	s.bodies = systems.NewBodySyncSystem(em, s.space, countingVoice{s}, rng)

	player, err := entities.NewPlayerEntity(em, cp.Vector{X: arenaWidth / 2, Y: arenaHeight / 2})
	if err != nil {
		return nil, err
	}
	s.player = player
	s.bodies.OnAttack = func(zombie, target ecs.EntityID) {
		am.PlayerHit()
		s.report.Plays++
	}

	if line, ok := am.Line("intro"); ok {
		s.dialogue.Enqueue(line)
	}
	s.state.StartWave(true)
	return s, nil
}

// countingVoice 统计僵尸发声次数
type countingVoice struct{ s *simulation }

func (v countingVoice) ZombieNoise(zombie ecs.EntityID) {
	v.s.am.ZombieNoise(zombie)
	v.s.report.Plays++
}

func (v countingVoice) ZombieAttack(zombie ecs.EntityID) {
	v.s.am.ZombieAttack(zombie)
	v.s.report.Plays++
}

func (s *simulation) onLostParent(ids []ecs.EntityID) {
	for _, id := range ids {
		if ecs.HasComponent[*components.AudioSourceComponent](s.em, id) {
			s.am.ReturnSourceToHoldingArea(id)
			continue
		}
		game.SetParent(s.em, id, 0)
	}
}

// done 是否已达到模拟时长
func (s *simulation) done() bool {
	return s.time >= s.params.Duration
}

// togglePause 切换时间缩放(暂停菜单)
func (s *simulation) togglePause() {
	paused := !s.clock.IsPaused()
	if paused {
		s.clock.SetTimeScale(0)
	} else {
		s.clock.SetTimeScale(1)
	}
	s.am.PauseDialogue(paused)
}

// step 推进一帧
func (s *simulation) step() {
	dt := s.params.Step
	s.time += dt
	s.report.Frames++

	if s.params.PauseEvery > 0 {
		s.pauseTimer += dt
		if s.pauseTimer >= s.params.PauseEvery {
			s.pauseTimer = 0
			s.togglePause()
		}
	}

	s.backend.Advance(dt)
	scaled := s.clock.Tick(dt)
	s.am.Update(dt)
	s.dialogue.Update(dt)

	if scaled > 0 {
		for i, n := 0, s.state.Update(scaled); i < n; i++ {
			s.spawnZombie()
		}
		s.killZombies(scaled)
		s.maybeSpawnPickup(scaled)
	}
	s.bodies.Update(scaled)

	s.transforms.Update(dt)
	s.cleanup.Update(dt)
	s.spatial.Update(dt)
	s.em.RemoveMarkedEntities()

	stats := s.stats()
	if stats.Busy > s.report.MaxBusy {
		s.report.MaxBusy = stats.Busy
	}
	if s.state.Wave > s.report.MaxWave {
		s.report.MaxWave = s.state.Wave
	}
}

func (s *simulation) spawnZombie() {
	var pos cp.Vector
	switch s.rng.Intn(4) {
	case 0:
		pos = cp.Vector{X: s.rng.Float64() * arenaWidth, Y: 0}
	case 1:
		pos = cp.Vector{X: s.rng.Float64() * arenaWidth, Y: arenaHeight}
	case 2:
		pos = cp.Vector{X: 0, Y: s.rng.Float64() * arenaHeight}
	default:
		pos = cp.Vector{X: arenaWidth, Y: s.rng.Float64() * arenaHeight}
	}
	id, err := entities.NewZombieEntity(s.em, s.space, pos, 0)
	if err != nil {
		return
	}
	s.am.ZombieSpawn(id)
	s.report.Plays++
}

// killZombies 按概率击杀僵尸;死亡音效在僵尸位置播放,僵尸身上的跟随音效被收回
func (s *simulation) killZombies(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.ZombieComponent](s.em) {
		if s.em.IsMarkedForDestroy(id) || s.rng.Float64() >= s.params.KillRate*dt {
			continue
		}
		s.am.ZombieDeath(id)
		entities.DestroyZombieEntity(s.em, s.space, id)
		s.report.Plays++
		s.report.Kills++
		if s.state.ZombieKilled() {
			s.state.StartWave(true)
			if line, ok := s.am.Line("wave_incoming"); ok {
				s.dialogue.Enqueue(line)
			}
		}
	}
}

// maybeSpawnPickup 生成血包并立即拾取(拾取音效挂在血包上)
func (s *simulation) maybeSpawnPickup(dt float64) {
	if s.rng.Float64() >= s.params.PickupRate*dt {
		return
	}
	pos := cp.Vector{X: s.rng.Float64() * arenaWidth, Y: s.rng.Float64() * arenaHeight}
	id, err := entities.NewHealthPickupEntity(s.em, pos, 1)
	if err != nil {
		return
	}
	s.am.HealthPickup(id)
	s.em.DestroyEntity(id)
	s.report.Plays++
}

// stats 当前音源池快照
func (s *simulation) stats() poolStats {
	st := poolStats{
		Time:    s.time,
		Wave:    s.state.Wave,
		Zombies: len(ecs.GetEntitiesWith1[*components.ZombieComponent](s.em)),
		Size:    s.am.Pool().Size(),
		Paused:  s.clock.IsPaused(),
	}
	for _, id := range s.am.Pool().Sources() {
		src, ok := ecs.GetComponent[*components.AudioSourceComponent](s.em, id)
		if !ok {
			continue
		}
		switch {
		case src.IsBusy():
			st.Busy++
		case src.IsFree():
			st.Free++
		}
		if tr, ok := ecs.GetComponent[*components.TransformComponent](s.em, id); ok && tr.Parent != s.am.Holding() {
			st.Attached++
		}
	}
	return st
}

// run 运行到结束,每 reportEvery 秒输出一次快照(0 表示只输出结果)
func (s *simulation) run(out io.Writer, reportEvery float64) simReport {
	next := reportEvery
	for !s.done() {
		s.step()
		if reportEvery > 0 && s.time >= next {
			next += reportEvery
			st := s.stats()
			fmt.Fprintf(out, "t=%6.2fs wave=%-3d zombies=%-3d pool=%-3d busy=%-3d free=%-3d attached=%-3d paused=%v\n",
				st.Time, st.Wave, st.Zombies, st.Size, st.Busy, st.Free, st.Attached, st.Paused)
		}
	}
	s.report.Final = s.stats()
	s.report.FinalSize = s.report.Final.Size
	return s.report
}

// drain 停止玩法并继续推进,直到所有池发声器空闲或超时
// 返回: 是否全部空闲
func (s *simulation) drain(maxSeconds float64) bool {
	if s.clock.IsPaused() {
		s.togglePause()
	}
	for _, id := range ecs.GetEntitiesWith1[*components.ZombieComponent](s.em) {
		entities.DestroyZombieEntity(s.em, s.space, id)
	}
	for elapsed := 0.0; elapsed < maxSeconds; elapsed += s.params.Step {
		dt := s.params.Step
		s.backend.Advance(dt)
		s.clock.Tick(dt)
		s.am.Update(dt)
		s.transforms.Update(dt)
		s.cleanup.Update(dt)
		s.spatial.Update(dt)
		s.em.RemoveMarkedEntities()
		if s.stats().Busy == 0 {
			return true
		}
	}
	return s.stats().Busy == 0
}
