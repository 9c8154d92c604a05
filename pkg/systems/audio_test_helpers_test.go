package systems

import (
	"math/rand"

	"github.com/decker502/zsurvive/internal/audio"
	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/config"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/decker502/zsurvive/pkg/game"
	"github.com/jakecoffman/cp"
)

// dialogueRecorder 记录对白界面回调
type dialogueRecorder struct {
	spoken int
	ended  int
}

func (d *dialogueRecorder) SpeakVoiceLine(*game.DialogueLine) { d.spoken++ }
func (d *dialogueRecorder) EndDialogue()                      { d.ended++ }

// audioRig 音频系统测试环境:headless 后端 + 音频管理器 + 清理系统
type audioRig struct {
	em       *ecs.EntityManager
	backend  *audio.HeadlessBackend
	clock    *game.Clock
	am       *game.AudioManager
	cleanup  *SourceCleanupSystem
	dialogue *dialogueRecorder
}

func newAudioRig(t interface{ Helper() }, cfg *config.AudioConfig) *audioRig {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultAudioConfig()
	}
	em := ecs.NewEntityManager()
	backend := audio.NewHeadlessBackend(1000)
	clock := game.NewClock()
	rec := &dialogueRecorder{}
	am := game.NewAudioManager(game.AudioManagerOptions{
		EntityManager: em,
		Backend:       backend,
		Clips:         game.NewClipBank(1000, 0, rand.New(rand.NewSource(1))),
		Listener:      rec,
		Config:        cfg,
		Rand:          rand.New(rand.NewSource(1)),
	})
	return &audioRig{
		em:       em,
		backend:  backend,
		clock:    clock,
		am:       am,
		cleanup:  NewSourceCleanupSystem(em, clock, am),
		dialogue: rec,
	}
}

// tick 推进一帧:后端播放、时钟、清理系统
func (r *audioRig) tick(dt float64) {
	r.backend.Advance(dt)
	r.clock.Tick(dt)
	r.cleanup.Update(dt)
}

func (r *audioRig) source(id ecs.EntityID) *components.AudioSourceComponent {
	src, _ := ecs.GetComponent[*components.AudioSourceComponent](r.em, id)
	return src
}

func (r *audioRig) transform(id ecs.EntityID) *components.TransformComponent {
	tr, _ := ecs.GetComponent[*components.TransformComponent](r.em, id)
	return tr
}

func (r *audioRig) hasTask(id ecs.EntityID) bool {
	return ecs.HasComponent[*components.SourceCleanupComponent](r.em, id)
}

func (r *audioRig) task(id ecs.EntityID) (*components.SourceCleanupComponent, bool) {
	return ecs.GetComponent[*components.SourceCleanupComponent](r.em, id)
}

func (r *audioRig) anchor(pos cp.Vector) ecs.EntityID {
	id := r.em.CreateEntity()
	r.em.AddComponent(id, &components.TransformComponent{Position: pos, LocalOffset: pos})
	return id
}

// clipOf 1000 Hz 的静音片段
func clipOf(id string, seconds float64) *audio.Clip {
	return audio.NewClip(id, make([]byte, int(seconds*1000)*audio.BytesPerFrame), 1000)
}
