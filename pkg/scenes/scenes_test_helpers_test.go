package scenes

import (
	"math/rand"
	"testing"

	"github.com/decker502/zsurvive/internal/audio"
	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/config"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/decker502/zsurvive/pkg/game"
	"github.com/decker502/zsurvive/pkg/modules"
)

const testAudioYAML = `
pool:
  minSources: 2
  cleanupDelay: 0.25
mixer:
  sampleRate: 8000
clips:
  - id: music
    synth: { wave: sine, freq: 110, duration: 4 }
  - id: ambience
    synth: { wave: noise, duration: 4, seed: 1 }
  - id: hit
    synth: { wave: square, freq: 200, duration: 0.25 }
  - id: step
    synth: { wave: noise, duration: 0.125, seed: 2 }
  - id: line
    synth: { wave: sine, freq: 300, duration: 0.5 }
banks:
  zombieAttack: [hit]
  zombieDeath: [hit]
  zombieNoise: [hit]
  zombieSpawn: [hit]
  healthPickup: [hit]
  footsteps: [step]
  running: [step]
  weapon: [hit]
  playerHit: [hit]
scenes:
  menu:
    music: music
  inGame:
    music: music
    ambience: ambience
dialogue:
  - id: intro
    actor: radio
    transcript: "hold the line"
    clip: line
  - id: wave_incoming
    actor: voices
    transcript: "they're coming"
    clip: line
  - id: player_down
    actor: radio
    transcript: "come in"
    clip: line
`

type sceneRig struct {
	rt      *Runtime
	sm      *game.SceneManager
	backend *audio.HeadlessBackend
}

func newSceneRig(t *testing.T) *sceneRig {
	t.Helper()
	cfg, err := config.ParseAudioConfig([]byte(testAudioYAML))
	if err != nil {
		t.Fatalf("ParseAudioConfig failed: %v", err)
	}

	em := ecs.NewEntityManager()
	rng := rand.New(rand.NewSource(3))
	backend := audio.NewHeadlessBackend(cfg.Mixer.SampleRate)
	settings := game.NewSettingsManager(nil, game.SettingsDefaults(cfg))
	box := modules.NewDialogueBoxModule(10, 10)
	am := game.NewAudioManager(game.AudioManagerOptions{
		EntityManager: em,
		Backend:       backend,
		Clips:         game.NewClipBank(cfg.Mixer.SampleRate, 0, rng),
		Settings:      settings,
		Listener:      box,
		Config:        cfg,
		Rand:          rng,
	})
	am.Init()

	rt := NewRuntime(em, game.NewClock(), am, settings, box, rng)
	sm := game.NewSceneManager()
	sm.SetSceneFactory(func(name string) game.Scene {
		switch name {
		case game.SceneMenu:
			return NewMenuScene(rt, sm)
		case game.SceneGame:
			return NewGameScene(rt, sm)
		}
		return nil
	})
	return &sceneRig{rt: rt, sm: sm, backend: backend}
}

func (r *sceneRig) zombies() []ecs.EntityID {
	return ecs.GetEntitiesWith1[*components.ZombieComponent](r.rt.EntityManager)
}

func (r *sceneRig) pickups() []ecs.EntityID {
	return ecs.GetEntitiesWith1[*components.PickupComponent](r.rt.EntityManager)
}
