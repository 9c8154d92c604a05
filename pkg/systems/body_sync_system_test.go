package systems

import (
	"math/rand"
	"testing"

	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/decker502/zsurvive/pkg/entities"
	"github.com/jakecoffman/cp"
)

type voiceRecorder struct {
	noises  []ecs.EntityID
	attacks []ecs.EntityID
}

func (v *voiceRecorder) ZombieNoise(id ecs.EntityID)  { v.noises = append(v.noises, id) }
func (v *voiceRecorder) ZombieAttack(id ecs.EntityID) { v.attacks = append(v.attacks, id) }

func newBodyRig(t *testing.T) (*ecs.EntityManager, *cp.Space, *voiceRecorder, *BodySyncSystem) {
	t.Helper()
	em := ecs.NewEntityManager()
	space := cp.NewSpace()
	voice := &voiceRecorder{}
	return em, space, voice, NewBodySyncSystem(em, space, voice, rand.New(rand.NewSource(7)))
}

func TestBodySync_ZombieSeeksListener(t *testing.T) {
	em, space, _, sys := newBodyRig(t)
	entities.NewPlayerEntity(em, cp.Vector{X: 0, Y: 0})
	zombie, err := entities.NewZombieEntity(em, space, cp.Vector{X: 400, Y: 0}, 100)
	if err != nil {
		t.Fatalf("Failed to create zombie: %v", err)
	}

	for i := 0; i < 10; i++ {
		sys.Update(0.1)
	}

	tr, _ := ecs.GetComponent[*components.TransformComponent](em, zombie)
	if tr.Position.X >= 400 || tr.Position.X < 250 {
		t.Errorf("Zombie should move about 100px toward the player, at %v", tr.Position)
	}
	if tr.LocalOffset != tr.Position {
		t.Error("Root transform offset should mirror the body position")
	}
}

func TestBodySync_AttackCooldown(t *testing.T) {
	em, space, voice, sys := newBodyRig(t)
	player, _ := entities.NewPlayerEntity(em, cp.Vector{})
	zombie, _ := entities.NewZombieEntity(em, space, cp.Vector{X: 20, Y: 0}, 0)

	var targets []ecs.EntityID
	sys.OnAttack = func(z, target ecs.EntityID) { targets = append(targets, target) }

	sys.Update(0.25)
	if len(voice.attacks) != 1 || len(targets) != 1 || targets[0] != player {
		t.Fatalf("Zombie in range should attack immediately, attacks=%v targets=%v", voice.attacks, targets)
	}
	if voice.attacks[0] != zombie {
		t.Errorf("Attack voice should come from the zombie, got %v", voice.attacks)
	}

	// 冷却 3s
	for i := 0; i < 11; i++ {
		sys.Update(0.25)
	}
	if len(voice.attacks) != 1 {
		t.Errorf("Attack should wait for the cooldown, attacks=%d", len(voice.attacks))
	}
	sys.Update(0.25)
	sys.Update(0.25)
	if len(voice.attacks) != 2 {
		t.Errorf("Second attack expected after the cooldown, attacks=%d", len(voice.attacks))
	}
}

func TestBodySync_NoiseTimer(t *testing.T) {
	em, space, voice, sys := newBodyRig(t)
	zombie, _ := entities.NewZombieEntity(em, space, cp.Vector{X: 100, Y: 100}, 0)

	sys.Update(1.5)
	if len(voice.noises) != 0 {
		t.Fatal("First noise should wait 2s")
	}
	sys.Update(0.5)
	if len(voice.noises) != 1 || voice.noises[0] != zombie {
		t.Fatalf("Expected one noise, got %v", voice.noises)
	}

	z, _ := ecs.GetComponent[*components.ZombieComponent](em, zombie)
	if z.NoiseTimer < ZombieNoiseMin || z.NoiseTimer > ZombieNoiseMax {
		t.Errorf("Next noise should be in [%v,%v], got %v", ZombieNoiseMin, ZombieNoiseMax, z.NoiseTimer)
	}
}

func TestBodySync_PausedDoesNothing(t *testing.T) {
	em, space, voice, sys := newBodyRig(t)
	entities.NewPlayerEntity(em, cp.Vector{})
	zombie, _ := entities.NewZombieEntity(em, space, cp.Vector{X: 10, Y: 0}, 0)

	sys.Update(0)

	if len(voice.attacks) != 0 || len(voice.noises) != 0 {
		t.Error("Zero delta should not run behavior")
	}
	tr, _ := ecs.GetComponent[*components.TransformComponent](em, zombie)
	if tr.Position != (cp.Vector{X: 10, Y: 0}) {
		t.Errorf("Zombie should not move while paused, at %v", tr.Position)
	}
}

func TestBodySync_SkipsDestroyedZombie(t *testing.T) {
	em, space, voice, sys := newBodyRig(t)
	entities.NewPlayerEntity(em, cp.Vector{})
	zombie, _ := entities.NewZombieEntity(em, space, cp.Vector{X: 10, Y: 0}, 0)
	entities.DestroyZombieEntity(em, space, zombie)

	sys.Update(0.25)
	if len(voice.attacks) != 0 {
		t.Error("Destroyed zombie should not attack")
	}
}
