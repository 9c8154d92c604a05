package systems

import (
	"math"
	"math/rand"

	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/jakecoffman/cp"
)

// 僵尸行为常量
const (
	ZombieAttackCooldown = 3.0  // 攻击冷却(秒)
	ZombieAttackRange    = 40.0 // 攻击距离(像素)
	ZombieNoiseMin       = 4.0  // 低吼最小间隔(秒)
	ZombieNoiseMax       = 12.0 // 低吼最大间隔(秒)
)

// ZombieVoice 僵尸发声(*game.AudioManager)
type ZombieVoice interface {
	ZombieNoise(zombie ecs.EntityID)
	ZombieAttack(zombie ecs.EntityID)
}

// BodySyncSystem 物理刚体同步系统
//
// 僵尸朝监听器(玩家)移动,靠近后按冷却攻击,并不定期低吼;
// 推进 cp.Space 后把刚体位置写回 TransformComponent,
// 这样挂在僵尸身上的发声器由 TransformSystem 跟随。
type BodySyncSystem struct {
	entityManager *ecs.EntityManager
	space         *cp.Space
	voice         ZombieVoice
	rng           *rand.Rand

	// OnAttack 僵尸攻击回调(可为 nil)
	OnAttack func(zombie, target ecs.EntityID)
}

// NewBodySyncSystem 创建刚体同步系统
func NewBodySyncSystem(em *ecs.EntityManager, space *cp.Space, voice ZombieVoice, rng *rand.Rand) *BodySyncSystem {
	return &BodySyncSystem{
		entityManager: em,
		space:         space,
		voice:         voice,
		rng:           rng,
	}
}

// Space 物理空间
func (s *BodySyncSystem) Space() *cp.Space {
	return s.space
}

// Update 更新僵尸行为并推进物理
// 参数: deltaTime - 缩放时间增量,暂停时为 0
func (s *BodySyncSystem) Update(deltaTime float64) {
	if deltaTime <= 0 {
		return
	}

	target, targetPos, hasTarget := s.findTarget()

	for _, id := range ecs.GetEntitiesWith2[*components.ZombieComponent, *components.BodyComponent](s.entityManager) {
		if s.entityManager.IsMarkedForDestroy(id) {
			continue
		}
		zombie, _ := ecs.GetComponent[*components.ZombieComponent](s.entityManager, id)
		body, _ := ecs.GetComponent[*components.BodyComponent](s.entityManager, id)

		s.updateNoise(id, zombie, deltaTime)

		if !hasTarget {
			s.wander(zombie, body, deltaTime)
			continue
		}

		toTarget := targetPos.Sub(body.Body.Position())
		if toTarget.Length() <= ZombieAttackRange {
			body.Body.SetVelocityVector(cp.Vector{})
			s.updateAttack(id, target, zombie, deltaTime)
			continue
		}
		body.Body.SetVelocityVector(toTarget.Normalize().Mult(zombie.Speed))
	}

	s.space.Step(deltaTime)

	for _, id := range ecs.GetEntitiesWith2[*components.BodyComponent, *components.TransformComponent](s.entityManager) {
		body, _ := ecs.GetComponent[*components.BodyComponent](s.entityManager, id)
		tr, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if body.Body == nil {
			continue
		}
		tr.Position = body.Body.Position()
		tr.LocalOffset = tr.Position
	}
}

func (s *BodySyncSystem) findTarget() (ecs.EntityID, cp.Vector, bool) {
	ids := ecs.GetEntitiesWith2[*components.AudioListenerComponent, *components.TransformComponent](s.entityManager)
	if len(ids) == 0 {
		return 0, cp.Vector{}, false
	}
	tr, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, ids[0])
	return ids[0], tr.Position, true
}

func (s *BodySyncSystem) updateNoise(id ecs.EntityID, zombie *components.ZombieComponent, dt float64) {
	zombie.NoiseTimer -= dt
	if zombie.NoiseTimer > 0 {
		return
	}
	zombie.NoiseTimer = ZombieNoiseMin + s.rng.Float64()*(ZombieNoiseMax-ZombieNoiseMin)
	if s.voice != nil {
		s.voice.ZombieNoise(id)
	}
}

func (s *BodySyncSystem) updateAttack(id, target ecs.EntityID, zombie *components.ZombieComponent, dt float64) {
	if zombie.AttackTimer < ZombieAttackCooldown {
		zombie.AttackTimer += dt
		return
	}
	zombie.AttackTimer = 0
	if s.OnAttack != nil {
		s.OnAttack(id, target)
	}
	if s.voice != nil {
		s.voice.ZombieAttack(id)
	}
}

// wander 没有目标时随机游荡
func (s *BodySyncSystem) wander(zombie *components.ZombieComponent, body *components.BodyComponent, dt float64) {
	zombie.WanderTimer -= dt
	if zombie.WanderTimer > 0 {
		return
	}
	zombie.WanderTimer = 1 + s.rng.Float64()*2
	dir := cp.ForAngle(s.rng.Float64() * 2 * math.Pi)
	body.Body.SetVelocityVector(dir.Mult(zombie.Speed))
}
