package entities

import (
	"fmt"
	"math"

	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/jakecoffman/cp"
)

// 僵尸默认参数
const (
	ZombieRadius = 16.0 // 碰撞半径(像素)
	ZombieMass   = 1.0
	ZombieHealth = 3
	ZombieSpeed  = 60.0 // 默认移动速度(像素/秒)
)

// NewZombieEntity 创建僵尸实体
// 僵尸是定位音效的锚点:出生/攻击/死亡/低吼都在它的位置播放
//
// 参数:
//   - em: 实体管理器
//   - space: 物理空间,僵尸刚体加入其中
//   - pos: 出生点(世界坐标)
//   - speed: 移动速度,<= 0 时使用 ZombieSpeed
//
// 返回:
//   - ecs.EntityID: 创建的僵尸实体ID,如果失败返回 0
//   - error: 如果创建失败返回错误信息
//
// 注意：攻击冷却初始为满,靠近玩家后立即可以攻击
func NewZombieEntity(em *ecs.EntityManager, space *cp.Space, pos cp.Vector, speed float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if space == nil {
		return 0, fmt.Errorf("physics space cannot be nil")
	}
	if speed <= 0 {
		speed = ZombieSpeed
	}

	body := cp.NewBody(ZombieMass, math.Inf(1))
	body.SetPosition(pos)
	shape := cp.NewCircle(body, ZombieRadius, cp.Vector{})
	space.AddBody(body)
	space.AddShape(shape)

	id := em.CreateEntity()
	em.AddComponent(id, &components.TransformComponent{Position: pos, LocalOffset: pos})
	em.AddComponent(id, &components.BodyComponent{Body: body, Shape: shape})
	em.AddComponent(id, &components.ZombieComponent{
		Speed:       speed,
		NoiseTimer:  zombieFirstNoise,
		AttackTimer: zombieAttackCooldown,
		Health:      ZombieHealth,
	})
	return id, nil
}

// zombieFirstNoise 出生后第一次低吼的延迟(秒),避免与出生声重叠
const zombieFirstNoise = 2.0

// zombieAttackCooldown 与 systems.ZombieAttackCooldown 一致
const zombieAttackCooldown = 3.0

// DestroyZombieEntity 把僵尸移出物理空间并标记删除
// 挂在僵尸身上的发声器由 TransformSystem 检测到父实体消失后交还给音源池
func DestroyZombieEntity(em *ecs.EntityManager, space *cp.Space, id ecs.EntityID) {
	if body, ok := ecs.GetComponent[*components.BodyComponent](em, id); ok && space != nil {
		if body.Shape != nil {
			space.RemoveShape(body.Shape)
		}
		if body.Body != nil {
			space.RemoveBody(body.Body)
		}
		body.Body = nil
		body.Shape = nil
		ecs.RemoveComponent[*components.BodyComponent](em, id)
	}
	em.DestroyEntity(id)
}

// DamageZombie 对僵尸造成伤害
// 返回: 僵尸是否因此死亡(生命值降到 0 及以下)
func DamageZombie(em *ecs.EntityManager, id ecs.EntityID, damage int) bool {
	zombie, ok := ecs.GetComponent[*components.ZombieComponent](em, id)
	if !ok || zombie.Health <= 0 {
		return false
	}
	zombie.Health -= damage
	return zombie.Health <= 0
}
