package entities

import (
	"fmt"

	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/jakecoffman/cp"
)

// PlayerMaxHealth 玩家最大生命值
const PlayerMaxHealth = 10.0

// NewPlayerEntity 创建玩家实体
// 玩家同时是监听器:空间音频以玩家位置为参考点
func NewPlayerEntity(em *ecs.EntityManager, pos cp.Vector) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	id := em.CreateEntity()
	em.AddComponent(id, &components.TransformComponent{Position: pos, LocalOffset: pos})
	em.AddComponent(id, &components.AudioListenerComponent{})
	em.AddComponent(id, &components.PlayerComponent{Health: PlayerMaxHealth, MaxHealth: PlayerMaxHealth})
	return id, nil
}

// DamagePlayer 扣除玩家生命值
// 返回: 玩家是否死亡
func DamagePlayer(em *ecs.EntityManager, id ecs.EntityID, damage float64) bool {
	player, ok := ecs.GetComponent[*components.PlayerComponent](em, id)
	if !ok || player.Health <= 0 {
		return false
	}
	player.Health -= damage
	if player.Health < 0 {
		player.Health = 0
	}
	return player.Health == 0
}

// HealPlayer 回复生命值(不超过上限)
func HealPlayer(em *ecs.EntityManager, id ecs.EntityID, amount float64) {
	player, ok := ecs.GetComponent[*components.PlayerComponent](em, id)
	if !ok || player.Health <= 0 {
		return
	}
	player.Health += amount
	if player.Health > player.MaxHealth {
		player.Health = player.MaxHealth
	}
}
