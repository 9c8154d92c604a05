package entities

import (
	"fmt"

	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/jakecoffman/cp"
)

// PickupRadius 拾取半径(像素)
const PickupRadius = 24.0

// NewHealthPickupEntity 创建血包实体
// 拾取音效挂在血包上,血包随后被销毁,音效由音源池收回
func NewHealthPickupEntity(em *ecs.EntityManager, pos cp.Vector, amount int) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if amount <= 0 {
		return 0, fmt.Errorf("invalid pickup amount %d", amount)
	}

	id := em.CreateEntity()
	em.AddComponent(id, &components.TransformComponent{Position: pos, LocalOffset: pos})
	em.AddComponent(id, &components.PickupComponent{Amount: amount})
	return id, nil
}

// FindPickupInRange 查找 pos 附近第一个未被拾取的血包
// 返回: 血包实体ID,没有时返回 0
func FindPickupInRange(em *ecs.EntityManager, pos cp.Vector) ecs.EntityID {
	for _, id := range ecs.GetEntitiesWith2[*components.PickupComponent, *components.TransformComponent](em) {
		pickup, _ := ecs.GetComponent[*components.PickupComponent](em, id)
		tr, _ := ecs.GetComponent[*components.TransformComponent](em, id)
		if pickup.Collected || em.IsMarkedForDestroy(id) {
			continue
		}
		if tr.Position.Distance(pos) <= PickupRadius {
			return id
		}
	}
	return 0
}
