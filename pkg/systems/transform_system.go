package systems

import (
	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/ecs"
)

// TransformSystem 父子挂接跟随系统
//
// 每帧让挂在父实体下的实体跟随父实体:Position = parent.Position + LocalOffset。
// 父实体已被标记删除或已不存在时,子实体保持最后的世界坐标,
// 通过 OnLostParent 交给调用方处理(发声器挂回收纳节点)。
type TransformSystem struct {
	entityManager *ecs.EntityManager

	// OnLostParent 父实体消失的子实体列表(按ID升序)
	// 为 nil 时子实体直接挂到世界根节点
	OnLostParent func(ids []ecs.EntityID)
}

// NewTransformSystem 创建跟随系统
func NewTransformSystem(em *ecs.EntityManager, onLostParent func(ids []ecs.EntityID)) *TransformSystem {
	return &TransformSystem{
		entityManager: em,
		OnLostParent:  onLostParent,
	}
}

// Update 更新所有挂接实体的世界坐标
// 按ID升序处理,父实体先于子实体创建时多级挂接在同一帧内收敛
func (s *TransformSystem) Update(deltaTime float64) {
	var orphans []ecs.EntityID

	for _, id := range ecs.GetEntitiesWith1[*components.TransformComponent](s.entityManager) {
		tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if !ok || tr.Parent == 0 {
			continue
		}

		if !s.entityManager.Exists(tr.Parent) || s.entityManager.IsMarkedForDestroy(tr.Parent) {
			orphans = append(orphans, id)
			continue
		}

		parent, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, tr.Parent)
		if !ok {
			continue
		}
		tr.Position = parent.Position.Add(tr.LocalOffset)
	}

	if len(orphans) == 0 {
		return
	}
	if s.OnLostParent != nil {
		s.OnLostParent(orphans)
		return
	}
	for _, id := range orphans {
		if tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id); ok {
			tr.Parent = 0
			tr.LocalOffset = tr.Position
		}
	}
}
