package components

import (
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/jakecoffman/cp"
)

// TransformComponent 世界坐标与父子挂接关系
//
// Parent 为 0 表示挂在世界根节点;挂到父实体后,TransformSystem 每帧用
// Position = parent.Position + LocalOffset 跟随父实体移动。
type TransformComponent struct {
	Position    cp.Vector    // 世界坐标
	Parent      ecs.EntityID // 父实体(0 = 无)
	LocalOffset cp.Vector    // 相对父实体的偏移
}
