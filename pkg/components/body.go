package components

import "github.com/jakecoffman/cp"

// BodyComponent 物理刚体
// BodySyncSystem 每帧把刚体位置同步到 TransformComponent
type BodyComponent struct {
	Body  *cp.Body
	Shape *cp.Shape // 刚体的碰撞形状,销毁时一起移出 cp.Space
}
