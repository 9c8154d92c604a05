package components

// AudioListenerComponent 监听器(通常挂在玩家实体上)
// 空间音频以该实体的 TransformComponent 位置为参考点
type AudioListenerComponent struct {
	// Paused 监听器暂停:除 IgnoreListenerPause 的发声器外全部暂停
	Paused bool
}
