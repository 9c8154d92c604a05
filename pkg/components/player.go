package components

// PlayerComponent 玩家状态
type PlayerComponent struct {
	Health    float64
	MaxHealth float64
	StepTimer float64 // 距离下一次脚步声的时间(秒)
}
