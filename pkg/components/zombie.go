package components

// ZombieComponent 僵尸标记与音效计时
type ZombieComponent struct {
	Speed       float64 // 游荡速度(像素/秒)
	NoiseTimer  float64 // 距离下一次低吼的时间(秒)
	WanderTimer float64 // 距离下一次换方向的时间(秒)
	AttackTimer float64 // 攻击冷却(秒)
	Health      int
}

// PickupComponent 可拾取物(血包)
type PickupComponent struct {
	Amount    int  // 回复量
	Collected bool // 已被拾取
}
