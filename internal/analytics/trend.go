package analytics

// Direction 单价走势方向
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// Change 最新一期相对第一期的单价变化；时间线少于两点时 ok=false
func (p ProductTrend) Change() (delta float64, direction Direction, ok bool) {
	if len(p.Timeline) < 2 {
		return 0, DirectionFlat, false
	}
	latest, _ := p.Latest()
	delta = latest.AveragePrice - p.Timeline[0].AveragePrice
	switch {
	case delta > 0:
		direction = DirectionUp
	case delta < 0:
		direction = DirectionDown
	default:
		direction = DirectionFlat
	}
	return delta, direction, true
}

// Latest 最新一期的平均单价
func (p ProductTrend) Latest() (PricePoint, bool) {
	if len(p.Timeline) == 0 {
		return PricePoint{}, false
	}
	return p.Timeline[len(p.Timeline)-1], true
}
