package workflow

import "fmt"

// State 生成流程状态
type State string

const (
	StateIdle       State = "idle"
	StateRequesting State = "requesting"
	StateSuccess    State = "success"
	StateConflict   State = "conflict"
	StateRetrying   State = "retrying"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
)

type event string

const (
	evStart    event = "start"
	evSuccess  event = "success"
	evConflict event = "conflict"
	evFailure  event = "failure"
	evConfirm  event = "confirm"
	evDecline  event = "decline"
)

var transitions = map[State]map[event]State{
	StateIdle:       {evStart: StateRequesting, evFailure: StateFailed},
	StateSuccess:    {evStart: StateRequesting, evFailure: StateFailed},
	StateFailed:     {evStart: StateRequesting, evFailure: StateFailed},
	StateCancelled:  {evStart: StateRequesting, evFailure: StateFailed},
	StateRequesting: {evSuccess: StateSuccess, evConflict: StateConflict, evFailure: StateFailed},
	StateConflict:   {evConfirm: StateRetrying, evDecline: StateCancelled},
	StateRetrying:   {evSuccess: StateSuccess, evFailure: StateFailed},
}

// next 返回 s 在事件 ev 下的目标状态
func (s State) next(ev event) (State, error) {
	if to, ok := transitions[s][ev]; ok {
		return to, nil
	}
	return s, fmt.Errorf("invalid transition: %s --%s-->", s, ev)
}

// InFlight 是否有请求正在进行
func (s State) InFlight() bool {
	return s == StateRequesting || s == StateRetrying
}

// Terminal 是否可以发起新的生成
func (s State) Terminal() bool {
	switch s {
	case StateIdle, StateSuccess, StateFailed, StateCancelled:
		return true
	}
	return false
}
