package nav

import "github.com/stephenmfriend/taskpane/keys"

// Consumer is a key event recipient.
type Consumer int

const (
	ConsumerNone Consumer = iota
	ConsumerForm
	ConsumerDetail
	ConsumerAgents
	ConsumerBoard
)

func (c Consumer) String() string {
	switch c {
	case ConsumerForm:
		return "form"
	case ConsumerDetail:
		return "detail"
	case ConsumerAgents:
		return "agents"
	case ConsumerBoard:
		return "board"
	default:
		return "none"
	}
}

type route struct {
	consumer Consumer
	active   func(SelectionState) bool
}

// precedence is checked top to bottom; the first active route wins.
var precedence = []route{
	{ConsumerForm, func(s SelectionState) bool { return s.Overlay == OverlayForm }},
	{ConsumerDetail, func(s SelectionState) bool { return s.Overlay == OverlayDetail }},
	{ConsumerAgents, func(s SelectionState) bool { return s.ActivePane == PaneAgents }},
	{ConsumerBoard, func(SelectionState) bool { return true }},
}

// Router delivers each key event to exactly one consumer.
type Router struct {
	c        *Controller
	handlers map[Consumer]func(keys.Event)
}

// NewRouter returns a router over c.
func NewRouter(c *Controller) *Router {
	r := &Router{c: c}
	r.handlers = map[Consumer]func(keys.Event){
		ConsumerForm: func(ev keys.Event) {
			if f := c.Form(); f != nil {
				f.HandleKey(ev)
			}
		},
		ConsumerDetail: func(ev keys.Event) {
			if d := c.Detail(); d != nil {
				d.HandleKey(ev)
			}
		},
		ConsumerAgents: c.handleAgents,
		ConsumerBoard:  c.handleBoard,
	}
	return r
}

// Resolve returns the consumer that would receive the next event.
func (r *Router) Resolve() Consumer {
	s := r.c.State()
	for _, rt := range precedence {
		if rt.active(s) {
			return rt.consumer
		}
	}
	return ConsumerNone
}

// Dispatch routes ev. Events with a key name the terminal layer has no key
// for are dropped, and ok is false.
func (r *Router) Dispatch(ev keys.Event) (Consumer, bool) {
	if _, known := ev.Tea(); !known {
		return ConsumerNone, false
	}
	consumer := r.Resolve()
	handle, ok := r.handlers[consumer]
	if !ok {
		return ConsumerNone, false
	}
	handle(ev)
	return consumer, true
}
