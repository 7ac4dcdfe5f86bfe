package agent

import "testing"

type recordingObserver struct {
	name string
	log  *[]string
}

func (o *recordingObserver) OnThinking(event ThinkingEvent) {
	*o.log = append(*o.log, o.name+":"+string(event.Kind))
}

type panickyObserver struct{}

func (panickyObserver) OnThinking(ThinkingEvent) { panic("observer bug") }

func TestBusDeliversInRegistrationOrder(t *testing.T) {
	var log []string
	bus := NewBus(nil)
	bus.Register(&recordingObserver{name: "a", log: &log})
	bus.Register(&recordingObserver{name: "b", log: &log})

	bus.Emit(ThinkingEvent{Kind: EventFinalAnswer})

	if len(log) != 2 || log[0] != "a:final_answer" || log[1] != "b:final_answer" {
		t.Fatalf("log = %v", log)
	}
}

func TestBusContainsObserverPanic(t *testing.T) {
	var log []string
	bus := NewBus(nil)
	bus.Register(panickyObserver{})
	bus.Register(&recordingObserver{name: "b", log: &log})

	bus.Emit(ThinkingEvent{Kind: EventToolCall})

	if len(log) != 1 || log[0] != "b:tool_call" {
		t.Fatalf("panicking observer blocked delivery: %v", log)
	}
}

func TestBusUnregister(t *testing.T) {
	var log []string
	bus := NewBus(nil)
	handle := bus.Register(&recordingObserver{name: "a", log: &log})
	bus.Register(&recordingObserver{name: "b", log: &log})
	bus.Unregister(handle)

	bus.Emit(ThinkingEvent{Kind: EventToolResult})

	if len(log) != 1 || log[0] != "b:tool_result" {
		t.Fatalf("log = %v", log)
	}
	// Unknown handles are a no-op.
	bus.Unregister(999)
}
