package audio

import "sync/atomic"

type eventKind int

const (
	eventNoteOn eventKind = iota
	eventNoteOff
)

// event is a note lifecycle change, applied at a sample offset relative to
// the start of the block being processed.
type event struct {
	kind     eventKind
	note     int
	velocity float64
	offset   int
}

// eventBuffer is a lock-free spsc queue.
type eventBuffer struct {
	events      []event
	read, write atomic.Uint32
}

func newEventBuffer(size int) *eventBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("event buffer size must be a power of 2")
	}
	return &eventBuffer{events: make([]event, size)}
}

// push appends an event and reports whether it was accepted. A full buffer
// drops the event rather than blocking: nothing may drain the queue until
// the next Process call, which the pushing goroutine must not wait on.
func (b *eventBuffer) push(ev event) bool {
	write := b.write.Load()
	if write-b.read.Load() == uint32(len(b.events)) {
		return false
	}
	b.events[write%uint32(len(b.events))] = ev
	b.write.Store(write + 1)
	return true
}

// iter consumes events with offsets below untilOffset, in push order. An
// untilOffset of -1 drains the buffer.
func (b *eventBuffer) iter(untilOffset int, f func(event)) {
	read := b.read.Load()
	write := b.write.Load()
	if read == write {
		return
	}
	for read != write {
		event := b.events[read%uint32(len(b.events))]
		if event.offset >= untilOffset && untilOffset != -1 {
			break
		}
		f(event)
		read++
	}
	b.read.Store(read)
}
