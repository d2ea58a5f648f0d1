package resolve

// EventKind categorizes resolution trace events.
type EventKind string

const (
	// EventClassify is emitted once per Resolution after bucketing.
	EventClassify EventKind = "classify"

	// EventSlotResolved is emitted when a slot accessor produces output.
	EventSlotResolved EventKind = "slot_resolved"

	// EventOverrideApplied is emitted per override spec that matched.
	EventOverrideApplied EventKind = "override_applied"

	// EventForwardMerged is emitted when a template-as-slot binding is
	// merged into provided content.
	EventForwardMerged EventKind = "forward_merged"

	// EventAdvisory is emitted for non-fatal diagnostics.
	EventAdvisory EventKind = "advisory"

	// EventError is emitted when a pass aborts.
	EventError EventKind = "error"
)

// Event is one step of a resolution pass. Events exist for observability
// only - the engine's output never depends on whether anyone records them.
type Event struct {
	Kind   EventKind
	Slot   string
	Detail string
}

// Recorder receives resolution events. Implementations must not influence
// resolution; the engine stays pure and performs no I/O of its own.
type Recorder interface {
	Record(ev Event)
}

// MemoryRecorder collects events in order. Used by the harness and by the
// trace replay check.
type MemoryRecorder struct {
	Events []Event
}

// Record appends the event.
func (m *MemoryRecorder) Record(ev Event) {
	m.Events = append(m.Events, ev)
}

// Advisory is a non-fatal diagnostic surfaced alongside resolution.
// Advisories never block a pass.
type Advisory struct {
	// Code identifies the advisory category.
	Code AdvisoryCode

	// Slot names the affected bucket.
	Slot string

	// Message is a human-readable description.
	Message string
}

// AdvisoryCode categorizes advisories.
type AdvisoryCode string

const (
	// AdvisoryOrphanedSlot reports an annotation naming no declared slot.
	// The node is silently excluded from every declared bucket and the
	// slot's fallback renders instead - a documented quirk, not a defect.
	AdvisoryOrphanedSlot AdvisoryCode = "ORPHANED_SLOT"

	// AdvisoryMissingIdentity reports repeated structural elements in one
	// bucket that lack a stable key.
	AdvisoryMissingIdentity AdvisoryCode = "MISSING_IDENTITY"
)
