package locker

type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusOpen      Status = "OPEN"
	StatusOccupied  Status = "OCCUPIED"
	StatusFault     Status = "FAULT"
	StatusDisabled  Status = "DISABLED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusOpen, StatusOccupied, StatusFault, StatusDisabled:
		return true
	default:
		return false
	}
}

// FaultKind narrows a FAULT for diagnostics; all kinds share one recovery path.
type FaultKind string

const (
	FaultNone      FaultKind = ""
	FaultDoorStuck FaultKind = "DOOR_STUCK"
	FaultSensor    FaultKind = "SENSOR"
	FaultNetwork   FaultKind = "NETWORK"
)

func (k FaultKind) String() string {
	return string(k)
}

func NewFaultKind(s string) (FaultKind, bool) {
	k := FaultKind(s)
	switch k {
	case FaultDoorStuck, FaultSensor, FaultNetwork:
		return k, true
	default:
		return FaultNone, false
	}
}

type EventType string

const (
	EventProvision     EventType = "PROVISION"
	EventOpen          EventType = "OPEN"
	EventClose         EventType = "CLOSE"
	EventAssign        EventType = "ASSIGN"
	EventRelease       EventType = "RELEASE"
	EventDoorTimeout   EventType = "DOOR_TIMEOUT"
	EventFault         EventType = "FAULT"
	EventEscalate      EventType = "ESCALATE"
	EventAcknowledge   EventType = "ACKNOWLEDGE"
	EventReset         EventType = "RESET"
	EventDisable       EventType = "DISABLE"
	EventEmergencyOpen EventType = "EMERGENCY_OPEN"
)

type Result string

const (
	ResultSuccess  Result = "SUCCESS"
	ResultRejected Result = "REJECTED"
)
