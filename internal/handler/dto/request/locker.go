package request

import "book-locker/internal/domain/locker"

type ProvisionLockerRequest struct {
	Number int `json:"number" binding:"required,min=1"`
}

type CloseLockerRequest struct {
	// BookPresent is reported by the compartment sensor.
	BookPresent *bool `json:"book_present" binding:"required"`
}

type EmergencyOpenRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ReportFaultRequest struct {
	Kind string `json:"kind" binding:"required,oneof=DOOR_STUCK SENSOR NETWORK"`
}

func (r ReportFaultRequest) FaultKind() locker.FaultKind {
	return locker.FaultKind(r.Kind)
}
