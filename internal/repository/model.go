package repository

type CallStatus string

const (
	CallStatusConnected    CallStatus = "connected"
	CallStatusDisconnected CallStatus = "disconnected"
	CallStatusFailed       CallStatus = "failed"
)
