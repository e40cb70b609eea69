package models

import "time"

// DeviceKind identifies a simulated peripheral.
type DeviceKind string

const (
	DevicePrinter DeviceKind = "printer"
	DeviceScale   DeviceKind = "scale"
)

// ConnectionStatus is the connectivity state of a peripheral.
type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
)

// DeviceStatus is a point-in-time view of both peripherals.
type DeviceStatus struct {
	Printer   ConnectionStatus `json:"printer"`
	Scale     ConnectionStatus `json:"scale"`
	UpdatedAt time.Time        `json:"updated_at"`
}
