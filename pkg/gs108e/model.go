package gs108e

import (
	"time"
)

// SwitchInfo holds the structural facts of the switch. These are read once
// at setup and do not change while the device is powered.
type SwitchInfo struct {
	Name       string
	Model      string
	Serial     string
	Firmware   string
	Bootloader string
	IP         string
	PortCount  int
}

// PortTraffic is the traffic reading of a single physical port. Byte rates
// are derived from the counter delta between two consecutive reads and are
// zero on the first read and after a counter wrap or reset.
type PortTraffic struct {
	Port       int
	RxBytes    uint64
	TxBytes    uint64
	RxByteRate float64 // bytes per second
	TxByteRate float64 // bytes per second
}

// PortStatsReport is one full poll cycle result.
type PortStatsReport struct {
	TakenAt      time.Time
	ResponseTime time.Duration
	Ports        []PortTraffic
}

type SwitchReader interface {
	Open() error
	Close() error
	GetInfo() (*SwitchInfo, error)
	GetPortStats() (*PortStatsReport, error)
}
