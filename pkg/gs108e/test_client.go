package gs108e

import (
	"time"
)

func CreateTestSwitchReader() (SwitchReader, error) {
	return &TestSwitchReader{}, nil
}

// TestSwitchReader returns canned data for an 8 port switch.
type TestSwitchReader struct {
	Reads int
}

func (r *TestSwitchReader) Open() error {
	return nil
}

func (r *TestSwitchReader) Close() error {
	return nil
}

func (r *TestSwitchReader) GetInfo() (*SwitchInfo, error) {
	return &SwitchInfo{
		Name:       "GS108Ev3",
		Model:      "GS108Ev3",
		Serial:     "3JM1876D0007B",
		Firmware:   "V2.06.24GR",
		Bootloader: "V1.00.03",
		IP:         "192.168.0.239",
		PortCount:  8,
	}, nil
}

func (r *TestSwitchReader) GetPortStats() (*PortStatsReport, error) {
	r.Reads++
	ports := make([]PortTraffic, 8)
	for i := range ports {
		base := uint64((i + 1) * 1000000 * r.Reads)
		ports[i] = PortTraffic{
			Port:       i + 1,
			RxBytes:    base,
			TxBytes:    base / 2,
			RxByteRate: float64((i + 1) * 100000),
			TxByteRate: float64((i + 1) * 50000),
		}
	}
	return &PortStatsReport{
		TakenAt:      time.Now(),
		ResponseTime: 42 * time.Millisecond,
		Ports:        ports,
	}, nil
}
