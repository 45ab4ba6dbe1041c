package events

import (
	"fmt"

	. "gs108e2mqtt/internal/core/domain"
	"gs108e2mqtt/pkg/gs108e"
)

const bytesPerMegabyte = 1e6

// PortStatsSnapshot flattens one poll of the switch into keyed values.
// Keys match the catalog descriptors so entities can look themselves up.
func PortStatsSnapshot(info *gs108e.SwitchInfo, report *gs108e.PortStatsReport) *MetricsSnapshot {
	values := map[string]any{
		SENSOR_ID_SWITCH_IP:            info.IP,
		SENSOR_ID_SWITCH_NAME:          info.Name,
		SENSOR_ID_SWITCH_BOOTLOADER:    info.Bootloader,
		SENSOR_ID_SWITCH_FIRMWARE:      info.Firmware,
		SENSOR_ID_SWITCH_SERIAL_NUMBER: info.Serial,
		SENSOR_ID_RESPONSE_TIME:        report.ResponseTime.Seconds(),
	}

	for _, port := range report.Ports {
		values[fmt.Sprintf("port_%d_traffic_rx_mbytes", port.Port)] = float64(port.RxBytes) / bytesPerMegabyte
		values[fmt.Sprintf("port_%d_traffic_tx_mbytes", port.Port)] = float64(port.TxBytes) / bytesPerMegabyte
		values[fmt.Sprintf("port_%d_speed_rx_mbytes", port.Port)] = port.RxByteRate / bytesPerMegabyte
		values[fmt.Sprintf("port_%d_speed_tx_mbytes", port.Port)] = port.TxByteRate / bytesPerMegabyte
		values[fmt.Sprintf("port_%d_speed_io_mbytes", port.Port)] = (port.RxByteRate + port.TxByteRate) / bytesPerMegabyte
	}

	return &MetricsSnapshot{
		TakenAt: report.TakenAt,
		Values:  values,
	}
}
