package gs108e

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const loginPage = `<html><body><form method="post" action="/login.cgi">
<input type="password" name="password">
</form></body></html>`

const infoPage = `<html><body>
<input type='hidden' name='switch_name' value='GS108Ev3'>
<input type='hidden' name='switch_type' value='GS108Ev3'>
<input type='hidden' name='serial_number' value='3JM1876D0007B'>
<input type='hidden' name='firmware_version' value='V2.06.24GR'>
<input type='hidden' name='bootloader_version' value='V1.00.03'>
<input type='hidden' name='ip_address' value='192.168.0.239'>
<input type='hidden' name='port_number' value='8'>
</body></html>`

func statsPage(rx, tx []uint64) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := range rx {
		fmt.Fprintf(&sb, "<input type='hidden' name='rxPkt' value='%X'>", rx[i])
		fmt.Fprintf(&sb, "<input type='hidden' name='txPkt' value='%X'>", tx[i])
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

func TestParseSwitchInfo(t *testing.T) {

	assert := assert.New(t)

	info, err := parseSwitchInfo([]byte(infoPage))
	assert.NoError(err)
	assert.Equal("GS108Ev3", info.Name)
	assert.Equal("GS108Ev3", info.Model)
	assert.Equal("3JM1876D0007B", info.Serial)
	assert.Equal("V2.06.24GR", info.Firmware)
	assert.Equal("V1.00.03", info.Bootloader)
	assert.Equal("192.168.0.239", info.IP)
	assert.Equal(8, info.PortCount)
}

func TestParseSwitchInfoEmptyPage(t *testing.T) {
	_, err := parseSwitchInfo([]byte("<html></html>"))
	assert.Error(t, err)
}

func TestParsePortCounters(t *testing.T) {

	assert := assert.New(t)

	page := statsPage([]uint64{0x100, 0x200}, []uint64{0x10, 0x20})
	ports, err := parsePortCounters([]byte(page))
	assert.NoError(err)
	assert.Len(ports, 2)
	assert.Equal(1, ports[0].Port)
	assert.Equal(uint64(0x100), ports[0].RxBytes)
	assert.Equal(uint64(0x10), ports[0].TxBytes)
	assert.Equal(2, ports[1].Port)
	assert.Equal(uint64(0x200), ports[1].RxBytes)
}

func TestParsePortCountersUnbalanced(t *testing.T) {
	page := "<input type='hidden' name='rxPkt' value='FF'>"
	_, err := parsePortCounters([]byte(page))
	assert.Error(t, err)
}

func TestDerivePortRates(t *testing.T) {

	assert := assert.New(t)

	prev := map[int]PortTraffic{
		1: {Port: 1, RxBytes: 1000, TxBytes: 500},
	}
	cur := []PortTraffic{
		{Port: 1, RxBytes: 3000, TxBytes: 1500},
	}
	out := derivePortRates(cur, prev, 2*time.Second)
	assert.Equal(1000.0, out[0].RxByteRate)
	assert.Equal(500.0, out[0].TxByteRate)
}

func TestDerivePortRatesFirstRead(t *testing.T) {

	assert := assert.New(t)

	cur := []PortTraffic{{Port: 1, RxBytes: 3000, TxBytes: 1500}}
	out := derivePortRates(cur, map[int]PortTraffic{}, 2*time.Second)
	assert.Equal(0.0, out[0].RxByteRate)
	assert.Equal(0.0, out[0].TxByteRate)
}

func TestDerivePortRatesCounterReset(t *testing.T) {

	assert := assert.New(t)

	prev := map[int]PortTraffic{
		1: {Port: 1, RxBytes: 5000, TxBytes: 5000},
	}
	// switch rebooted, counters went backwards
	cur := []PortTraffic{{Port: 1, RxBytes: 100, TxBytes: 100}}
	out := derivePortRates(cur, prev, 2*time.Second)
	assert.Equal(0.0, out[0].RxByteRate)
	assert.Equal(0.0, out[0].TxByteRate)
}

func testSwitchServer(t *testing.T, password string) *httptest.Server {
	t.Helper()
	loggedIn := false
	reads := 0
	mux := http.NewServeMux()
	mux.HandleFunc(loginPath, func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("password") == password {
			loggedIn = true
			fmt.Fprint(w, "<html><body>ok</body></html>")
			return
		}
		fmt.Fprint(w, loginPage)
	})
	mux.HandleFunc(infoPath, func(w http.ResponseWriter, r *http.Request) {
		if !loggedIn {
			fmt.Fprint(w, loginPage)
			return
		}
		fmt.Fprint(w, infoPage)
	})
	mux.HandleFunc(portStatsPath, func(w http.ResponseWriter, r *http.Request) {
		if !loggedIn {
			fmt.Fprint(w, loginPage)
			return
		}
		reads++
		base := uint64(reads) * 1000
		fmt.Fprint(w, statsPage([]uint64{base, base * 2}, []uint64{base / 2, base}))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSwitchReaderAgainstFakeSwitch(t *testing.T) {

	assert := assert.New(t)

	srv := testSwitchServer(t, "secret")
	host := strings.TrimPrefix(srv.URL, "http://")

	reader, err := CreateSwitchReader(host, "secret", 2*time.Second, zap.NewNop())
	assert.NoError(err)
	assert.NoError(reader.Open())

	info, err := reader.GetInfo()
	assert.NoError(err)
	assert.Equal("GS108Ev3", info.Model)
	assert.Equal(8, info.PortCount)

	first, err := reader.GetPortStats()
	assert.NoError(err)
	assert.Len(first.Ports, 2)
	// rates need two reads
	assert.Equal(0.0, first.Ports[0].RxByteRate)

	second, err := reader.GetPortStats()
	assert.NoError(err)
	assert.True(second.Ports[0].RxBytes > first.Ports[0].RxBytes)
	assert.True(second.Ports[0].RxByteRate > 0)

	assert.NoError(reader.Close())
}

func TestSwitchReaderBadPassword(t *testing.T) {

	assert := assert.New(t)

	srv := testSwitchServer(t, "secret")
	host := strings.TrimPrefix(srv.URL, "http://")

	reader, err := CreateSwitchReader(host, "wrong", 2*time.Second, zap.NewNop())
	assert.NoError(err)
	assert.Error(reader.Open())
}
