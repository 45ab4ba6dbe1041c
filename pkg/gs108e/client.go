package gs108e

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// The GS108E family exposes no API, only the Plus Utility web UI. The client
// logs in with the device password, keeps the session cookie and scrapes the
// info and port statistics pages. Counters on the statistics page are
// rendered as hex strings in hidden form inputs.

const (
	loginPath     = "/login.cgi"
	infoPath      = "/switch_info.htm"
	portStatsPath = "/portStatistics.cgi"
)

var (
	hiddenInputRegexp = regexp.MustCompile(`<input[^>]+type=['"]hidden['"][^>]+name=['"]([a-zA-Z0-9_]+)['"][^>]+value=['"]([^'"]*)['"]`)
	loginFormRegexp   = regexp.MustCompile(`name=['"]password['"]`)
)

type httpSwitchReader struct {
	host     string
	password string
	client   *http.Client
	logger   *zap.Logger

	prevCounters map[int]PortTraffic
	prevReadAt   time.Time
}

// CreateSwitchReader returns a SwitchReader backed by the web UI of the
// switch at host. Open must be called before the first read.
func CreateSwitchReader(host string, password string, timeout time.Duration, logger *zap.Logger) (SwitchReader, error) {
	if host == "" {
		return nil, errors.New("gs108e: host is required")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &httpSwitchReader{
		host:     host,
		password: password,
		client: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		logger:       logger.With(zap.String("switch", host)),
		prevCounters: map[int]PortTraffic{},
	}, nil
}

func (r *httpSwitchReader) Open() error {
	return r.login()
}

func (r *httpSwitchReader) Close() error {
	r.client.CloseIdleConnections()
	return nil
}

func (r *httpSwitchReader) login() error {
	form := url.Values{}
	form.Set("password", r.password)
	resp, err := r.client.PostForm(r.baseURL()+loginPath, form)
	if err != nil {
		return fmt.Errorf("gs108e: login request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("gs108e: login response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gs108e: login returned status %d", resp.StatusCode)
	}
	// a successful login redirects past the login form
	if loginFormRegexp.Match(body) {
		return errors.New("gs108e: login rejected, check the device password")
	}
	r.logger.Debug("login ok")
	return nil
}

func (r *httpSwitchReader) GetInfo() (*SwitchInfo, error) {
	body, err := r.fetch(infoPath)
	if err != nil {
		return nil, err
	}
	info, err := parseSwitchInfo(body)
	if err != nil {
		return nil, err
	}
	if info.IP == "" {
		info.IP = r.host
	}
	return info, nil
}

func (r *httpSwitchReader) GetPortStats() (*PortStatsReport, error) {
	start := time.Now()
	body, err := r.fetch(portStatsPath)
	if err != nil {
		return nil, err
	}
	responseTime := time.Since(start)

	counters, err := parsePortCounters(body)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ports := derivePortRates(counters, r.prevCounters, now.Sub(r.prevReadAt))

	r.prevCounters = map[int]PortTraffic{}
	for _, p := range ports {
		r.prevCounters[p.Port] = p
	}
	r.prevReadAt = now

	return &PortStatsReport{
		TakenAt:      now,
		ResponseTime: responseTime,
		Ports:        ports,
	}, nil
}

// fetch gets a page and retries once through login when the session cookie
// has expired and the device answers with its login form.
func (r *httpSwitchReader) fetch(path string) ([]byte, error) {
	body, err := r.get(path)
	if err != nil {
		return nil, err
	}
	if loginFormRegexp.Match(body) {
		r.logger.Debug("session expired, logging in again")
		if err := r.login(); err != nil {
			return nil, err
		}
		body, err = r.get(path)
		if err != nil {
			return nil, err
		}
		if loginFormRegexp.Match(body) {
			return nil, errors.New("gs108e: still unauthenticated after login")
		}
	}
	return body, nil
}

func (r *httpSwitchReader) get(path string) ([]byte, error) {
	resp, err := r.client.Get(r.baseURL() + path)
	if err != nil {
		return nil, fmt.Errorf("gs108e: get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gs108e: get %s returned status %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (r *httpSwitchReader) baseURL() string {
	return fmt.Sprintf("http://%s", r.host)
}

func parseSwitchInfo(body []byte) (*SwitchInfo, error) {
	fields := map[string]string{}
	for _, m := range hiddenInputRegexp.FindAllStringSubmatch(string(body), -1) {
		fields[m[1]] = m[2]
	}
	if len(fields) == 0 {
		return nil, errors.New("gs108e: no info fields found on switch info page")
	}
	info := &SwitchInfo{
		Name:       fields["switch_name"],
		Model:      fields["switch_type"],
		Serial:     fields["serial_number"],
		Firmware:   fields["firmware_version"],
		Bootloader: fields["bootloader_version"],
		IP:         fields["ip_address"],
	}
	if v, ok := fields["port_number"]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("gs108e: bad port_number %q: %w", v, err)
		}
		info.PortCount = n
	}
	return info, nil
}

// parsePortCounters reads the per-port rxPkt/txPkt hidden inputs, rendered
// in page order as hex byte counters, one pair per port.
func parsePortCounters(body []byte) ([]PortTraffic, error) {
	var rx, tx []uint64
	for _, m := range hiddenInputRegexp.FindAllStringSubmatch(string(body), -1) {
		switch m[1] {
		case "rxPkt":
			v, err := strconv.ParseUint(strings.TrimSpace(m[2]), 16, 64)
			if err != nil {
				return nil, fmt.Errorf("gs108e: bad rx counter %q: %w", m[2], err)
			}
			rx = append(rx, v)
		case "txPkt":
			v, err := strconv.ParseUint(strings.TrimSpace(m[2]), 16, 64)
			if err != nil {
				return nil, fmt.Errorf("gs108e: bad tx counter %q: %w", m[2], err)
			}
			tx = append(tx, v)
		}
	}
	if len(rx) == 0 || len(rx) != len(tx) {
		return nil, fmt.Errorf("gs108e: unbalanced port counters (%d rx, %d tx)", len(rx), len(tx))
	}
	ports := make([]PortTraffic, len(rx))
	for i := range rx {
		ports[i] = PortTraffic{
			Port:    i + 1,
			RxBytes: rx[i],
			TxBytes: tx[i],
		}
	}
	return ports, nil
}

// derivePortRates fills byte rates from the delta against the previous read.
// A shrinking counter means the switch rebooted or the counter wrapped; the
// rate is reported as zero for that cycle instead of a negative value.
func derivePortRates(cur []PortTraffic, prev map[int]PortTraffic, elapsed time.Duration) []PortTraffic {
	if elapsed <= 0 || len(prev) == 0 {
		return cur
	}
	secs := elapsed.Seconds()
	for i := range cur {
		p, ok := prev[cur[i].Port]
		if !ok {
			continue
		}
		if cur[i].RxBytes >= p.RxBytes {
			cur[i].RxByteRate = float64(cur[i].RxBytes-p.RxBytes) / secs
		}
		if cur[i].TxBytes >= p.TxBytes {
			cur[i].TxByteRate = float64(cur[i].TxBytes-p.TxBytes) / secs
		}
	}
	return cur
}
