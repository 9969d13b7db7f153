package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScanResult is the outcome of one discovery run for one target. Error and a
// populated host list are mutually exclusive: a failed scan carries no hosts.
type ScanResult struct {
	ID          string        `json:"id"`
	TargetName  string        `json:"target_name"`
	TargetRange string        `json:"target_range"`
	Hosts       []HostRecord  `json:"hosts,omitempty"`
	ScanTime    time.Time     `json:"scan_time"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
}

// NewScanResult creates an empty result for a target with the scan clock
// started
func NewScanResult(targetName, targetRange string) *ScanResult {
	return &ScanResult{
		ID:          uuid.NewString(),
		TargetName:  targetName,
		TargetRange: targetRange,
		ScanTime:    time.Now(),
	}
}

// Fail marks the result as a scan-level failure, discarding any hosts
func (r *ScanResult) Fail(err error) *ScanResult {
	r.Error = err.Error()
	r.Hosts = nil
	r.Duration = time.Since(r.ScanTime)
	return r
}

// HostsUp counts hosts that replied during the scan
func (r *ScanResult) HostsUp() int {
	n := 0
	for _, h := range r.Hosts {
		if h.Status == HostStatusUp {
			n++
		}
	}
	return n
}

// HostsDown counts expected hosts that did not reply
func (r *ScanResult) HostsDown() int {
	n := 0
	for _, h := range r.Hosts {
		if h.Status == HostStatusDown {
			n++
		}
	}
	return n
}

// NewHosts returns the hosts seen for the first time in this scan
func (r *ScanResult) NewHosts() []HostRecord {
	var out []HostRecord
	for _, h := range r.Hosts {
		if h.IsNew {
			out = append(out, h)
		}
	}
	return out
}
