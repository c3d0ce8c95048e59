package server

import (
	"fmt"
	"os"
	"time"

	"github.com/syncdeck/syncdeck/internal/api"

	"gopkg.in/yaml.v3"
)

// ScenarioWorker is one simulated worker as declared in a scenario file.
type ScenarioWorker struct {
	ClientID   string `yaml:"client_id"`
	Claimed    bool   `yaml:"claimed"`
	LinkedUser string `yaml:"linked_user"`
	Hostname   string `yaml:"hostname"`
}

// Scenario declares what the simulator streams: the worker roster and a
// connectivity script for the linked worker, advanced every interval.
type Scenario struct {
	// Interval between frames, e.g. "2s".
	Interval string `yaml:"interval"`
	// Workers is the roster broadcast on the worker-list endpoint.
	Workers []ScenarioWorker `yaml:"workers"`
	// Connectivity is cycled on the status endpoint; empty means always connected.
	Connectivity []bool `yaml:"connectivity"`
}

// LoadScenario reads a scenario from a YAML file. An empty path returns the
// built-in default scenario.
func LoadScenario(path string) (*Scenario, error) {
	if path == "" {
		return DefaultScenario(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var s Scenario
	if err = yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}
	if _, err = s.IntervalDuration(); err != nil {
		return nil, err
	}
	return &s, nil
}

// DefaultScenario returns a small roster with a flapping linked worker.
func DefaultScenario() *Scenario {
	return &Scenario{
		Interval: "2s",
		Workers: []ScenarioWorker{
			{ClientID: "worker-01", Claimed: true, LinkedUser: "dev@example.com", Hostname: "deck-01"},
			{ClientID: "worker-02", Claimed: false, Hostname: "deck-02"},
		},
		Connectivity: []bool{true, true, true, false},
	}
}

// IntervalDuration parses the frame interval, defaulting to 2s.
func (s *Scenario) IntervalDuration() (time.Duration, error) {
	if s.Interval == "" {
		return 2 * time.Second, nil
	}
	d, err := time.ParseDuration(s.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid scenario interval %q: %w", s.Interval, err)
	}
	return d, nil
}

// Snapshot converts the declared roster into wire-format snapshots.
func (s *Scenario) Snapshot() []api.WorkerSnapshot {
	now := time.Now().UTC().Format(time.RFC3339)
	out := make([]api.WorkerSnapshot, 0, len(s.Workers))
	for _, w := range s.Workers {
		snapshot := api.WorkerSnapshot{
			ClientID: w.ClientID,
			Claimed:  w.Claimed,
		}
		if w.LinkedUser != "" {
			linked := w.LinkedUser
			snapshot.LinkedUser = &linked
		}
		if w.Hostname != "" {
			hostname := w.Hostname
			snapshot.Hostname = &hostname
		}
		ping := now
		snapshot.LastPingResponse = &ping
		out = append(out, snapshot)
	}
	return out
}

// ConnectedAt returns the scripted connectivity for the given tick.
func (s *Scenario) ConnectedAt(tick int) bool {
	if len(s.Connectivity) == 0 {
		return true
	}
	return s.Connectivity[tick%len(s.Connectivity)]
}
