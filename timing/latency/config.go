package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds latency values for the stages of an address
// translation. All values are in nanoseconds of simulated time.
type TimingConfig struct {
	// L1TLBLatency is charged per L1 TLB lookup, hit or miss.
	// Default: 1 ns.
	L1TLBLatency uint64 `json:"l1_tlb_latency"`

	// L2TLBLatency is charged per L2 TLB lookup, hit or miss.
	// Default: 4 ns.
	L2TLBLatency uint64 `json:"l2_tlb_latency"`

	// PageWalkLatency is charged per page-table walk on a full TLB miss.
	// Default: 100 ns.
	PageWalkLatency uint64 `json:"page_walk_latency"`

	// MemoryLatency is charged per page written back to physical memory.
	// Default: 150 ns.
	MemoryLatency uint64 `json:"memory_latency"`
}

// DefaultTimingConfig returns a TimingConfig with default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		L1TLBLatency:    1,
		L2TLBLatency:    4,
		PageWalkLatency: 100,
		MemoryLatency:   150,
	}
}

// LoadConfig loads a TimingConfig from a JSON file.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0).
func (c *TimingConfig) Validate() error {
	if c.L1TLBLatency == 0 {
		return fmt.Errorf("l1_tlb_latency must be > 0")
	}
	if c.L2TLBLatency == 0 {
		return fmt.Errorf("l2_tlb_latency must be > 0")
	}
	if c.PageWalkLatency == 0 {
		return fmt.Errorf("page_walk_latency must be > 0")
	}
	if c.MemoryLatency == 0 {
		return fmt.Errorf("memory_latency must be > 0")
	}
	if c.L1TLBLatency > c.L2TLBLatency {
		return fmt.Errorf("l1_tlb_latency must be <= l2_tlb_latency")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	return &TimingConfig{
		L1TLBLatency:    c.L1TLBLatency,
		L2TLBLatency:    c.L2TLBLatency,
		PageWalkLatency: c.PageWalkLatency,
		MemoryLatency:   c.MemoryLatency,
	}
}
