package systems

import "github.com/pthm-cable/slime/components"

// CPUDevice is the parallel execution domain's working set of agents.
// Kernels mutate it in place; the population store copies in and out of it
// at tick boundaries only.
type CPUDevice struct {
	agents []components.Agent
}

// NewCPUDevice creates an empty device.
func NewCPUDevice() *CPUDevice {
	return &CPUDevice{}
}

// Upload replaces the working set.
func (d *CPUDevice) Upload(agents []components.Agent) {
	d.agents = append(d.agents[:0], agents...)
}

// Download appends the working set to dst.
func (d *CPUDevice) Download(dst []components.Agent) []components.Agent {
	return append(dst, d.agents...)
}

// Agents returns the working set for a kernel pass. Valid until the next Upload.
func (d *CPUDevice) Agents() []components.Agent { return d.agents }

// Len returns the number of agents on the device.
func (d *CPUDevice) Len() int { return len(d.agents) }
