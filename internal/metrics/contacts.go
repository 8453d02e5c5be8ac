package metrics

import "github.com/san-kum/rigid2d/internal/sim"

// Contacts is the mean number of contacts per tick.
type Contacts struct {
	name    string
	sum     int
	samples int
}

func NewContacts() *Contacts {
	return &Contacts{name: "contacts"}
}

func (c *Contacts) Name() string { return c.name }

func (c *Contacts) Observe(f *sim.Frame) {
	c.sum += f.Stats.Contacts()
	c.samples++
}

func (c *Contacts) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.sum) / float64(c.samples)
}

func (c *Contacts) Reset() {
	c.sum = 0
	c.samples = 0
}

// MaxOverlap is the deepest penetration resolved during the run.
type MaxOverlap struct {
	name string
	max  float64
}

func NewMaxOverlap() *MaxOverlap {
	return &MaxOverlap{name: "max_overlap"}
}

func (m *MaxOverlap) Name() string { return m.name }

func (m *MaxOverlap) Observe(f *sim.Frame) {
	if f.Stats.MaxOverlap > m.max {
		m.max = f.Stats.MaxOverlap
	}
}

func (m *MaxOverlap) Value() float64 { return m.max }

func (m *MaxOverlap) Reset() { m.max = 0 }
