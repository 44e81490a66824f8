package component

// Clone returns an independent copy with the same kind, pin bindings,
// parameters and integrated state. The clone is not bound to any graph.
func (c *Component) Clone() *Component {
	dup := *c
	dup.nodes = nil

	dup.pins = make([]Pin, len(c.pins))
	copy(dup.pins, c.pins)

	dup.params = make(map[string]float64, len(c.params))
	for k, v := range c.params {
		dup.params[k] = v
	}

	return &dup
}
