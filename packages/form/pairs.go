package form

// Pair is a named value held by a form: a field value or a file path.
type Pair struct {
	Name  string
	Value string
}

// pairs keeps insertion order. Re-adding a name replaces the value but keeps
// the position of the first insertion.
type pairs struct {
	items []Pair
	index map[string]int
}

func (p *pairs) set(name, value string) {
	if i, ok := p.index[name]; ok {
		p.items[i].Value = value
		return
	}
	if p.index == nil {
		p.index = make(map[string]int)
	}
	p.index[name] = len(p.items)
	p.items = append(p.items, Pair{Name: name, Value: value})
}

// setAll adds the positional zip of names and values, stopping at the end of
// the shorter slice.
func (p *pairs) setAll(names, values []string) {
	n := min(len(names), len(values))
	for i := 0; i < n; i++ {
		p.set(names[i], values[i])
	}
}

func (p *pairs) get(name string) (string, bool) {
	i, ok := p.index[name]
	if !ok {
		return "", false
	}
	return p.items[i].Value, true
}

func (p *pairs) clear() {
	p.items = nil
	p.index = nil
}

func (p *pairs) len() int {
	return len(p.items)
}

func (p *pairs) list() []Pair {
	out := make([]Pair, len(p.items))
	copy(out, p.items)
	return out
}

func (p *pairs) clone() pairs {
	c := pairs{}
	for _, item := range p.items {
		c.set(item.Name, item.Value)
	}
	return c
}
