package layout

// FontKey is the identity used to deduplicate font declarations.
type FontKey struct {
	Family string
	Size   int
	Color  string
}

// FontSpec is a FontKey with its assigned id.
type FontSpec struct {
	ID int
	FontKey
}

// FontTable assigns small positive ids to font keys in first-seen order.
// The zero value is ready to use.
type FontTable struct {
	ids   map[FontKey]int
	order []FontKey
}

// ID returns the id of k, allocating the next one on first encounter.
func (t *FontTable) ID(k FontKey) int {
	if id, ok := t.ids[k]; ok {
		return id
	}
	if t.ids == nil {
		t.ids = make(map[FontKey]int)
	}
	t.order = append(t.order, k)
	id := len(t.order)
	t.ids[k] = id
	return id
}

// Lookup returns the id of k without allocating one.
func (t *FontTable) Lookup(k FontKey) (int, bool) {
	id, ok := t.ids[k]
	return id, ok
}

// Len returns the number of distinct fonts.
func (t *FontTable) Len() int { return len(t.order) }

// Specs returns every font grouped by family, then by size, then by color.
// Groups appear in the order their first member was seen.
func (t *FontTable) Specs() []FontSpec {
	type familySize struct {
		family string
		size   int
	}
	var (
		families []string
		sizes    = make(map[string][]int)
		colors   = make(map[familySize][]FontKey)
	)
	for _, k := range t.order {
		fs := familySize{k.Family, k.Size}
		if _, ok := sizes[k.Family]; !ok {
			families = append(families, k.Family)
		}
		if _, ok := colors[fs]; !ok {
			sizes[k.Family] = append(sizes[k.Family], k.Size)
		}
		colors[fs] = append(colors[fs], k)
	}

	specs := make([]FontSpec, 0, len(t.order))
	for _, f := range families {
		for _, sz := range sizes[f] {
			for _, k := range colors[familySize{f, sz}] {
				specs = append(specs, FontSpec{ID: t.ids[k], FontKey: k})
			}
		}
	}
	return specs
}
