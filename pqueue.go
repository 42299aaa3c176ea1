package main

// openItem is a frontier entry keyed on (f, g). Ties on f break toward larger
// g, preferring deeper nodes at equal estimated cost.
type openItem struct {
	f, g int
	node searchNode
}

func openLess(a, b openItem) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	return a.g > b.g
}

// openList is a binary min-heap of frontier nodes.
type openList struct {
	items []openItem
}

func (o *openList) Len() int {
	return len(o.items)
}

func (o *openList) Push(item openItem) {
	o.items = append(o.items, item)
	i := len(o.items) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if !openLess(o.items[i], o.items[parent]) {
			break
		}
		o.items[i], o.items[parent] = o.items[parent], o.items[i]
		i = parent
	}
}

func (o *openList) PopMin() (openItem, bool) {
	if len(o.items) == 0 {
		return openItem{}, false
	}
	min := o.items[0]
	last := len(o.items) - 1
	o.items[0] = o.items[last]
	o.items = o.items[:last]
	o.siftDown(0)
	return min, true
}

func (o *openList) siftDown(i int) {
	n := len(o.items)
	for {
		left := 2*i + 1
		if left >= n {
			return
		}
		smallest := left
		if right := left + 1; right < n && openLess(o.items[right], o.items[left]) {
			smallest = right
		}
		if !openLess(o.items[smallest], o.items[i]) {
			return
		}
		o.items[i], o.items[smallest] = o.items[smallest], o.items[i]
		i = smallest
	}
}
