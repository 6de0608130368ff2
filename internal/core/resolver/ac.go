package resolver

// A small stdlib Aho-Corasick automaton over normalized byte strings.
// Pattern ids are table positions, so the lowest id seen in a scan is the
// earliest table entry contained in the text

type acNode struct {
	// trans[b] = next state or -1 if absent
	trans  [256]int32
	fail   int32
	output []int // pattern ids ending at this node, own and inherited via fail links
}

type acAutomaton struct {
	nodes    []acNode
	patterns int
}

func newNode() acNode {
	var n acNode
	for i := range n.trans {
		n.trans[i] = -1
	}
	return n
}

func newAutomaton() *acAutomaton {
	return &acAutomaton{nodes: []acNode{newNode()}}
}

// AddPattern inserts pat under id, empty patterns are ignored
func (a *acAutomaton) AddPattern(pat []byte, id int) {
	if len(pat) == 0 {
		return
	}
	state := int32(0)
	for _, b := range pat {
		nxt := a.nodes[state].trans[b]
		if nxt == -1 {
			nxt = int32(len(a.nodes))
			a.nodes[state].trans[b] = nxt
			a.nodes = append(a.nodes, newNode())
		}
		state = nxt
	}
	a.nodes[state].output = append(a.nodes[state].output, id)
	a.patterns++
}

// Build computes failure links breadth first and merges outputs along them
func (a *acAutomaton) Build() {
	q := make([]int32, 0, len(a.nodes))
	for b := range 256 {
		if s := a.nodes[0].trans[b]; s != -1 {
			a.nodes[s].fail = 0
			q = append(q, s)
		}
	}

	for qi := 0; qi < len(q); qi++ {
		r := q[qi]
		for b := range 256 {
			s := a.nodes[r].trans[b]
			if s == -1 {
				continue
			}
			q = append(q, s)

			f := a.nodes[r].fail
			for f != 0 && a.nodes[f].trans[b] == -1 {
				f = a.nodes[f].fail
			}
			if nxt := a.nodes[f].trans[b]; nxt != -1 {
				a.nodes[s].fail = nxt
			} else {
				a.nodes[s].fail = 0
			}
			a.nodes[s].output = append(a.nodes[s].output, a.nodes[a.nodes[s].fail].output...)
		}
	}
}

// FindAll scans text and calls cb(endIndex, patternID) for each match.
// If cb returns false, scanning stops early
func (a *acAutomaton) FindAll(text []byte, cb func(end int, id int) bool) {
	state := int32(0)
	for i, b := range text {
		for state != 0 && a.nodes[state].trans[b] == -1 {
			state = a.nodes[state].fail
		}
		if nxt := a.nodes[state].trans[b]; nxt != -1 {
			state = nxt
		}
		for _, id := range a.nodes[state].output {
			if !cb(i+1, id) {
				return
			}
		}
	}
}

// Lowest returns the smallest pattern id contained anywhere in text.
// Id 0 cannot be beaten so the scan stops as soon as it is seen
func (a *acAutomaton) Lowest(text []byte) (int, bool) {
	best := -1
	a.FindAll(text, func(_ int, id int) bool {
		if best == -1 || id < best {
			best = id
		}
		return best != 0
	})
	return best, best != -1
}
