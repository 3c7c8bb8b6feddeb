package gen

import "math/rand"

// Every stochastic decision in the pipeline is a named distribution drawing
// from one seedable source, so a fixed seed reproduces a dataset exactly and
// tests can assert outcomes deterministically.

// Bernoulli is an independent yes/no draw with probability P.
type Bernoulli struct {
	P float64
}

func (d Bernoulli) Draw(r *rand.Rand) bool {
	return r.Float64() < d.P
}

// UniformInt draws uniformly from the inclusive range [Lo, Hi].
type UniformInt struct {
	Lo, Hi int
}

func (d UniformInt) Draw(r *rand.Rand) int {
	if d.Hi <= d.Lo {
		return d.Lo
	}
	return d.Lo + r.Intn(d.Hi-d.Lo+1)
}

// WeightedChoice draws one of Items with probability proportional to its
// weight.
type WeightedChoice struct {
	Items   []string
	Weights []int
}

func (d WeightedChoice) Draw(r *rand.Rand) string {
	total := 0
	for _, w := range d.Weights {
		total += w
	}
	roll := r.Intn(total)
	for i, w := range d.Weights {
		if roll < w {
			return d.Items[i]
		}
		roll -= w
	}
	return d.Items[len(d.Items)-1]
}

// pick returns a uniformly chosen element of items.
func pick[T any](r *rand.Rand, items []T) T {
	return items[r.Intn(len(items))]
}
