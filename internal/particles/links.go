package particles

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// Link is a proximity line between particles I < J.
type Link struct {
	I, J  int
	Alpha float64
}

// Connections returns every pair of particles closer than the link distance,
// ordered by (I, J). Large fields are binned into a grid first. A state
// whose link distance is not a positive finite number has no links.
func Connections(s State) []Link {
	d := s.Params.LinkDistance
	if !(d > 0) || math.IsInf(d, 1) {
		return nil
	}
	if s.Params.GridThreshold > 0 && len(s.Particles) > s.Params.GridThreshold {
		return gridConnections(s)
	}
	return pairConnections(s)
}

func pairConnections(s State) []Link {
	var links []Link
	ps := s.Particles
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			if l, ok := link(s.Params, ps, i, j); ok {
				links = append(links, l)
			}
		}
	}
	return links
}

func link(prm Params, ps []Particle, i, j int) (Link, bool) {
	distance := r2.Norm(r2.Sub(ps[i].Pos, ps[j].Pos))
	if !(distance < prm.LinkDistance) {
		return Link{}, false
	}
	return Link{I: i, J: j, Alpha: prm.LinkAlpha * (1 - distance/prm.LinkDistance)}, true
}

type cell struct{ x, y int }

// gridConnections bins particles into cells one link distance wide so only
// the 3x3 neighbourhood of each cell needs checking.
func gridConnections(s State) []Link {
	size := s.Params.LinkDistance
	bins := make(map[cell][]int)
	for i, p := range s.Particles {
		c := cell{int(math.Floor(p.Pos.X / size)), int(math.Floor(p.Pos.Y / size))}
		bins[c] = append(bins[c], i)
	}

	var links []Link
	for c, members := range bins {
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				others, ok := bins[cell{c.x + dx, c.y + dy}]
				if !ok {
					continue
				}
				for _, i := range members {
					for _, j := range others {
						if i >= j {
							continue
						}
						if l, ok := link(s.Params, s.Particles, i, j); ok {
							links = append(links, l)
						}
					}
				}
			}
		}
	}

	sort.Slice(links, func(a, b int) bool {
		if links[a].I != links[b].I {
			return links[a].I < links[b].I
		}
		return links[a].J < links[b].J
	})
	return links
}
