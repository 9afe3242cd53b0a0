package particles

import (
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"strconv"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestConnectionsThresholdAndNoSelfPairs(t *testing.T) {
	s, _ := Create(120, 600, 400, newRand())
	for n := 0; n < 30; n++ {
		s = Tick(s, Pointer{Present: true, X: 300, Y: 200})
	}

	links := Connections(s)
	if len(links) == 0 {
		t.Fatal("expected some links in a dense field")
	}
	for _, l := range links {
		if l.I == l.J {
			t.Fatalf("self pair %+v", l)
		}
		if l.I > l.J {
			t.Fatalf("pair not ordered: %+v", l)
		}
		d := r2.Norm(r2.Sub(s.Particles[l.I].Pos, s.Particles[l.J].Pos))
		if d >= 150 {
			t.Fatalf("link %+v spans %v", l, d)
		}
		if want := 0.1 * (1 - d/150); math.Abs(l.Alpha-want) > 1e-12 {
			t.Fatalf("link %+v alpha, want %v", l, want)
		}
	}
}

func TestConnectionsCoincidentParticles(t *testing.T) {
	s, err := Create(2, 200, 200, newRand())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.Particles[0].Pos = r2.Vec{X: 50, Y: 50}
	s.Particles[1].Pos = r2.Vec{X: 50, Y: 50}

	links := Connections(s)
	want := []Link{{I: 0, J: 1, Alpha: 0.1}}
	if !reflect.DeepEqual(links, want) {
		t.Fatalf("got %+v, want %+v", links, want)
	}
}

func TestConnectionsExactlyAtThreshold(t *testing.T) {
	s, _ := Create(2, 400, 400, newRand())
	s.Particles[0].Pos = r2.Vec{X: 0, Y: 0}
	s.Particles[1].Pos = r2.Vec{X: 150, Y: 0}
	if links := Connections(s); len(links) != 0 {
		t.Fatalf("pair at the threshold linked: %+v", links)
	}
}

func TestGridMatchesPairScan(t *testing.T) {
	s, _ := Create(800, 1600, 1200, rand.New(rand.NewSource(7)))

	naive := pairConnections(s)
	grid := gridConnections(s)
	if len(naive) == 0 {
		t.Fatal("expected links")
	}
	if !reflect.DeepEqual(naive, grid) {
		t.Fatalf("grid found %d links, pair scan %d", len(grid), len(naive))
	}

	// Connections takes the grid path above the threshold.
	if !reflect.DeepEqual(Connections(s), naive) {
		t.Fatal("Connections disagrees with the pair scan")
	}
}

func TestConnectionsWithoutPositiveLinkDistance(t *testing.T) {
	for _, count := range []int{3, 300} {
		base, err := Create(count, 400, 400, newRand())
		if err != nil {
			t.Fatal(err)
		}
		for _, d := range []float64{0, -1, math.NaN(), math.Inf(1)} {
			t.Run(fmt.Sprintf("%d particles distance %v", count, d), func(t *testing.T) {
				s := base.Clone()
				s.Params.LinkDistance = d
				if links := Connections(s); links != nil {
					t.Fatalf("got %d links", len(links))
				}
			})
		}
	}
}

func BenchmarkConnections(b *testing.B) {
	for _, n := range []int{60, 1000} {
		s, _ := Create(n, 1920, 1080, newRand())
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				Connections(s)
			}
		})
	}
}
