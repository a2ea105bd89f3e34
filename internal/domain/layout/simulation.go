// Package layout positions the visible interaction sub-graph with a
// velocity-Verlet force simulation (link springs, many-body charge, centering
// and collision) and computes curved paths for parallel edges.
//
// A Simulation keeps node state by id across Update calls so that nodes which
// survive a filter change stay where they were.  It supports two modes:
//
//	sim.Run(n)       // fixed tick budget, for static snapshots
//	sim.Reheat(0.3)  // continuous: call Tick until Settled, e.g. while dragging
package layout

import (
	"math"

	"github.com/turtacn/interactome/internal/domain/interaction"
)

// Simulation constants.
const (
	DefaultAlphaMin      = 0.001
	DefaultVelocityDecay = 0.4
	DefaultLinkDistance  = 90.0
	MinLinkDistance      = 45.0
	MaxLinkDistance      = 140.0
	DragAlphaTarget      = 0.3

	initialRadius = 10.0
)

var (
	// DefaultAlphaDecay brings alpha from 1 to DefaultAlphaMin in 300 ticks.
	DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

	initialAngle = math.Pi * (3 - math.Sqrt(5))
)

// Config parameterises a Simulation.  Zero fields take defaults.
type Config struct {
	Width, Height float64

	// LinkDistance returns the rest length of a link.  Results are clamped to
	// [MinLinkDistance, MaxLinkDistance].
	LinkDistance func(interaction.Link) float64

	// Charge is the many-body strength; negative repels.
	Charge float64

	// CollidePadding is added to node radii for collision.
	CollidePadding float64

	BaseRadius  float64
	RadiusScale float64
	MaxRadius   float64

	AlphaMin      float64
	AlphaDecay    float64
	VelocityDecay float64

	// Seed drives the deterministic jiggle.  Equal seeds give equal layouts.
	Seed uint32
}

// DefaultConfig returns an 800×600 configuration.
func DefaultConfig() Config {
	c := Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Width == 0 {
		c.Width = 800
	}
	if c.Height == 0 {
		c.Height = 600
	}
	if c.LinkDistance == nil {
		c.LinkDistance = TypedLinkDistance
	}
	if c.Charge == 0 {
		c.Charge = -300
	}
	if c.CollidePadding == 0 {
		c.CollidePadding = 4
	}
	if c.BaseRadius == 0 {
		c.BaseRadius = 6
	}
	if c.RadiusScale == 0 {
		c.RadiusScale = 3
	}
	if c.MaxRadius == 0 {
		c.MaxRadius = 22
	}
	if c.AlphaMin == 0 {
		c.AlphaMin = DefaultAlphaMin
	}
	if c.AlphaDecay == 0 {
		c.AlphaDecay = DefaultAlphaDecay
	}
	if c.VelocityDecay == 0 {
		c.VelocityDecay = DefaultVelocityDecay
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
}

// typeDistance shortens strong contacts and lengthens diffuse ones.
var typeDistance = map[interaction.InteractionType]float64{
	interaction.TypeCovalent:     MinLinkDistance,
	interaction.TypeMetalComplex: 60,
	interaction.TypeIonic:        70,
	interaction.TypeHBond:        75,
	interaction.TypeHalogenBond:  80,
	interaction.TypeWeakHBond:    95,
	interaction.TypeAromatic:     100,
	interaction.TypeHydrophobic:  110,
	interaction.TypeVdW:          120,
	interaction.TypeProximal:     MaxLinkDistance,
}

// TypedLinkDistance is the default LinkDistance: a per-type rest length, or
// DefaultLinkDistance for other types.
func TypedLinkDistance(l interaction.Link) float64 {
	if d, ok := typeDistance[l.Type]; ok {
		return d
	}
	return DefaultLinkDistance
}

// TypedLinkDistanceOr is TypedLinkDistance with fallback used for types that
// have no per-type rest length.
func TypedLinkDistanceOr(fallback float64) func(interaction.Link) float64 {
	return func(l interaction.Link) float64 {
		if d, ok := typeDistance[l.Type]; ok {
			return d
		}
		return fallback
	}
}

// NodeRadius returns the radius for a node of the given degree.
func (c Config) NodeRadius(degree int) float64 {
	return NodeRadius(degree, c.BaseRadius, c.RadiusScale, c.MaxRadius)
}

// NodeRadius grows with the square root of degree and is clamped to maxRadius.
func NodeRadius(degree int, base, scale, maxRadius float64) float64 {
	if degree < 0 {
		degree = 0
	}
	r := base + scale*math.Sqrt(float64(degree))
	if r > maxRadius {
		return maxRadius
	}
	return r
}

// ─────────────────────────────────────────────────────────────────────────────
// Simulation
// ─────────────────────────────────────────────────────────────────────────────

type body struct {
	id       string
	x, y     float64
	vx, vy   float64
	fx, fy   *float64
	radius   float64
	degree   int
	sequence int
}

type spring struct {
	source, target *body
	distance       float64
	strength       float64
	bias           float64
}

// Position is the exported state of one node.
type Position struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Degree int     `json:"degree"`
	Fixed  bool    `json:"fixed,omitempty"`
}

// Simulation is not safe for concurrent use; callers serialise access.
type Simulation struct {
	cfg         Config
	bodies      []*body
	index       map[string]*body
	springs     []spring
	alpha       float64
	alphaTarget float64
	rng         lcg
	ticks       int
	seq         int
}

// NewSimulation creates an empty simulation.
func NewSimulation(cfg Config) *Simulation {
	cfg.applyDefaults()
	return &Simulation{
		cfg:   cfg,
		index: make(map[string]*body),
		alpha: 1,
		rng:   lcg(cfg.Seed),
	}
}

// Config returns the effective configuration.
func (s *Simulation) Config() Config { return s.cfg }

// Update replaces the node and link sets with those of g.  Nodes already known
// keep their position and velocity; new nodes are seeded next to a placed
// neighbour when one exists and on a phyllotaxis spiral otherwise.  Links whose
// endpoints are absent from g.Nodes are ignored.  Alpha is raised so the
// layout relaxes.
func (s *Simulation) Update(g *interaction.Graph) {
	var nodes []interaction.Node
	var links []interaction.Link
	if g != nil {
		nodes, links = g.Nodes, g.Links
	}
	first := len(s.index) == 0
	next := make(map[string]*body, len(nodes))
	bodies := make([]*body, 0, len(nodes))
	var fresh []*body

	for _, n := range nodes {
		if _, dup := next[n.ID]; dup {
			continue
		}
		b, ok := s.index[n.ID]
		if !ok {
			b = &body{id: n.ID, sequence: s.seq}
			s.seq++
			fresh = append(fresh, b)
		}
		b.degree = 0
		next[n.ID] = b
		bodies = append(bodies, b)
	}

	springs := make([]spring, 0, len(links))
	for _, l := range links {
		src, ok1 := next[l.Source]
		dst, ok2 := next[l.Target]
		if !ok1 || !ok2 {
			continue
		}
		src.degree++
		dst.degree++
		springs = append(springs, spring{source: src, target: dst, distance: clampDistance(s.cfg.LinkDistance(l))})
	}
	for i := range springs {
		sp := &springs[i]
		ds, dt := float64(sp.source.degree), float64(sp.target.degree)
		sp.strength = 1 / math.Min(ds, dt)
		sp.bias = ds / (ds + dt)
	}
	for _, b := range bodies {
		b.radius = s.cfg.NodeRadius(b.degree)
	}

	s.bodies, s.index, s.springs = bodies, next, springs
	s.place(fresh)

	if first {
		s.alpha = 1
	} else if len(fresh) > 0 || s.alpha < DragAlphaTarget {
		s.alpha = math.Max(s.alpha, DragAlphaTarget)
	}
}

func clampDistance(d float64) float64 {
	if math.IsNaN(d) || d <= 0 {
		return DefaultLinkDistance
	}
	return math.Max(MinLinkDistance, math.Min(MaxLinkDistance, d))
}

// place seeds positions for fresh bodies.
func (s *Simulation) place(fresh []*body) {
	if len(fresh) == 0 {
		return
	}
	isFresh := make(map[*body]bool, len(fresh))
	for _, b := range fresh {
		isFresh[b] = true
	}
	neighbour := make(map[*body]*body)
	for _, sp := range s.springs {
		if isFresh[sp.source] && !isFresh[sp.target] && neighbour[sp.source] == nil {
			neighbour[sp.source] = sp.target
		}
		if isFresh[sp.target] && !isFresh[sp.source] && neighbour[sp.target] == nil {
			neighbour[sp.target] = sp.source
		}
	}
	cx, cy := s.cfg.Width/2, s.cfg.Height/2
	for _, b := range fresh {
		if n := neighbour[b]; n != nil {
			angle := s.rng.next() * 2 * math.Pi
			r := n.radius + b.radius + s.cfg.CollidePadding
			b.x = n.x + r*math.Cos(angle)
			b.y = n.y + r*math.Sin(angle)
			continue
		}
		radius := initialRadius * math.Sqrt(0.5+float64(b.sequence))
		angle := float64(b.sequence) * initialAngle
		b.x = cx + radius*math.Cos(angle)
		b.y = cy + radius*math.Sin(angle)
	}
}

// Run advances up to ticks steps synchronously, stopping early once settled.
// It returns the number of ticks performed.
func (s *Simulation) Run(ticks int) int {
	n := 0
	for ; n < ticks; n++ {
		if s.Settled() {
			break
		}
		s.Tick()
	}
	return n
}

// Tick advances one step.
func (s *Simulation) Tick() {
	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay
	s.ticks++

	s.applyLinks()
	s.applyCharge()
	s.applyCollide()

	keep := 1 - s.cfg.VelocityDecay
	for _, b := range s.bodies {
		if b.fx != nil {
			b.x, b.vx = *b.fx, 0
		} else {
			b.vx *= keep
			b.x += b.vx
		}
		if b.fy != nil {
			b.y, b.vy = *b.fy, 0
		} else {
			b.vy *= keep
			b.y += b.vy
		}
	}
	s.applyCenter()
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Ticks returns the number of ticks performed so far.
func (s *Simulation) Ticks() int { return s.ticks }

// Settled reports whether alpha and its target are both below AlphaMin.
func (s *Simulation) Settled() bool {
	return s.alpha < s.cfg.AlphaMin && s.alphaTarget < s.cfg.AlphaMin
}

// Reheat sets the alpha target for continuous mode: DragAlphaTarget while a
// node is dragged, 0 when released.
func (s *Simulation) Reheat(target float64) {
	s.alphaTarget = math.Max(0, math.Min(1, target))
	if s.alpha < s.alphaTarget {
		s.alpha = s.alphaTarget
	}
}

// Pin fixes a node at (x, y).  Unknown ids report false.
func (s *Simulation) Pin(id string, x, y float64) bool {
	b, ok := s.index[id]
	if !ok {
		return false
	}
	b.fx, b.fy = &x, &y
	b.x, b.y = x, y
	return true
}

// Unpin releases a pinned node.
func (s *Simulation) Unpin(id string) bool {
	b, ok := s.index[id]
	if !ok {
		return false
	}
	b.fx, b.fy = nil, nil
	return true
}

// Snapshot returns positions in node order.
func (s *Simulation) Snapshot() []Position {
	out := make([]Position, 0, len(s.bodies))
	for _, b := range s.bodies {
		out = append(out, Position{
			ID: b.id, X: b.x, Y: b.y, Radius: b.radius, Degree: b.degree,
			Fixed: b.fx != nil || b.fy != nil,
		})
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Forces
// ─────────────────────────────────────────────────────────────────────────────

func (s *Simulation) applyLinks() {
	for _, sp := range s.springs {
		src, dst := sp.source, sp.target
		x := dst.x + dst.vx - src.x - src.vx
		y := dst.y + dst.vy - src.y - src.vy
		if x == 0 {
			x = s.rng.jiggle()
		}
		if y == 0 {
			y = s.rng.jiggle()
		}
		l := math.Sqrt(x*x + y*y)
		l = (l - sp.distance) / l * s.alpha * sp.strength
		x *= l
		y *= l
		dst.vx -= x * sp.bias
		dst.vy -= y * sp.bias
		src.vx += x * (1 - sp.bias)
		src.vy += y * (1 - sp.bias)
	}
}

// applyCharge is the exact O(n²) many-body force; graphs here are small.
func (s *Simulation) applyCharge() {
	strength := s.cfg.Charge * s.alpha
	for i, a := range s.bodies {
		for j, b := range s.bodies {
			if i == j {
				continue
			}
			x := b.x - a.x
			y := b.y - a.y
			if x == 0 {
				x = s.rng.jiggle()
			}
			if y == 0 {
				y = s.rng.jiggle()
			}
			l := x*x + y*y
			if l < 1 {
				l = math.Sqrt(l)
			}
			w := strength / l
			a.vx += x * w
			a.vy += y * w
		}
	}
}

func (s *Simulation) applyCollide() {
	for i := 0; i < len(s.bodies); i++ {
		a := s.bodies[i]
		ra := a.radius + s.cfg.CollidePadding
		for j := i + 1; j < len(s.bodies); j++ {
			b := s.bodies[j]
			rb := b.radius + s.cfg.CollidePadding
			r := ra + rb
			x := a.x + a.vx - b.x - b.vx
			y := a.y + a.vy - b.y - b.vy
			l := x*x + y*y
			if l >= r*r {
				continue
			}
			if x == 0 {
				x = s.rng.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.rng.jiggle()
				l += y * y
			}
			d := math.Sqrt(l)
			k := (r - d) / d
			x *= k
			y *= k
			wa := rb * rb / (ra*ra + rb*rb)
			a.vx += x * wa
			a.vy += y * wa
			b.vx -= x * (1 - wa)
			b.vy -= y * (1 - wa)
		}
	}
}

// applyCenter translates all free nodes so their mean sits at the centre.
func (s *Simulation) applyCenter() {
	if len(s.bodies) == 0 {
		return
	}
	var sx, sy float64
	for _, b := range s.bodies {
		sx += b.x
		sy += b.y
	}
	n := float64(len(s.bodies))
	dx := sx/n - s.cfg.Width/2
	dy := sy/n - s.cfg.Height/2
	for _, b := range s.bodies {
		if b.fx == nil {
			b.x -= dx
		}
		if b.fy == nil {
			b.y -= dy
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Deterministic randomness
// ─────────────────────────────────────────────────────────────────────────────

// lcg is a 32-bit linear congruential generator.
type lcg uint32

func (g *lcg) next() float64 {
	*g = lcg(1664525*uint32(*g) + 1013904223)
	return float64(uint32(*g)) / 4294967296
}

func (g *lcg) jiggle() float64 {
	return (g.next() - 0.5) * 1e-6
}

//Personal.AI order the ending
