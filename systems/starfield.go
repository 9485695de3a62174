package systems

import (
	"image/color"
	"math"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flowfield/config"
)

// Depth is a point in view space flying toward the camera along -Z.
// PZ is the depth at the previous frame, used for the streak.
type Depth struct {
	X, Y, Z, PZ float64
}

// Tint is the fill color of a star.
type Tint struct {
	C color.NRGBA
}

// Planet holds the appearance of a planet entity.
type Planet struct {
	Size      float64
	C         color.NRGBA
	Rings     bool
	Moon      bool
	MoonAngle float64
}

// spectral star colors with cumulative probabilities
var starClasses = []struct {
	upTo float64
	c    color.NRGBA
}{
	{0.3, color.NRGBA{R: 255, G: 255, B: 200, A: 255}}, // yellow-white
	{0.6, color.NRGBA{R: 180, G: 200, B: 255, A: 255}}, // blue-white
	{0.8, color.NRGBA{R: 255, G: 180, B: 180, A: 255}}, // reddish
	{1.0, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
}

var (
	surfaceShade = color.NRGBA{R: 20, G: 20, B: 20, A: 255}
	ringColor    = color.NRGBA{R: 200, G: 200, B: 200, A: 150}
	moonColor    = color.NRGBA{R: 180, G: 180, B: 180, A: 255}
	storyColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 220}
)

// Starfield is a warp-speed scene: stars and planets rushing toward the viewer
// over a noise nebula, with a rotating caption.
type Starfield struct {
	rng         *RandomStream
	cfg         config.StarfieldConfig
	storyPeriod time.Duration

	world        *ecs.World
	stars        *ecs.Map2[Depth, Tint]
	planets      *ecs.Map2[Depth, Planet]
	starFilter   *ecs.Filter2[Depth, Tint]
	planetFilter *ecs.Filter2[Depth, Planet]

	width, height float64
}

// NewStarfield creates an empty starfield. storyPeriod is how long each
// caption stays on screen.
func NewStarfield(rng *RandomStream, cfg config.StarfieldConfig, storyPeriod time.Duration) *Starfield {
	if storyPeriod <= 0 {
		storyPeriod = time.Second
	}
	return &Starfield{rng: rng, cfg: cfg, storyPeriod: storyPeriod}
}

// Setup rebuilds the entity world for a canvas of the given size.
func (s *Starfield) Setup(width, height int) {
	s.width, s.height = float64(max(width, 0)), float64(max(height, 0))

	// A fresh world is cheaper than removing every entity.
	s.world = ecs.NewWorld()
	s.stars = ecs.NewMap2[Depth, Tint](s.world)
	s.planets = ecs.NewMap2[Depth, Planet](s.world)
	s.starFilter = ecs.NewFilter2[Depth, Tint](s.world)
	s.planetFilter = ecs.NewFilter2[Depth, Planet](s.world)

	for i := 0; i < s.cfg.Stars; i++ {
		d, t := s.newStar()
		s.stars.NewEntity(&d, &t)
	}
	for i := 0; i < s.cfg.Planets; i++ {
		d, p := s.newPlanet()
		s.planets.NewEntity(&d, &p)
	}
}

func (s *Starfield) newStar() (Depth, Tint) {
	d := Depth{
		X: s.rng.Uniform(-s.width, s.width),
		Y: s.rng.Uniform(-s.height, s.height),
		Z: s.rng.Uniform(0, s.width),
	}
	d.PZ = d.Z

	r := s.rng.Float64()
	t := Tint{C: starClasses[len(starClasses)-1].c}
	for _, class := range starClasses {
		if r < class.upTo {
			t.C = class.c
			break
		}
	}
	return d, t
}

func (s *Starfield) newPlanet() (Depth, Planet) {
	d := Depth{
		X: s.rng.Uniform(-s.width, s.width),
		Y: s.rng.Uniform(-s.height, s.height),
		Z: s.rng.Uniform(s.width/3, s.width),
	}
	d.PZ = d.Z
	p := Planet{
		Size: s.rng.Uniform(60, 200),
		C: color.NRGBA{
			R: uint8(s.rng.Uniform(50, 255)),
			G: uint8(s.rng.Uniform(50, 255)),
			B: uint8(s.rng.Uniform(50, 255)),
			A: 255,
		},
		Rings:     s.rng.Chance(s.cfg.RingChance),
		Moon:      s.rng.Chance(s.cfg.MoonChance),
		MoonAngle: s.rng.Uniform(0, 2*math.Pi),
	}
	return d, p
}

// Speed maps the pointer X position onto the configured warp speed range.
func (s *Starfield) Speed(pointerX float64) float64 {
	return mapRange(pointerX, 0, s.width, s.cfg.Speed.Min, s.cfg.Speed.Max)
}

// Counts returns the number of star and planet entities.
func (s *Starfield) Counts() (stars, planets int) {
	if s.world == nil {
		return 0, 0
	}
	query := s.starFilter.Query()
	for query.Next() {
		stars++
	}
	pquery := s.planetFilter.Query()
	for pquery.Next() {
		planets++
	}
	return stars, planets
}

// StoryLine returns the caption shown once elapsed has passed since the scene
// started, or "" when there is none.
func (s *Starfield) StoryLine(elapsed time.Duration) string {
	if len(s.cfg.Story) == 0 {
		return ""
	}
	i := (max(elapsed, 0) / s.storyPeriod) % time.Duration(len(s.cfg.Story))
	return s.cfg.Story[i]
}

// Step advances and draws one frame.
func (s *Starfield) Step(ctx RenderContext, c Canvas) {
	if ctx.Empty() || s.world == nil {
		return
	}
	bg := s.cfg.BackgroundRGB
	c.Clear(color.NRGBA{R: bg[0], G: bg[1], B: bg[2], A: 255})

	f := float64(ctx.Frame)
	speed := s.Speed(ctx.PointerX)

	// Camera drift
	ox := s.width/2 + math.Sin(f*0.002)*s.cfg.DriftX
	oy := s.height/2 + math.Cos(f*0.0015)*s.cfg.DriftY

	s.drawNebula(c, ox, oy, f)
	s.stepPlanets(c, ox, oy, speed)
	s.stepStars(c, ox, oy, speed)

	if line := s.StoryLine(ctx.Elapsed); line != "" {
		c.Text(ox, oy-s.height/2+40, line, storyColor)
	}
}

// drawNebula scatters translucent blobs whose alpha comes from noise scaled far
// past the channel range, so most blobs saturate to opaque.
func (s *Starfield) drawNebula(c Canvas, ox, oy, frame float64) {
	size := s.cfg.NebulaSize
	for i := 0; i < s.cfg.NebulaBlobs; i++ {
		x := s.rng.Uniform(-s.width, s.width)
		y := s.rng.Uniform(-s.height, s.height)
		alpha := s.rng.Noise3(x*134.255, y*0.159, frame*5.032) * s.cfg.NebulaAlpha
		fill := color.NRGBA{
			R: channel(s.rng.Uniform(1020, 2030)),
			G: channel(s.rng.Uniform(50, 150)),
			B: channel(s.rng.Uniform(1520, 2525)),
			A: channel(alpha),
		}
		c.FillEllipse(ox+x, oy+y, size, size, fill)
	}
}

func (s *Starfield) stepPlanets(c Canvas, ox, oy, speed float64) {
	query := s.planetFilter.Query()
	for query.Next() {
		d, p := query.Get()

		d.Z -= speed * s.cfg.PlanetSpeed
		if d.Z < 1 {
			*d, *p = s.newPlanet()
			d.Z = s.width
			d.PZ = d.Z
		}
		p.MoonAngle += 0.01

		sx := ox + d.X/d.Z*s.width
		sy := oy + d.Y/d.Z*s.height
		r := mapRange(d.Z, 0, s.width, p.Size, 10)

		// Textured surface
		for i := 0; i < s.cfg.SurfaceDots; i++ {
			angle := s.rng.Uniform(0, 2*math.Pi)
			rad := s.rng.Uniform(r/2, r)
			nx := sx + math.Cos(angle)*rad
			ny := sy + math.Sin(angle)*rad
			shade := lerpNRGBA(p.C, surfaceShade, s.rng.Noise3(nx*0.01, ny*0.01, 0))
			dot := s.rng.Uniform(5, 10)
			c.FillEllipse(nx, ny, dot, dot, shade)
		}

		c.FillEllipse(sx, sy, r, r, p.C)

		if p.Rings {
			c.StrokeEllipse(sx, sy, r*2, r*0.7, 2, ringColor)
		}
		if p.Moon {
			mx := sx + math.Cos(p.MoonAngle)*r*1.2
			my := sy + math.Sin(p.MoonAngle)*r*1.5
			c.FillEllipse(mx, my, r/4, r/4, moonColor)
		}
	}
}

func (s *Starfield) stepStars(c Canvas, ox, oy, speed float64) {
	query := s.starFilter.Query()
	for query.Next() {
		d, t := query.Get()

		d.Z -= speed
		if d.Z < 1 {
			*d, *t = s.newStar()
			d.Z = s.width
			d.PZ = d.Z
		}

		sx := ox + d.X/d.Z*s.width
		sy := oy + d.Y/d.Z*s.height
		r := mapRange(d.Z, 0, s.width, 6, 0)
		c.FillEllipse(sx, sy, r, r, t.C)

		// Streak from the previous projection
		px := ox + d.X/d.PZ*s.width
		py := oy + d.Y/d.PZ*s.height
		d.PZ = d.Z
		c.Line(px, py, sx, sy, 1, t.C)
	}
}

// channel clamps v into an 8-bit color channel.
func channel(v float64) uint8 {
	return uint8(clampFloat(v, 0, 255))
}

func lerpNRGBA(a, b color.NRGBA, t float64) color.NRGBA {
	t = clampFloat(t, 0, 1)
	return color.NRGBA{
		R: uint8(lerp(t, float64(a.R), float64(b.R))),
		G: uint8(lerp(t, float64(a.G), float64(b.G))),
		B: uint8(lerp(t, float64(a.B), float64(b.B))),
		A: uint8(lerp(t, float64(a.A), float64(b.A))),
	}
}
