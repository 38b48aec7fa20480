package seed

import (
	"fmt"
	"math/rand"
	"time"

	"spaceship-fleet/maintenance-portal/internal/repairmen"
	"spaceship-fleet/maintenance-portal/internal/spaceships"
)

var (
	shipManufacturers   = []string{"Weyland-Yutani", "Tyrell Corp", "Cyberdyne", "SpaceX", "Blue Origin", "Roscosmos", "NASA", "ESA", "Hitachi", "Samsung"}
	engineManufacturers = []string{"Kuznetsov", "Saturn", "Rocketdyne", "Aerojet", "Merlin", "Raptor", "RUMO"}
	firstNames          = []string{"Ellen", "Dwayne", "Jenette", "Bishop", "Arthur", "Joan", "Samuel", "Amanda", "Gideon", "Naomi"}
	lastNames           = []string{"Ripley", "Hicks", "Vasquez", "Dallas", "Lambert", "Parker", "Brett", "Kane", "Holden", "Nagata"}
	crewRanks           = []string{"Captain", "First Officer", "Navigator", "Engineer", "Mechanic", "Steward"}
	repairmanPositions  = []string{"Senior Mechanic", "Mechanic", "Avionics Technician", "Welder", "Fitter", "Repair Engineer", "Repair Foreman", "Technician", "Diagnostics Specialist"}
)

var (
	minBirthDate = time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)
	maxBirthDate = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
)

const workingAge = 18

// Generator produces plausible random spaceships and repairmen.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng, now: time.Now}
}

func (g *Generator) Spaceship() *spaceships.SpaceshipRequest {
	serial := g.rng.Int63()
	manufacturer := pick(g.rng, shipManufacturers)
	manufactured := g.now().UTC().Add(-time.Duration(g.rng.Intn(1_000_000)) * time.Second).Truncate(time.Second)
	name := fmt.Sprintf("SS-%d", between(g.rng, 1_000, 9_000))
	shipType := pick(g.rng, spaceships.ShipTypes)
	dimensions := g.dimensions()
	engine := g.engine()
	maxSpeed := between(g.rng, 1_000, 10_000)

	crew := make([]spaceships.CrewMember, between(g.rng, 10, 20))
	for i := range crew {
		crew[i] = g.crewMember()
	}

	return &spaceships.SpaceshipRequest{
		Serial:          &serial,
		Manufacturer:    &manufacturer,
		ManufactureDate: &manufactured,
		Name:            &name,
		Type:            &shipType,
		Dimensions:      &dimensions,
		Engine:          &engine,
		Crew:            crew,
		MaxSpeed:        &maxSpeed,
	}
}

func (g *Generator) Repairman() *repairmen.RepairmanRequest {
	name := g.fullName()
	position := pick(g.rng, repairmanPositions)
	return &repairmen.RepairmanRequest{Name: &name, Position: &position}
}

func (g *Generator) dimensions() spaceships.Dimensions {
	length := int64(between(g.rng, 15, 300))
	width := int64(float64(length) * uniform(g.rng, 0.3, 0.9))
	height := int64(float64(length) * uniform(g.rng, 0.2, 0.6))
	volume := float64(length*width*height) * uniform(g.rng, 0.3, 0.6)
	weight := volume * uniform(g.rng, 0.003, 0.010)
	return spaceships.Dimensions{Length: length, Width: width, Height: height, Weight: weight, Volume: volume}
}

func (g *Generator) engine() spaceships.Engine {
	return spaceships.Engine{
		Model:           fmt.Sprintf("%s Model-%d", pick(g.rng, engineManufacturers), between(g.rng, 1, 5)),
		Thrust:          between(g.rng, 50, 500),
		FuelType:        pick(g.rng, spaceships.FuelTypes),
		FuelConsumption: uniform(g.rng, 0.5, 10.0),
	}
}

func (g *Generator) crewMember() spaceships.CrewMember {
	days := int(maxBirthDate.Sub(minBirthDate).Hours() / 24)
	born := minBirthDate.AddDate(0, 0, g.rng.Intn(days))
	age := yearsBetween(born, g.now())
	return spaceships.CrewMember{
		FullName:        g.fullName(),
		Rank:            pick(g.rng, crewRanks),
		ExperienceYears: max(0, age-workingAge),
		BirthDate:       spaceships.Date{Time: born},
	}
}

func (g *Generator) fullName() string {
	return pick(g.rng, firstNames) + " " + pick(g.rng, lastNames)
}

func pick[T any](rng *rand.Rand, values []T) T {
	return values[rng.Intn(len(values))]
}

// between returns an int in [lo, hi).
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func yearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	if to.YearDay() < from.YearDay() {
		years--
	}
	return years
}
