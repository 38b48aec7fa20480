package dashboard

import (
	"fmt"
	"time"

	"spaceship-fleet/maintenance-portal/internal/repairmen"
	"spaceship-fleet/maintenance-portal/internal/requests"
	"spaceship-fleet/maintenance-portal/internal/spaceships"
	"spaceship-fleet/maintenance-portal/pkg/workflows"
)

// Form is the editable state of one entity. Populate replaces every field
// from v; it is the only way a form is reset.
type Form[T any] interface {
	Populate(v T)
}

// ShipForm edits a spaceship, including its crew roster.
type ShipForm struct {
	Serial          int64
	Manufacturer    string
	ManufactureDate time.Time
	Name            string
	Type            spaceships.ShipType
	Dimensions      spaceships.Dimensions
	Engine          spaceships.Engine
	Crew            []spaceships.CrewMember
	MaxSpeed        int
}

// Populate copies s into the form. The crew roster is rebuilt from scratch
// so no row of a previous population survives.
func (f *ShipForm) Populate(s spaceships.Spaceship) {
	*f = ShipForm{
		Serial:          s.Serial,
		Manufacturer:    s.Manufacturer,
		ManufactureDate: s.ManufactureDate,
		Name:            s.Name,
		Type:            s.Type,
		MaxSpeed:        s.MaxSpeed,
		Crew:            make([]spaceships.CrewMember, 0, len(s.Crew)),
	}
	if s.Dimensions != nil {
		f.Dimensions = *s.Dimensions
	}
	if s.Engine != nil {
		f.Engine = *s.Engine
	}
	f.Crew = append(f.Crew, s.Crew...)
}

func (f *ShipForm) AddCrewMember(m spaceships.CrewMember) {
	f.Crew = append(f.Crew, m)
}

func (f *ShipForm) RemoveCrewMember(i int) error {
	if i < 0 || i >= len(f.Crew) {
		return fmt.Errorf("crew row %d out of range", i)
	}
	f.Crew = append(f.Crew[:i], f.Crew[i+1:]...)
	return nil
}

// Request builds the full-representation body for create or update.
func (f *ShipForm) Request() *spaceships.SpaceshipRequest {
	v := *f
	v.Crew = append([]spaceships.CrewMember(nil), f.Crew...)
	return &spaceships.SpaceshipRequest{
		Serial:          &v.Serial,
		Manufacturer:    &v.Manufacturer,
		ManufactureDate: &v.ManufactureDate,
		Name:            &v.Name,
		Type:            &v.Type,
		Dimensions:      &v.Dimensions,
		Engine:          &v.Engine,
		Crew:            v.Crew,
		MaxSpeed:        &v.MaxSpeed,
	}
}

// RepairmanForm edits a repairman.
type RepairmanForm struct {
	Name     string
	Position string
}

func (f *RepairmanForm) Populate(r repairmen.Repairman) {
	*f = RepairmanForm{Name: r.Name, Position: r.Position}
}

func (f *RepairmanForm) Request() *repairmen.RepairmanRequest {
	name, position := f.Name, f.Position
	return &repairmen.RepairmanRequest{Name: &name, Position: &position}
}

// RequestForm edits a maintenance request. The status selector only offers
// the statuses reachable from the request's current status.
type RequestForm struct {
	SpaceshipSerial int64
	Assignee        *int64
	Comment         string
	Current         workflows.Status
	AllowedStatuses []workflows.Status
	Status          workflows.Status
}

func (f *RequestForm) Populate(r requests.MaintenanceRequest) {
	current := workflows.Normalize(string(r.Status))
	allowed := workflows.AllowedTransitions(string(r.Status))
	*f = RequestForm{
		SpaceshipSerial: r.SpaceshipSerial,
		Comment:         r.Comment,
		Current:         current,
		AllowedStatuses: allowed,
		Status:          workflows.SelectDefault(current, allowed),
	}
	if r.Assignee != nil {
		assignee := *r.Assignee
		f.Assignee = &assignee
	}
}

// SelectStatus picks s in the status selector. Statuses outside
// AllowedStatuses are rejected.
func (f *RequestForm) SelectStatus(s workflows.Status) error {
	for _, allowed := range f.AllowedStatuses {
		if allowed == s {
			f.Status = s
			return nil
		}
	}
	return &workflows.TransitionError{From: f.Current, To: s}
}

func (f *RequestForm) Request() *requests.MaintenanceRequestRequest {
	serial, comment, status := f.SpaceshipSerial, f.Comment, string(f.Status)
	req := &requests.MaintenanceRequestRequest{
		SpaceshipSerial: &serial,
		Comment:         &comment,
		Status:          &status,
	}
	if f.Assignee != nil {
		assignee := *f.Assignee
		req.Assignee = &assignee
	}
	return req
}
