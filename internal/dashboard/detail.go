package dashboard

import (
	"context"
	"errors"
	"net/http"

	"spaceship-fleet/maintenance-portal/internal/repairmen"
	"spaceship-fleet/maintenance-portal/internal/requests"
	"spaceship-fleet/maintenance-portal/internal/spaceships"
)

// RequestDetail is the read-only view of a maintenance request.
type RequestDetail struct {
	Request       requests.MaintenanceRequest `json:"request"`
	SpaceshipName string                      `json:"spaceshipName"`
	AssigneeName  string                      `json:"assigneeName"`
}

// DetailSource fetches what a request detail view shows.
type DetailSource interface {
	GetRequest(ctx context.Context, id int64) (*requests.MaintenanceRequest, error)
	GetSpaceship(ctx context.Context, serial int64) (*spaceships.Spaceship, error)
	GetRepairman(ctx context.Context, id int64) (*repairmen.Repairman, error)
}

// LoadRequestDetail fetches the request with its ship and assignee names.
// A ship or assignee that no longer exists leaves the name empty.
func LoadRequestDetail(ctx context.Context, src DetailSource, id int64) (RequestDetail, error) {
	req, err := src.GetRequest(ctx, id)
	if err != nil {
		return RequestDetail{}, err
	}
	detail := RequestDetail{Request: *req}

	ship, err := src.GetSpaceship(ctx, req.SpaceshipSerial)
	switch {
	case err == nil:
		detail.SpaceshipName = ship.Name
	case !isNotFound(err):
		return RequestDetail{}, err
	}

	if req.Assignee != nil {
		assignee, err := src.GetRepairman(ctx, *req.Assignee)
		switch {
		case err == nil:
			detail.AssigneeName = assignee.Name
		case !isNotFound(err):
			return RequestDetail{}, err
		}
	}
	return detail, nil
}

// RequestDetailLoader re-fetches the full detail of every pushed request.
func RequestDetailLoader(src DetailSource) Loader[requests.MaintenanceRequest, RequestDetail] {
	return func(ctx context.Context, update requests.MaintenanceRequest) (RequestDetail, error) {
		return LoadRequestDetail(ctx, src, update.ID)
	}
}

func isNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}
