// Package dashboard is the headless portal dashboard: it pages through the
// portal's entities, edits them over REST and folds pushed updates into the
// open tables, views and editors.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"spaceship-fleet/maintenance-portal/internal/pagination"
	"spaceship-fleet/maintenance-portal/internal/repairmen"
	"spaceship-fleet/maintenance-portal/internal/requests"
	"spaceship-fleet/maintenance-portal/internal/spaceships"
	"spaceship-fleet/maintenance-portal/internal/stream"
)

// API is the portal REST surface the dashboard uses.
type API interface {
	DetailSource
	ListSpaceships(ctx context.Context, page pagination.Page) ([]spaceships.Spaceship, error)
	CreateSpaceship(ctx context.Context, req *spaceships.SpaceshipRequest) (*spaceships.Spaceship, error)
	UpdateSpaceship(ctx context.Context, serial int64, req *spaceships.SpaceshipRequest) (*spaceships.Spaceship, error)
	DeleteSpaceship(ctx context.Context, serial int64) error
	ListRepairmen(ctx context.Context, page pagination.Page) ([]repairmen.Repairman, error)
	CreateRepairman(ctx context.Context, req *repairmen.RepairmanRequest) (*repairmen.Repairman, error)
	UpdateRepairman(ctx context.Context, id int64, req *repairmen.RepairmanRequest) (*repairmen.Repairman, error)
	DeleteRepairman(ctx context.Context, id int64) error
	ListRequests(ctx context.Context, page pagination.Page) ([]requests.MaintenanceRequest, error)
	CreateRequest(ctx context.Context, req *requests.MaintenanceRequestRequest) (*requests.MaintenanceRequest, error)
	UpdateRequest(ctx context.Context, id int64, req *requests.MaintenanceRequestRequest) (*requests.MaintenanceRequest, error)
	DeleteRequest(ctx context.Context, id int64) error
}

// Streams are the push subscriptions feeding the loop. A nil stream is
// simply never read.
type Streams struct {
	Spaceships *Stream[spaceships.Spaceship]
	Repairmen  *Stream[repairmen.Repairman]
	Requests   *Stream[requests.MaintenanceRequest]
	Ping       *Stream[string]
}

// OpenStreams subscribes once to every kind. A subscription that cannot be
// opened is reported and left nil.
func OpenStreams(ctx context.Context, dialer *websocket.Dialer, baseURL string, presenter Presenter) Streams {
	var s Streams
	var err error
	if s.Spaceships, err = Subscribe[spaceships.Spaceship](ctx, dialer, baseURL, stream.TopicSpaceships); err != nil {
		presenter.Error(KindSpaceships, err)
	}
	if s.Repairmen, err = Subscribe[repairmen.Repairman](ctx, dialer, baseURL, stream.TopicRepairmen); err != nil {
		presenter.Error(KindRepairmen, err)
	}
	if s.Requests, err = Subscribe[requests.MaintenanceRequest](ctx, dialer, baseURL, stream.TopicMaintenanceRequests); err != nil {
		presenter.Error(KindRequests, err)
	}
	if s.Ping, err = Subscribe[string](ctx, dialer, baseURL, stream.TopicPing); err != nil {
		presenter.Error("", err)
	}
	return s
}

const (
	offlineAfter  = 10 * time.Second
	livenessCheck = 2 * time.Second
)

type command struct {
	fn   func(ctx context.Context) error
	done chan error
}

// Dashboard owns the three reconcilers. All state is touched only by the
// goroutine running Run; other goroutines go through Do.
type Dashboard struct {
	api       API
	presenter Presenter
	logger    *zap.Logger

	Spaceships *Reconciler[spaceships.Spaceship, *ShipForm, spaceships.Spaceship]
	Repairmen  *Reconciler[repairmen.Repairman, *RepairmanForm, repairmen.Repairman]
	Requests   *Reconciler[requests.MaintenanceRequest, *RequestForm, RequestDetail]

	commands chan command
	online   bool
	lastPong time.Time
}

func New(api API, pageSize int, presenter Presenter, logger *zap.Logger) *Dashboard {
	return &Dashboard{
		api:       api,
		presenter: presenter,
		logger:    logger,
		Spaceships: NewReconciler(KindSpaceships, NewTable[spaceships.Spaceship](pageSize),
			&ShipForm{}, Identity[spaceships.Spaceship](), presenter),
		Repairmen: NewReconciler(KindRepairmen, NewTable[repairmen.Repairman](pageSize),
			&RepairmanForm{}, Identity[repairmen.Repairman](), presenter),
		Requests: NewReconciler(KindRequests, NewTable[requests.MaintenanceRequest](pageSize),
			&RequestForm{}, RequestDetailLoader(api), presenter),
		commands: make(chan command),
	}
}

// Do runs fn on the loop goroutine and returns its error.
func (d *Dashboard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	cmd := command{fn: fn, done: make(chan error, 1)}
	select {
	case d.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run loads the first page of every kind and then applies pushes and
// commands in arrival order until ctx is done.
func (d *Dashboard) Run(ctx context.Context, streams Streams) error {
	for _, kind := range []Kind{KindSpaceships, KindRepairmen, KindRequests} {
		if err := d.LoadPage(ctx, kind, pagination.Page{Number: 0, Size: d.pageSize(kind)}); err != nil {
			d.presenter.Error(kind, err)
		}
	}

	shipUpdates, shipErrs := channels(streams.Spaceships)
	crewUpdates, crewErrs := channels(streams.Repairmen)
	requestUpdates, requestErrs := channels(streams.Requests)
	pings, pingErrs := channels(streams.Ping)

	ticker := time.NewTicker(livenessCheck)
	defer ticker.Stop()

	d.logger.Info("Dashboard running",
		zap.Bool("spaceships", streams.Spaceships != nil),
		zap.Bool("repairmen", streams.Repairmen != nil),
		zap.Bool("requests", streams.Requests != nil),
		zap.Bool("pinger", streams.Ping != nil))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd := <-d.commands:
			cmd.done <- cmd.fn(ctx)

		case v, ok := <-shipUpdates:
			if !ok {
				shipUpdates = nil
				continue
			}
			d.Spaceships.OnPush(ctx, v)
		case v, ok := <-crewUpdates:
			if !ok {
				crewUpdates = nil
				continue
			}
			d.Repairmen.OnPush(ctx, v)
		case v, ok := <-requestUpdates:
			if !ok {
				requestUpdates = nil
				continue
			}
			d.Requests.OnPush(ctx, v)
		case _, ok := <-pings:
			if !ok {
				pings = nil
				continue
			}
			d.lastPong = time.Now()
			if !d.online {
				d.online = true
				d.presenter.Connectivity(true)
			}

		case err := <-shipErrs:
			shipErrs = nil
			d.presenter.Error(KindSpaceships, err)
		case err := <-crewErrs:
			crewErrs = nil
			d.presenter.Error(KindRepairmen, err)
		case err := <-requestErrs:
			requestErrs = nil
			d.presenter.Error(KindRequests, err)
		case err := <-pingErrs:
			pingErrs = nil
			d.presenter.Error("", err)

		case now := <-ticker.C:
			if d.online && now.Sub(d.lastPong) > offlineAfter {
				d.online = false
				d.presenter.Connectivity(false)
			}
		}
	}
}

func channels[T any](s *Stream[T]) (<-chan T, <-chan error) {
	if s == nil {
		return nil, nil
	}
	return s.Updates, s.Errors
}

func (d *Dashboard) pageSize(kind Kind) int {
	switch kind {
	case KindRepairmen:
		return d.Repairmen.Table().Page().Size
	case KindRequests:
		return d.Requests.Table().Page().Size
	default:
		return d.Spaceships.Table().Page().Size
	}
}

// LoadPage fetches page of kind into its table.
func (d *Dashboard) LoadPage(ctx context.Context, kind Kind, page pagination.Page) error {
	var n int
	var last bool
	switch kind {
	case KindSpaceships:
		rows, err := d.api.ListSpaceships(ctx, page)
		if err != nil {
			return err
		}
		d.Spaceships.Table().Load(page, rows)
		n, last = len(rows), d.Spaceships.Table().NextDisabled()
	case KindRepairmen:
		rows, err := d.api.ListRepairmen(ctx, page)
		if err != nil {
			return err
		}
		d.Repairmen.Table().Load(page, rows)
		n, last = len(rows), d.Repairmen.Table().NextDisabled()
	case KindRequests:
		rows, err := d.api.ListRequests(ctx, page)
		if err != nil {
			return err
		}
		d.Requests.Table().Load(page, rows)
		n, last = len(rows), d.Requests.Table().NextDisabled()
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}
	d.presenter.PageLoaded(kind, page, n, last)
	return nil
}

// NextPage loads the page after the current one of kind. It is a no-op on
// the last page.
func (d *Dashboard) NextPage(ctx context.Context, kind Kind) error {
	page, ok := d.adjacentPage(kind, true)
	if !ok {
		return nil
	}
	return d.LoadPage(ctx, kind, page)
}

func (d *Dashboard) PrevPage(ctx context.Context, kind Kind) error {
	page, ok := d.adjacentPage(kind, false)
	if !ok {
		return nil
	}
	return d.LoadPage(ctx, kind, page)
}

func (d *Dashboard) adjacentPage(kind Kind, next bool) (pagination.Page, bool) {
	var nextPage, prevPage func() (pagination.Page, bool)
	switch kind {
	case KindRepairmen:
		nextPage, prevPage = d.Repairmen.Table().NextPage, d.Repairmen.Table().PrevPage
	case KindRequests:
		nextPage, prevPage = d.Requests.Table().NextPage, d.Requests.Table().PrevPage
	default:
		nextPage, prevPage = d.Spaceships.Table().NextPage, d.Spaceships.Table().PrevPage
	}
	if next {
		return nextPage()
	}
	return prevPage()
}

// OpenRequestView fetches the detail of request id and shows it.
func (d *Dashboard) OpenRequestView(ctx context.Context, id int64) error {
	detail, err := LoadRequestDetail(ctx, d.api, id)
	if err != nil {
		return err
	}
	d.Requests.OpenView(id, detail)
	return nil
}

// SaveSpaceship submits the ship editor and closes it on success.
func (d *Dashboard) SaveSpaceship(ctx context.Context) error {
	state := d.Spaceships.Editor()
	if !state.Open {
		return ErrEditorClosed
	}
	req := d.Spaceships.Form().Request()
	var err error
	if state.ID == nil {
		_, err = d.api.CreateSpaceship(ctx, req)
	} else {
		_, err = d.api.UpdateSpaceship(ctx, *state.ID, req)
	}
	if err != nil {
		return err
	}
	d.Spaceships.CloseEditor()
	return nil
}

func (d *Dashboard) SaveRepairman(ctx context.Context) error {
	state := d.Repairmen.Editor()
	if !state.Open {
		return ErrEditorClosed
	}
	req := d.Repairmen.Form().Request()
	var err error
	if state.ID == nil {
		_, err = d.api.CreateRepairman(ctx, req)
	} else {
		_, err = d.api.UpdateRepairman(ctx, *state.ID, req)
	}
	if err != nil {
		return err
	}
	d.Repairmen.CloseEditor()
	return nil
}

// SaveRequest submits the request editor. The selected status is checked
// against the allowed transitions before anything is sent.
func (d *Dashboard) SaveRequest(ctx context.Context) error {
	state := d.Requests.Editor()
	if !state.Open {
		return ErrEditorClosed
	}
	form := d.Requests.Form()
	if err := form.SelectStatus(form.Status); err != nil {
		return err
	}
	req := form.Request()
	var err error
	if state.ID == nil {
		_, err = d.api.CreateRequest(ctx, req)
	} else {
		_, err = d.api.UpdateRequest(ctx, *state.ID, req)
	}
	if err != nil {
		return err
	}
	d.Requests.CloseEditor()
	return nil
}

// DeleteSpaceship deletes the ship with serial, closes its editor and view
// and reloads the current page.
func (d *Dashboard) DeleteSpaceship(ctx context.Context, serial int64) error {
	if err := d.api.DeleteSpaceship(ctx, serial); err != nil {
		return err
	}
	d.Spaceships.Forget(serial)
	return d.LoadPage(ctx, KindSpaceships, d.Spaceships.Table().Page())
}

func (d *Dashboard) DeleteRepairman(ctx context.Context, id int64) error {
	if err := d.api.DeleteRepairman(ctx, id); err != nil {
		return err
	}
	d.Repairmen.Forget(id)
	return d.LoadPage(ctx, KindRepairmen, d.Repairmen.Table().Page())
}

func (d *Dashboard) DeleteRequest(ctx context.Context, id int64) error {
	if err := d.api.DeleteRequest(ctx, id); err != nil {
		return err
	}
	d.Requests.Forget(id)
	return d.LoadPage(ctx, KindRequests, d.Requests.Table().Page())
}
