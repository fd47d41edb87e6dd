package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/kash05/court-connect/internal/courtconnect"
	"github.com/kash05/court-connect/internal/handler/health"
)

type idParam struct {
	ID string `path:"id"`
}

type searchParams struct {
	Sport    string  `query:"sport"`
	Lat      float64 `query:"lat"`
	Lng      float64 `query:"lng"`
	Radius   float64 `query:"radiusKm" description:"Search radius in km, default 10."`
	Date     string  `query:"date" description:"Only properties open on this day, YYYY-MM-DD."`
	MinPrice float64 `query:"minPrice" description:"Lowest base rate."`
	MaxPrice float64 `query:"maxPrice" description:"Highest base rate."`
	Limit    int     `query:"limit" description:"Default 50, at most 100."`
}

type eventsParams struct {
	Token string `query:"token" required:"true"`
}

type updateFieldParams struct {
	idParam
	UpdateFieldRequest
}

type applyHoursParams struct {
	idParam
	ApplyHoursRequest
}

type updatePropertyParams struct {
	idParam
	courtconnect.PropertyForm
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "CourtConnect API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for CourtConnect property owners and players.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of the database and wizard registry.")
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/auth/register
	register, _ := r.NewOperationContext(http.MethodPost, "/api/auth/register")
	register.SetSummary("Register")
	register.SetDescription("Creates an owner or player account.")
	register.AddReqStructure(RegisterRequest{})
	register.AddRespStructure(User{}, openapi.WithHTTPStatus(http.StatusCreated))
	register.AddRespStructure(FieldErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	register.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(register)

	// POST /api/auth/login
	login, _ := r.NewOperationContext(http.MethodPost, "/api/auth/login")
	login.SetSummary("Log in")
	login.SetDescription("Exchanges email and password for a Bearer token.")
	login.AddReqStructure(LoginRequest{})
	login.AddRespStructure(LoginResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	login.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(login)

	// POST /api/auth/logout
	logout, _ := r.NewOperationContext(http.MethodPost, "/api/auth/logout")
	logout.SetSummary("Log out")
	logout.SetDescription("Revokes the session behind the Bearer token.")
	logout.AddRespStructure(map[string]string{}, openapi.WithHTTPStatus(http.StatusOK))
	logout.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(logout)

	// GET /api/users/me
	me, _ := r.NewOperationContext(http.MethodGet, "/api/users/me")
	me.SetSummary("Current user")
	me.AddRespStructure(User{}, openapi.WithHTTPStatus(http.StatusOK))
	me.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(me)

	// GET /api/users/roles
	roles, _ := r.NewOperationContext(http.MethodGet, "/api/users/roles")
	roles.SetSummary("Roles")
	roles.SetDescription("Lists the roles a new account can pick.")
	roles.AddRespStructure([]RoleOption{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(roles)

	// POST /api/wizards
	createWizard, _ := r.NewOperationContext(http.MethodPost, "/api/wizards")
	createWizard.SetSummary("Start property wizard")
	createWizard.SetDescription("Opens a wizard session on the basic info step. Owners only.")
	createWizard.AddRespStructure(WizardState{}, openapi.WithHTTPStatus(http.StatusCreated))
	createWizard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	createWizard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(createWizard)

	// GET /api/wizards/{id}
	getWizard, _ := r.NewOperationContext(http.MethodGet, "/api/wizards/{id}")
	getWizard.SetSummary("Get wizard")
	getWizard.AddReqStructure(idParam{})
	getWizard.AddRespStructure(WizardState{}, openapi.WithHTTPStatus(http.StatusOK))
	getWizard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getWizard)

	// DELETE /api/wizards/{id}
	deleteWizard, _ := r.NewOperationContext(http.MethodDelete, "/api/wizards/{id}")
	deleteWizard.SetSummary("Abandon wizard")
	deleteWizard.AddReqStructure(idParam{})
	deleteWizard.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteWizard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteWizard)

	// PATCH /api/wizards/{id}/fields
	patchField, _ := r.NewOperationContext(http.MethodPatch, "/api/wizards/{id}/fields")
	patchField.SetSummary("Update field")
	patchField.SetDescription("Sets one field of the current step's draft by dotted path, e.g. openingHours.monday.open.")
	patchField.AddReqStructure(updateFieldParams{})
	patchField.AddRespStructure(WizardState{}, openapi.WithHTTPStatus(http.StatusOK))
	patchField.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	patchField.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(patchField)

	// POST /api/wizards/{id}/opening-hours/apply
	applyHours, _ := r.NewOperationContext(http.MethodPost, "/api/wizards/{id}/opening-hours/apply")
	applyHours.SetSummary("Apply time to all days")
	applyHours.SetDescription("Copies an opening or closing time to every open day. Timing step only.")
	applyHours.AddReqStructure(applyHoursParams{})
	applyHours.AddRespStructure(WizardState{}, openapi.WithHTTPStatus(http.StatusOK))
	applyHours.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	applyHours.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(applyHours)

	// POST /api/wizards/{id}/next
	next, _ := r.NewOperationContext(http.MethodPost, "/api/wizards/{id}/next")
	next.SetSummary("Next step")
	next.SetDescription("Validates the draft and advances. On the last step the property is created and 201 is returned.")
	next.AddReqStructure(idParam{})
	next.AddRespStructure(WizardState{}, openapi.WithHTTPStatus(http.StatusOK))
	next.AddRespStructure(WizardState{}, openapi.WithHTTPStatus(http.StatusCreated))
	next.AddRespStructure(FieldErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	next.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(next)

	// POST /api/wizards/{id}/back
	back, _ := r.NewOperationContext(http.MethodPost, "/api/wizards/{id}/back")
	back.SetSummary("Previous step")
	back.SetDescription("Discards the draft and returns to the previous step.")
	back.AddReqStructure(idParam{})
	back.AddRespStructure(WizardState{}, openapi.WithHTTPStatus(http.StatusOK))
	back.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(back)

	// POST /api/properties
	createProperty, _ := r.NewOperationContext(http.MethodPost, "/api/properties")
	createProperty.SetSummary("Create property")
	createProperty.SetDescription("Creates a property from a complete form without a wizard. Owners only.")
	createProperty.AddReqStructure(courtconnect.PropertyForm{})
	createProperty.AddRespStructure(CreatePropertyResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createProperty.AddRespStructure(FieldErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(createProperty)

	// GET /api/properties/mine
	mine, _ := r.NewOperationContext(http.MethodGet, "/api/properties/mine")
	mine.SetSummary("My properties")
	mine.AddRespStructure([]PropertySummary{}, openapi.WithHTTPStatus(http.StatusOK))
	mine.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(mine)

	// GET /api/properties/search
	search, _ := r.NewOperationContext(http.MethodGet, "/api/properties/search")
	search.SetSummary("Search properties")
	search.SetDescription("Active properties by sport, distance, opening day and base rate. lat and lng must be given together.")
	search.AddReqStructure(searchParams{})
	search.AddRespStructure([]PropertySummary{}, openapi.WithHTTPStatus(http.StatusOK))
	search.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(search)

	// GET /api/properties/{id}
	getProperty, _ := r.NewOperationContext(http.MethodGet, "/api/properties/{id}")
	getProperty.SetSummary("Get property")
	getProperty.AddReqStructure(idParam{})
	getProperty.AddRespStructure(Property{}, openapi.WithHTTPStatus(http.StatusOK))
	getProperty.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getProperty)

	// PUT /api/properties/{id}
	putProperty, _ := r.NewOperationContext(http.MethodPut, "/api/properties/{id}")
	putProperty.SetSummary("Update property")
	putProperty.SetDescription("Replaces the property document. Only the owner may update.")
	putProperty.AddReqStructure(updatePropertyParams{})
	putProperty.AddRespStructure(Property{}, openapi.WithHTTPStatus(http.StatusOK))
	putProperty.AddRespStructure(FieldErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	putProperty.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	putProperty.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putProperty)

	// GET /api/properties/events
	events, _ := r.NewOperationContext(http.MethodGet, "/api/properties/events")
	events.SetSummary("SSE event stream")
	events.SetDescription("Server-Sent Events for the owner's properties. Pass the token as a query parameter.")
	events.AddReqStructure(eventsParams{})
	events.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	events.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(events)

	// POST /api/bookings
	createBooking, _ := r.NewOperationContext(http.MethodPost, "/api/bookings")
	createBooking.SetSummary("Book a court")
	createBooking.SetDescription("Books a published slot, or a full day, at an active property. Players only.")
	createBooking.AddReqStructure(BookingRequest{})
	createBooking.AddRespStructure(Booking{}, openapi.WithHTTPStatus(http.StatusCreated))
	createBooking.AddRespStructure(FieldErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	createBooking.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	createBooking.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(createBooking)

	// GET /api/bookings/mine
	myBookings, _ := r.NewOperationContext(http.MethodGet, "/api/bookings/mine")
	myBookings.SetSummary("List my bookings")
	myBookings.AddRespStructure([]Booking{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(myBookings)

	// GET /api/bookings/property/{id}
	propertyBookings, _ := r.NewOperationContext(http.MethodGet, "/api/bookings/property/{id}")
	propertyBookings.SetSummary("List bookings of a property")
	propertyBookings.SetDescription("Only the property owner may list its bookings.")
	propertyBookings.AddReqStructure(idParam{})
	propertyBookings.AddRespStructure([]Booking{}, openapi.WithHTTPStatus(http.StatusOK))
	propertyBookings.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	propertyBookings.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(propertyBookings)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
