// Package httpapi exposes the fleetdesk services as a JSON API over net/http.
// Handlers are thin: decode, call the service, encode. Every mutation response
// embeds the fresh table hash so clients can update their cache key without a
// verify round trip.
package httpapi

import (
	"net/http"
	"strconv"

	"github.com/akosenkov/fleetdesk/internal/logging"
	"github.com/akosenkov/fleetdesk/internal/server/coherency"
	"github.com/akosenkov/fleetdesk/internal/server/services"
)

type Server struct {
	logger    logging.Logger
	secretKey []byte

	coherency *coherency.Service
	drivers   *services.DriverService
	vehicles  *services.VehicleService
	customers *services.CustomerService
	orders    *services.OrderService
	users     *services.UserService
}

func NewServer(logger logging.Logger, secretKey []byte, ch *coherency.Service,
	drivers *services.DriverService, vehicles *services.VehicleService,
	customers *services.CustomerService, orders *services.OrderService,
	users *services.UserService) *Server {
	return &Server{
		logger:    logger,
		secretKey: secretKey,
		coherency: ch,
		drivers:   drivers,
		vehicles:  vehicles,
		customers: customers,
		orders:    orders,
		users:     users,
	}
}

// Handler assembles the route table. Account recovery endpoints are
// anonymous; everything touching entity data requires a valid token.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/account/login", s.handleLogin)
	mux.HandleFunc("POST /api/account/recover", s.handleRecoverRequest)
	mux.HandleFunc("GET /api/account/reset/validate", s.handleResetValidate)
	mux.HandleFunc("POST /api/account/reset", s.handleReset)

	mux.HandleFunc("POST /api/sync/verify", s.withAuth(s.handleVerify))

	mux.HandleFunc("GET /api/drivers", s.withAuth(s.handleDriverList))
	mux.HandleFunc("GET /api/drivers/{id}", s.withAuth(s.handleDriverGet))
	mux.HandleFunc("POST /api/drivers", s.withAuth(s.handleDriverCreate))
	mux.HandleFunc("PUT /api/drivers/{id}", s.withAuth(s.handleDriverUpdate))
	mux.HandleFunc("DELETE /api/drivers/{id}", s.withAuth(s.handleDriverDelete))
	mux.HandleFunc("POST /api/drivers/{id}/recover", s.withAuth(s.handleDriverRecover))

	mux.HandleFunc("GET /api/vehicles", s.withAuth(s.handleVehicleList))
	mux.HandleFunc("GET /api/vehicles/{id}", s.withAuth(s.handleVehicleGet))
	mux.HandleFunc("POST /api/vehicles", s.withAuth(s.handleVehicleCreate))
	mux.HandleFunc("PUT /api/vehicles/{id}", s.withAuth(s.handleVehicleUpdate))
	mux.HandleFunc("DELETE /api/vehicles/{id}", s.withAuth(s.handleVehicleDelete))
	mux.HandleFunc("POST /api/vehicles/{id}/recover", s.withAuth(s.handleVehicleRecover))

	mux.HandleFunc("GET /api/customers", s.withAuth(s.handleCustomerList))
	mux.HandleFunc("GET /api/customers/{id}", s.withAuth(s.handleCustomerGet))
	mux.HandleFunc("POST /api/customers", s.withAuth(s.handleCustomerCreate))
	mux.HandleFunc("PUT /api/customers/{id}", s.withAuth(s.handleCustomerUpdate))
	mux.HandleFunc("DELETE /api/customers/{id}", s.withAuth(s.handleCustomerDelete))
	mux.HandleFunc("POST /api/customers/{id}/recover", s.withAuth(s.handleCustomerRecover))

	mux.HandleFunc("GET /api/orders", s.withAuth(s.handleOrderList))
	mux.HandleFunc("GET /api/orders/{id}", s.withAuth(s.handleOrderGet))
	mux.HandleFunc("POST /api/orders", s.withAuth(s.handleOrderCreate))
	mux.HandleFunc("PUT /api/orders/{id}", s.withAuth(s.handleOrderUpdate))
	mux.HandleFunc("DELETE /api/orders/{id}", s.withAuth(s.handleOrderDelete))
	mux.HandleFunc("POST /api/orders/{id}/recover", s.withAuth(s.handleOrderRecover))

	return s.withRequestLog(s.withRecover(mux))
}

// idParam parses the {id} path segment. ok=false means the error response was
// already written.
func (s *Server) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func includeDeleted(r *http.Request) bool {
	return r.URL.Query().Get("deleted") == "true"
}
