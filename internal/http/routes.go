package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	"github.com/hosteldesk/hosteldesk/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth          AuthServiceInterface
	Accounts      *service.AccountService
	Rooms         *service.RoomService
	Announcements *service.AnnouncementService
	Complaints    *service.ComplaintService
	Payments      *service.PaymentService
	Dashboard     *service.DashboardService
	CookieDomain  string
	CallbackURL   string
	Logger        *slog.Logger
}

// NewRouter creates and configures the HTTP router. Every route past the auth
// endpoints is gated: student routes admit students, warden routes admit
// wardens, and a session without a resolved role reaches neither.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		CallbackURL:  services.CallbackURL,
		Logger:       logger,
	}
	registerAuthRoutes(mux, authHandlers)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	gates := routeGates{
		any:     RequireSession(services.Auth),
		student: RequireRoles(services.Auth, domainauth.RoleStudent),
		warden:  RequireRoles(services.Auth, domainauth.RoleWarden),
	}

	registerAccountRoutes(mux, &AccountHandlers{Svc: services.Accounts}, gates)
	registerRoomRoutes(mux, &RoomHandlers{Svc: services.Rooms}, gates)
	registerAnnouncementRoutes(mux, &AnnouncementHandlers{Svc: services.Announcements}, gates)
	registerComplaintRoutes(mux, &ComplaintHandlers{Svc: services.Complaints}, gates)
	registerPaymentRoutes(mux, &PaymentHandlers{Svc: services.Payments}, gates)
	registerDashboardRoutes(mux, &DashboardHandlers{Svc: services.Dashboard}, gates)

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

// routeGates groups the three access levels routes are registered under.
type routeGates struct {
	any     func(http.Handler) http.Handler
	student func(http.Handler) http.Handler
	warden  func(http.Handler) http.Handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("POST /api/auth/reset-password", h.ResetPassword)
	mux.HandleFunc("GET /api/auth/status", h.Status)
	mux.HandleFunc("GET /auth/sso/login", h.SSOLogin)
	mux.HandleFunc("GET /auth/sso/callback", h.SSOCallback)
}

func registerAccountRoutes(mux *http.ServeMux, h *AccountHandlers, g routeGates) {
	mux.Handle("GET /api/me", g.any(http.HandlerFunc(h.Me)))
	mux.Handle("PATCH /api/me/profile", g.any(http.HandlerFunc(h.UpdateProfile)))
	mux.Handle("GET /api/students", g.warden(http.HandlerFunc(h.ListStudents)))
}

func registerRoomRoutes(mux *http.ServeMux, h *RoomHandlers, g routeGates) {
	mux.Handle("GET /api/rooms", g.any(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/rooms/{id}", g.any(http.HandlerFunc(h.GetByID)))
	mux.Handle("POST /api/rooms", g.warden(http.HandlerFunc(h.Create)))
	mux.Handle("POST /api/rooms/allocations", g.warden(http.HandlerFunc(h.Allocate)))
	mux.Handle("DELETE /api/rooms/allocations/{studentId}", g.warden(http.HandlerFunc(h.Deallocate)))
	mux.Handle("GET /api/rooms/{id}/allocations", g.warden(http.HandlerFunc(h.ListAllocations)))
	mux.Handle("GET /api/me/allocation", g.student(http.HandlerFunc(h.MyAllocation)))
}

func registerAnnouncementRoutes(mux *http.ServeMux, h *AnnouncementHandlers, g routeGates) {
	mux.Handle("GET /api/announcements", g.any(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/announcements", g.warden(http.HandlerFunc(h.Create)))
	mux.Handle("DELETE /api/announcements/{id}", g.warden(http.HandlerFunc(h.Delete)))
}

func registerComplaintRoutes(mux *http.ServeMux, h *ComplaintHandlers, g routeGates) {
	mux.Handle("POST /api/complaints", g.student(http.HandlerFunc(h.Submit)))
	mux.Handle("GET /api/me/complaints", g.student(http.HandlerFunc(h.My)))
	mux.Handle("GET /api/complaints", g.warden(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/complaints/{id}/progress", g.warden(http.HandlerFunc(h.MarkInProgress)))
	mux.Handle("POST /api/complaints/{id}/resolve", g.warden(http.HandlerFunc(h.Resolve)))
}

func registerPaymentRoutes(mux *http.ServeMux, h *PaymentHandlers, g routeGates) {
	mux.Handle("GET /api/me/payments", g.student(http.HandlerFunc(h.My)))
	mux.Handle("POST /api/payments", g.warden(http.HandlerFunc(h.Record)))
	mux.Handle("GET /api/payments", g.warden(http.HandlerFunc(h.ListByStatus)))
	mux.Handle("POST /api/payments/{id}/paid", g.warden(http.HandlerFunc(h.MarkPaid)))
	mux.Handle("POST /api/payments/mark-overdue", g.warden(http.HandlerFunc(h.MarkOverdue)))
}

func registerDashboardRoutes(mux *http.ServeMux, h *DashboardHandlers, g routeGates) {
	mux.Handle("GET /api/dashboard/student", g.student(http.HandlerFunc(h.StudentOverview)))
	mux.Handle("GET /api/dashboard/warden", g.warden(http.HandlerFunc(h.WardenOverview)))
}
