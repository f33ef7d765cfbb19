package rpc

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"launchpool/native/launch"
	"launchpool/native/registry"
	"launchpool/observability/metrics"
)

// ServerConfig bundles the collaborators and settings of the HTTP surface.
type ServerConfig struct {
	Engine    *launch.Engine
	Registry  *registry.Registry
	Logger    *slog.Logger
	Auth      AuthConfig
	RateLimit int
	RateBurst int
}

// Server exposes the launch ledger over HTTP. Read endpoints are public;
// mutating endpoints additionally carry capability tokens in the request body,
// and the admin subtree requires a bearer token when a secret is configured.
type Server struct {
	engine   *launch.Engine
	registry *registry.Registry
	logger   *slog.Logger
	auth     *Authenticator
	limiter  *clientLimiter
	router   chi.Router
}

// NewServer wires the HTTP surface.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:   cfg.Engine,
		registry: cfg.Registry,
		logger:   logger,
		auth:     NewAuthenticator(cfg.Auth),
		limiter:  newClientLimiter(cfg.RateLimit, cfg.RateBurst),
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))
	r.Use(rateLimitMiddleware(s.limiter, "launch"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/listings", func(lr chi.Router) {
		lr.Use(metricsMiddleware("launch"))
		lr.Get("/", s.handleListingIndex)
		lr.Get("/{listingID}", s.handleGetListing)
		lr.Get("/{listingID}/passes/{passNumber}", s.handleGetPass)
		lr.Get("/{listingID}/passes/{passNumber}/claimable", s.handleClaimable)
		lr.Post("/{listingID}/deposits", s.handleDeposit)
		lr.Post("/{listingID}/claims", s.handleClaim)
		lr.Post("/{listingID}/refunds", s.handleRefund)
	})

	r.Route("/v1/admin", func(ar chi.Router) {
		ar.Use(metricsMiddleware("launchadmin"))
		ar.Use(s.auth.Middleware())
		ar.Post("/listings", s.handleCreateListing)
		ar.Post("/listings/{listingID}/activate", s.handleActivate)
		ar.Post("/listings/{listingID}/finalize", s.handleFinalize)
		ar.Post("/listings/{listingID}/pause", s.handleSetPaused)
		ar.Post("/listings/{listingID}/cancel", s.handleCancel)
		ar.Post("/listings/{listingID}/complete", s.handleComplete)
		ar.Post("/listings/{listingID}/fee", s.handleCollectFee)
		ar.Post("/listings/{listingID}/tranches/{index}", s.handleReleaseTranche)
		ar.Post("/listings/{listingID}/rewards", s.handleDepositRewards)
	})

	return r
}

func (s *Server) listingID(r *http.Request) ([32]byte, error) {
	return parseHash(chi.URLParam(r, "listingID"))
}

func (s *Server) passNumber(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "passNumber")
	number, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("rpc: invalid pass number %q", raw)
	}
	return number, nil
}

// syncRegistryStatus refreshes the catalogue after a lifecycle transition.
// Catalogue state is advisory, so failures are logged and swallowed.
func (s *Server) syncRegistryStatus(id [32]byte) {
	if s.registry == nil {
		return
	}
	listing, err := s.engine.GetListing(id)
	if err != nil {
		return
	}
	if err := s.registry.UpdateStatus(listing.Issuer, id, uint8(listing.Status)); err != nil {
		s.logger.Warn("registry status sync failed",
			slog.String("listingId", encodeHash(id)), slog.String("error", err.Error()))
	}
}

func (s *Server) handleListingIndex(w http.ResponseWriter, r *http.Request) {
	if s.registry == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	summaries, err := s.registry.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	type summaryPayload struct {
		ID        string `json:"id"`
		Issuer    string `json:"issuer"`
		Name      string `json:"name"`
		Status    uint8  `json:"status"`
		CreatedAt uint64 `json:"createdAt"`
	}
	out := make([]summaryPayload, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, summaryPayload{
			ID:        encodeHash(summary.ID),
			Issuer:    encodeAddr(summary.Issuer),
			Name:      summary.Name,
			Status:    summary.Status,
			CreatedAt: summary.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	id, err := s.listingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	listing, err := s.engine.GetListing(id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, encodeListing(listing))
}

func (s *Server) handleGetPass(w http.ResponseWriter, r *http.Request) {
	id, err := s.listingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	number, err := s.passNumber(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	pass, err := s.engine.GetPass(id, number)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, encodePass(pass))
}

func (s *Server) handleClaimable(w http.ResponseWriter, r *http.Request) {
	id, err := s.listingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	number, err := s.passNumber(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	pass, err := s.engine.GetPass(id, number)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	claimable, err := s.engine.Claimable(id, pass)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"claimable": encodeAmount(claimable)})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := s.listingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req struct {
		Backer string `json:"backer"`
		Amount string `json:"amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	backer, err := parseAddress(req.Backer)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	pass, err := s.engine.Deposit(id, backer, amount)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	metrics.Launch().RecordDeposit(amount)
	writeJSON(w, http.StatusCreated, encodePass(pass))
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	id, err := s.listingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req struct {
		Holder     string `json:"holder"`
		PassNumber uint64 `json:"passNumber"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	holder, err := parseAddress(req.Holder)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	pass, err := s.engine.GetPass(id, req.PassNumber)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	amount, err := s.engine.Claim(id, holder, pass)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	metrics.Launch().RecordClaim(amount)
	writeJSON(w, http.StatusOK, map[string]string{"amount": encodeAmount(amount)})
}

func (s *Server) handleRefund(w http.ResponseWriter, r *http.Request) {
	id, err := s.listingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req struct {
		Holder     string `json:"holder"`
		PassNumber uint64 `json:"passNumber"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	holder, err := parseAddress(req.Holder)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	pass, err := s.engine.GetPass(id, req.PassNumber)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	amount, err := s.engine.ClaimRefund(id, holder, pass)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	metrics.Launch().RecordRefund()
	writeJSON(w, http.StatusOK, map[string]string{"amount": encodeAmount(amount)})
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdminCap         string `json:"adminCap"`
		Issuer           string `json:"issuer"`
		ReleaseRecipient string `json:"releaseRecipient"`
		Validator        string `json:"validator"`
		RouteBps         uint32 `json:"routeBps"`
		Nonce            uint64 `json:"nonce"`
		Name             string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	capID, err := parseHash(req.AdminCap)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	issuer, err := parseAddress(req.Issuer)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	recipient, err := parseAddress(req.ReleaseRecipient)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var validator [20]byte
	if req.Validator != "" {
		if validator, err = parseAddress(req.Validator); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	listing, caps, err := s.engine.CreateListing(&launch.AdminCap{ID: capID}, issuer, recipient, validator, req.RouteBps, req.Nonce)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if s.registry != nil && req.Name != "" {
		summary := &registry.Summary{
			ID:        listing.ID,
			Issuer:    listing.Issuer,
			Name:      req.Name,
			Status:    uint8(listing.Status),
			CreatedAt: uint64(listing.CreatedAt),
		}
		if err := s.registry.Register(listing.Issuer, summary); err != nil {
			s.logger.Warn("catalogue registration failed",
				slog.String("listingId", encodeHash(listing.ID)), slog.String("error", err.Error()))
		}
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"listing":     encodeListing(listing),
		"councilCap":  encodeHash(caps.Council.ID),
		"operatorCap": encodeHash(caps.Operator.ID),
		"routeCap":    encodeHash(caps.Route.ID),
	})
}

type capRequest struct {
	Cap string `json:"cap"`
}

func (s *Server) withListingCap(w http.ResponseWriter, r *http.Request, fn func(id, cap [32]byte) error) {
	id, err := s.listingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req capRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	capID, err := parseHash(req.Cap)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := fn(id, capID); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.syncRegistryStatus(id)
	writeJSON(w, http.StatusOK, map[string]string{"listingId": encodeHash(id)})
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	s.withListingCap(w, r, func(id, capID [32]byte) error {
		return s.engine.Activate(&launch.CouncilCap{ID: capID, ListingID: id}, id)
	})
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	s.withListingCap(w, r, func(id, capID [32]byte) error {
		_, err := s.engine.Finalize(&launch.CouncilCap{ID: capID, ListingID: id}, id)
		return err
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.withListingCap(w, r, func(id, capID [32]byte) error {
		return s.engine.CancelListing(&launch.CouncilCap{ID: capID, ListingID: id}, id)
	})
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	s.withListingCap(w, r, func(id, capID [32]byte) error {
		return s.engine.Complete(&launch.CouncilCap{ID: capID, ListingID: id}, id)
	})
}

func (s *Server) handleSetPaused(w http.ResponseWriter, r *http.Request) {
	id, err := s.listingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req struct {
		AdminCap string `json:"adminCap"`
		Paused   bool   `json:"paused"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	capID, err := parseHash(req.AdminCap)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.engine.SetListingPaused(&launch.AdminCap{ID: capID}, id, req.Paused); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": req.Paused})
}

func (s *Server) handleCollectFee(w http.ResponseWriter, r *http.Request) {
	id, err := s.listingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req capRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	capID, err := parseHash(req.Cap)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fee, err := s.engine.CollectRaiseFee(&launch.OperatorCap{ID: capID, ListingID: id}, id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"fee": encodeAmount(fee)})
}

func (s *Server) handleReleaseTranche(w http.ResponseWriter, r *http.Request) {
	id, err := s.listingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("rpc: invalid tranche index"))
		return
	}
	var req capRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	capID, err := parseHash(req.Cap)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	amount, err := s.engine.ReleaseTranche(&launch.OperatorCap{ID: capID, ListingID: id}, id, index)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	metrics.Launch().RecordTrancheRelease()
	writeJSON(w, http.StatusOK, map[string]string{"amount": encodeAmount(amount)})
}

func (s *Server) handleDepositRewards(w http.ResponseWriter, r *http.Request) {
	id, err := s.listingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req struct {
		RouteCap string `json:"routeCap"`
		Funder   string `json:"funder"`
		Amount   string `json:"amount"`
		Yield    bool   `json:"yield"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	capID, err := parseHash(req.RouteCap)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	funder, err := parseAddress(req.Funder)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	routeCap := &launch.RouteCap{ID: capID, ListingID: id}
	var routing *launch.RewardRouting
	if req.Yield {
		routing, err = s.engine.DepositYield(routeCap, id, funder, amount)
	} else {
		routing, err = s.engine.DepositRewards(routeCap, id, funder, amount)
	}
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	metrics.Launch().RecordRoutedRewards("backers", routing.BackerShare)
	metrics.Launch().RecordRoutedRewards("treasury", routing.TreasuryShare)
	writeJSON(w, http.StatusOK, map[string]string{
		"backerShare":   encodeAmount(routing.BackerShare),
		"treasuryShare": encodeAmount(routing.TreasuryShare),
	})
}
