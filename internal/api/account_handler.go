package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-account-go/internal/account"
	"storefront-account-go/internal/middleware"
	"storefront-account-go/internal/models"
	"storefront-account-go/internal/session"
	"storefront-account-go/internal/views"
)

const streamHeartbeat = 15 * time.Second

// AuthClient is the part of *auth.Client the API needs.
type AuthClient interface {
	middleware.TokenVerifier
	session.TokenRevoker
}

// AccountHandler serves the account area. Every request works on its own
// account.Page bound to the caller's identity.
type AccountHandler struct {
	services        account.Services
	auth            AuthClient
	recorder        account.Recorder
	loginPath       string
	recheckInterval time.Duration
	logger          *zap.Logger
	now             func() time.Time
}

// NewAccountHandler creates a new AccountHandler. recorder may be nil.
func NewAccountHandler(services account.Services, authClient AuthClient, recorder account.Recorder, loginPath string, recheckInterval time.Duration, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		services:        services,
		auth:            authClient,
		recorder:        recorder,
		loginPath:       loginPath,
		recheckInterval: recheckInterval,
		logger:          logger,
		now:             time.Now,
	}
}

func viewQuery(c *gin.Context) account.ViewQuery {
	return account.ViewQuery{
		OrderStatus:  c.DefaultQuery("status", views.OrderFilterAll),
		OrderSort:    c.DefaultQuery("sort", views.SortNewest),
		CouponFilter: c.DefaultQuery("filter", views.CouponFilterAll),
		CouponQuery:  c.Query("q"),
	}
}

func (h *AccountHandler) pageOptions() account.Options {
	return account.Options{
		LoginPath: h.loginPath,
		Logger:    h.logger,
		Recorder:  h.recorder,
		Now:       h.now,
	}
}

// identity returns the caller, or writes a 401 and returns nil.
func (h *AccountHandler) identity(c *gin.Context) *session.Identity {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context", RedirectTo: h.loginPath})
	}
	return identity
}

// openPage loads a page for the caller. The caller must Close it.
func (h *AccountHandler) openPage(c *gin.Context) (*account.Page, bool) {
	identity := h.identity(c)
	if identity == nil {
		return nil, false
	}
	ctx := c.Request.Context()
	provider := session.NewProvider()
	page := account.NewPage(provider, h.services, h.pageOptions())
	page.Open(ctx)
	if err := provider.Run(ctx, session.Static(identity)); err != nil {
		page.Close()
		mapErrorToStatus(c, err, h.loginPath, h.logger, nil)
		return nil, false
	}
	if tab := c.Query("tab"); tab != "" {
		if err := page.SelectTab(tab); err != nil {
			page.Close()
			mapErrorToStatus(c, err, h.loginPath, h.logger, nil)
			return nil, false
		}
	}
	return page, true
}

func (h *AccountHandler) respond(c *gin.Context, status int, page *account.Page, data interface{}) {
	c.JSON(status, MutationResponse{Data: data, Account: page.Snapshot(viewQuery(c))})
}

// GetAccount handles GET /account
func (h *AccountHandler) GetAccount(c *gin.Context) {
	page, ok := h.openPage(c)
	if !ok {
		return
	}
	defer page.Close()
	c.JSON(http.StatusOK, page.Snapshot(viewQuery(c)))
}

// StreamAccount handles GET /account/stream. It pushes a snapshot on every
// page change until the client goes away or the session ends.
func (h *AccountHandler) StreamAccount(c *gin.Context) {
	idToken := c.GetString(middleware.ContextIDToken)
	if idToken == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context", RedirectTo: h.loginPath})
		return
	}
	q := viewQuery(c)
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	changes := make(chan struct{}, 1)
	opts := h.pageOptions()
	opts.LiveCoupons = true
	opts.OnChange = func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}
	provider := session.NewProvider()
	page := account.NewPage(provider, h.services, opts)
	defer page.Close()
	page.Open(ctx)
	if tab := c.Query("tab"); tab != "" {
		if err := page.SelectTab(tab); err != nil {
			mapErrorToStatus(c, err, h.loginPath, h.logger, nil)
			return
		}
	}

	src := session.NewFirebaseSource(h.auth, idToken, h.recheckInterval, h.logger)
	go func() {
		if err := provider.Run(ctx, src); err != nil && !errors.Is(err, context.Canceled) {
			h.logger.Warn("Session source stopped", zap.Error(err))
		}
	}()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-heartbeat.C:
			c.SSEvent("ping", h.now().Unix())
			return true
		case <-changes:
			snap := page.Snapshot(q)
			c.SSEvent("account", snap)
			return snap.RedirectTo == ""
		}
	})
}

// SignOut handles POST /session/signout
func (h *AccountHandler) SignOut(c *gin.Context) {
	identity := h.identity(c)
	if identity == nil {
		return
	}
	if err := session.SignOut(c.Request.Context(), h.auth, identity.UID); err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, nil)
		return
	}
	h.logger.Info("User signed out", zap.String("userID", identity.UID))
	c.JSON(http.StatusOK, SuccessResponse{Message: "Signed out", Data: gin.H{"redirectTo": h.loginPath}})
}

// GetProfile handles GET /profile
func (h *AccountHandler) GetProfile(c *gin.Context) {
	identity := h.identity(c)
	if identity == nil {
		return
	}
	profile, err := h.services.Profiles.Load(c.Request.Context(), identity)
	if err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, nil)
		return
	}
	c.JSON(http.StatusOK, views.ToProfileCard(profile))
}

// UpdateProfile handles PUT /profile
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	page, ok := h.openPage(c)
	if !ok {
		return
	}
	defer page.Close()

	profile, err := page.SaveProfile(c.Request.Context(), req)
	if err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, page)
		return
	}
	h.respond(c, http.StatusOK, page, views.ToProfileCard(profile))
}
