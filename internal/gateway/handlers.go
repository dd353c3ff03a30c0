package gateway

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"peershare-backend/internal/platform/patch"
	"peershare-backend/internal/platform/web"
)

// Handlers validates and forwards. No business logic lives here: a request
// that passes validation is relayed upstream byte for byte.
type Handlers struct {
	client *Client
	logger zerolog.Logger
	now    func() time.Time
}

func NewHandlers(client *Client, logger zerolog.Logger) *Handlers {
	return &Handlers{client: client, logger: logger, now: time.Now}
}

func RegisterRoutes(r gin.IRoutes, h *Handlers) {
	r.POST("/users", h.AddUser)
	r.GET("/users/:userId", h.forwardPlain)
	r.PATCH("/users/:userId", h.UpdateUser)
	r.DELETE("/users/:userId", h.forwardPlain)

	r.POST("/items", h.AddItem)
	r.PATCH("/items/:itemId", h.UpdateItem)
	r.GET("/items/:itemId", h.forwardPlain)
	r.GET("/items", h.forwardWithCaller)
	r.GET("/items/search", h.SearchItems)
	r.POST("/items/:itemId/comment", h.AddComment)

	r.POST("/bookings", h.AddBooking)
	r.PATCH("/bookings/:bookingId", h.forwardWithCaller)
	r.GET("/bookings", h.forwardWithCaller)
	r.GET("/bookings/owner", h.forwardWithCaller)
	r.GET("/bookings/:bookingId", h.forwardWithCaller)

	r.POST("/requests", h.AddRequest)
	r.GET("/requests", h.forwardWithCaller)
	r.GET("/requests/all", h.AllRequests)
	r.GET("/requests/:requestId", h.forwardPlain)
}

// ---------- request payloads (validation only) ----------

type userCreatePayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userUpdatePayload struct {
	Name  patch.Field[string] `json:"name"`
	Email patch.Field[string] `json:"email"`
}

type itemCreatePayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
}

type itemUpdatePayload struct {
	Name        patch.Field[string] `json:"name"`
	Description patch.Field[string] `json:"description"`
}

type bookingCreatePayload struct {
	ItemID *int64     `json:"itemId"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

type commentPayload struct {
	Text string `json:"text"`
}

type requestCreatePayload struct {
	Description string `json:"description"`
}

// ---------- handlers ----------

func (h *Handlers) AddUser(c *gin.Context) {
	body, payload, ok := bindBody[userCreatePayload](c)
	if !ok {
		return
	}

	var errs []string
	if strings.TrimSpace(payload.Name) == "" {
		errs = append(errs, "name: must not be blank")
	}
	if _, err := mail.ParseAddress(payload.Email); err != nil {
		errs = append(errs, "email: must be a well-formed email address")
	}
	if failValidation(c, errs) {
		return
	}

	h.relay(c)(h.client.Forward(c.Request.Context(), http.MethodPost, c.Request.URL.Path, nil, "", body))
}

func (h *Handlers) UpdateUser(c *gin.Context) {
	body, payload, ok := bindBody[userUpdatePayload](c)
	if !ok {
		return
	}

	var errs []string
	if v, set := payload.Name.Get(); payload.Name.IsSet() && (!set || strings.TrimSpace(v) == "") {
		errs = append(errs, "name: must not be blank")
	}
	if v, set := payload.Email.Get(); payload.Email.IsSet() {
		if !set {
			errs = append(errs, "email: must not be null")
		} else if _, err := mail.ParseAddress(v); err != nil {
			errs = append(errs, "email: must be a well-formed email address")
		}
	}
	if failValidation(c, errs) {
		return
	}

	h.relay(c)(h.client.Forward(c.Request.Context(), http.MethodPatch, c.Request.URL.Path, nil, "", body))
}

func (h *Handlers) AddItem(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	body, payload, ok := bindBody[itemCreatePayload](c)
	if !ok {
		return
	}

	var errs []string
	if strings.TrimSpace(payload.Name) == "" {
		errs = append(errs, "name: must not be blank")
	}
	if strings.TrimSpace(payload.Description) == "" {
		errs = append(errs, "description: must not be blank")
	}
	if payload.Available == nil {
		errs = append(errs, "available: must not be null")
	}
	if failValidation(c, errs) {
		return
	}

	h.relay(c)(h.client.Forward(c.Request.Context(), http.MethodPost, c.Request.URL.Path, nil, caller, body))
}

func (h *Handlers) UpdateItem(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	body, payload, ok := bindBody[itemUpdatePayload](c)
	if !ok {
		return
	}

	var errs []string
	if v, set := payload.Name.Get(); payload.Name.IsSet() && (!set || strings.TrimSpace(v) == "") {
		errs = append(errs, "name: must not be blank")
	}
	if v, set := payload.Description.Get(); payload.Description.IsSet() && (!set || strings.TrimSpace(v) == "") {
		errs = append(errs, "description: must not be blank")
	}
	if failValidation(c, errs) {
		return
	}

	h.relay(c)(h.client.Forward(c.Request.Context(), http.MethodPatch, c.Request.URL.Path, nil, caller, body))
}

func (h *Handlers) AddBooking(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	body, payload, ok := bindBody[bookingCreatePayload](c)
	if !ok {
		return
	}

	now := h.now()
	var errs []string
	if payload.ItemID == nil {
		errs = append(errs, "itemId: must not be null")
	}
	switch {
	case payload.Start == nil:
		errs = append(errs, "start: must not be null")
	case !payload.Start.After(now):
		errs = append(errs, "start: must be a future date")
	}
	switch {
	case payload.End == nil:
		errs = append(errs, "end: must not be null")
	case !payload.End.After(now):
		errs = append(errs, "end: must be a future date")
	}
	if failValidation(c, errs) {
		return
	}

	h.relay(c)(h.client.Forward(c.Request.Context(), http.MethodPost, c.Request.URL.Path, nil, caller, body))
}

func (h *Handlers) AddComment(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	body, payload, ok := bindBody[commentPayload](c)
	if !ok {
		return
	}

	var errs []string
	if strings.TrimSpace(payload.Text) == "" {
		errs = append(errs, "text: must not be blank")
	}
	if failValidation(c, errs) {
		return
	}

	h.relay(c)(h.client.Forward(c.Request.Context(), http.MethodPost, c.Request.URL.Path, nil, caller, body))
}

func (h *Handlers) AddRequest(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	body, payload, ok := bindBody[requestCreatePayload](c)
	if !ok {
		return
	}

	var errs []string
	if strings.TrimSpace(payload.Description) == "" {
		errs = append(errs, "description: must not be blank")
	}
	if failValidation(c, errs) {
		return
	}

	h.relay(c)(h.client.Forward(c.Request.Context(), http.MethodPost, c.Request.URL.Path, nil, caller, body))
}

// SearchItems may serve from the Redis cache; results are identity-free.
func (h *Handlers) SearchItems(c *gin.Context) {
	text := c.Query("text")
	h.relay(c)(h.client.ForwardCached(c.Request.Context(), c.Request.URL.Path, c.Request.URL.Query(), "search:"+text))
}

func (h *Handlers) AllRequests(c *gin.Context) {
	h.relay(c)(h.client.ForwardCached(c.Request.Context(), c.Request.URL.Path, nil, "requests:all"))
}

// forwardPlain relays endpoints that need neither identity nor validation.
func (h *Handlers) forwardPlain(c *gin.Context) {
	h.relay(c)(h.client.Forward(c.Request.Context(), c.Request.Method, c.Request.URL.Path, c.Request.URL.Query(), "", nil))
}

// forwardWithCaller relays endpoints that only need the caller identity.
func (h *Handlers) forwardWithCaller(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	h.relay(c)(h.client.Forward(c.Request.Context(), c.Request.Method, c.Request.URL.Path, c.Request.URL.Query(), caller, nil))
}

// ---------- helpers ----------

// bindBody reads the raw body and unmarshals a validation copy. The raw
// bytes travel upstream untouched, so patch semantics survive the hop.
func bindBody[T any](c *gin.Context) ([]byte, *T, bool) {
	body, err := c.GetRawData()
	if err != nil {
		web.FailMsg(c, http.StatusBadRequest, "cannot read request body")
		return nil, nil, false
	}
	var payload T
	if err := json.Unmarshal(body, &payload); err != nil {
		web.FailMsg(c, http.StatusBadRequest, "invalid json body")
		return nil, nil, false
	}
	return body, &payload, true
}

func requireCaller(c *gin.Context) (string, bool) {
	caller := callerID(c)
	if caller == "" {
		web.MissingCaller(c)
		return "", false
	}
	return caller, true
}

func failValidation(c *gin.Context, errs []string) bool {
	if len(errs) == 0 {
		return false
	}
	web.FailMsg(c, http.StatusBadRequest, strings.Join(errs, "; "))
	return true
}

// relay writes the upstream response, errors becoming 502.
func (h *Handlers) relay(c *gin.Context) func(resp *UpstreamResponse, err error) {
	return func(resp *UpstreamResponse, err error) {
		if err != nil {
			h.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("upstream call failed")
			web.FailMsg(c, http.StatusBadGateway, "upstream unavailable")
			return
		}
		ct := resp.ContentType
		if ct == "" {
			ct = "application/json"
		}
		c.Data(resp.Status, ct, resp.Body)
	}
}
