package bookings

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"peershare-backend/internal/platform/apperr"
	"peershare-backend/internal/platform/web"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/bookings", h.Add)
	r.PATCH("/bookings/:bookingId", h.SetStatus)
	r.GET("/bookings", h.ListByBooker)
	r.GET("/bookings/owner", h.ListByOwner)
	r.GET("/bookings/:bookingId", h.GetByID)
}

func (h *Handler) Add(c *gin.Context) {
	bookerID, ok := web.CallerID(c)
	if !ok {
		web.MissingCaller(c)
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.FailMsg(c, http.StatusBadRequest, "invalid json body")
		return
	}

	res, err := h.svc.Add(c.Request.Context(), bookerID, req)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.Header("Location", "/bookings/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) SetStatus(c *gin.Context) {
	userID, ok := web.CallerID(c)
	if !ok {
		web.MissingCaller(c)
		return
	}
	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		web.Fail(c, apperr.WrongArgument("invalid booking id"))
		return
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		web.Fail(c, apperr.WrongArgument("approved query parameter is required"))
		return
	}

	res, err := h.svc.SetStatus(c.Request.Context(), bookingID, userID, approved)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetByID(c *gin.Context) {
	userID, ok := web.CallerID(c)
	if !ok {
		web.MissingCaller(c)
		return
	}
	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		web.Fail(c, apperr.WrongArgument("invalid booking id"))
		return
	}

	res, err := h.svc.GetByID(c.Request.Context(), bookingID, userID)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListByBooker(c *gin.Context) {
	userID, ok := web.CallerID(c)
	if !ok {
		web.MissingCaller(c)
		return
	}
	st, err := ParseState(c.Query("state"))
	if err != nil {
		web.Fail(c, err)
		return
	}

	res, err := h.svc.ListByBooker(c.Request.Context(), userID, st)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListByOwner(c *gin.Context) {
	userID, ok := web.CallerID(c)
	if !ok {
		web.MissingCaller(c)
		return
	}
	st, err := ParseState(c.Query("state"))
	if err != nil {
		web.Fail(c, err)
		return
	}

	res, err := h.svc.ListByOwner(c.Request.Context(), userID, st)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
