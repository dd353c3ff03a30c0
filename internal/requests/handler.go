package requests

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

	r.POST("/requests", h.Add)
	r.GET("/requests", h.GetByRequestor)
	r.GET("/requests/all", h.GetAll)
	r.GET("/requests/:requestId", h.GetByID)
}

func (h *Handler) Add(c *gin.Context) {
	requestorID, ok := web.CallerID(c)
	if !ok {
		web.MissingCaller(c)
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.FailMsg(c, http.StatusBadRequest, "invalid json body")
		return
	}

	res, err := h.svc.Add(c.Request.Context(), requestorID, req)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.Header("Location", "/requests/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) GetAll(c *gin.Context) {
	res, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetByRequestor(c *gin.Context) {
	requestorID, ok := web.CallerID(c)
	if !ok {
		web.MissingCaller(c)
		return
	}

	res, err := h.svc.GetByRequestor(c.Request.Context(), requestorID)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetByID(c *gin.Context) {
	requestID, err := strconv.ParseInt(c.Param("requestId"), 10, 64)
	if err != nil {
		web.Fail(c, apperr.WrongArgument("invalid request id"))
		return
	}

	res, err := h.svc.GetByID(c.Request.Context(), requestID)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
