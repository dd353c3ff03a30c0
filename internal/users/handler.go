package users

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

	r.POST("/users", h.Add)
	r.GET("/users/:userId", h.GetByID)
	r.PATCH("/users/:userId", h.Update)
	r.DELETE("/users/:userId", h.Delete)
}

func (h *Handler) Add(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.FailMsg(c, http.StatusBadRequest, "invalid json body")
		return
	}

	res, err := h.svc.Add(c.Request.Context(), req)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.Header("Location", "/users/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) GetByID(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		web.Fail(c, apperr.WrongArgument("invalid user id"))
		return
	}

	res, err := h.svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Update(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		web.Fail(c, apperr.ConditionsNotMet("user id must be specified"))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.FailMsg(c, http.StatusBadRequest, "invalid json body")
		return
	}

	res, err := h.svc.Update(c.Request.Context(), userID, req)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Delete(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		web.Fail(c, apperr.WrongArgument("invalid user id"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID); err != nil {
		web.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
