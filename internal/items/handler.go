package items

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

	r.POST("/items", h.Add)
	r.PATCH("/items/:itemId", h.Update)
	r.GET("/items/:itemId", h.GetByID)
	r.GET("/items", h.ListByOwner)
	r.GET("/items/search", h.Search)
	r.POST("/items/:itemId/comment", h.AddComment)
}

func (h *Handler) Add(c *gin.Context) {
	ownerID, ok := web.CallerID(c)
	if !ok {
		web.MissingCaller(c)
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.FailMsg(c, http.StatusBadRequest, "invalid json body")
		return
	}

	res, err := h.svc.Add(c.Request.Context(), ownerID, req)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.Header("Location", "/items/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Update(c *gin.Context) {
	userID, ok := web.CallerID(c)
	if !ok {
		web.MissingCaller(c)
		return
	}
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil || itemID <= 0 {
		web.Fail(c, apperr.ConditionsNotMet("item id must be specified"))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.FailMsg(c, http.StatusBadRequest, "invalid json body")
		return
	}

	res, err := h.svc.Update(c.Request.Context(), itemID, userID, req)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetByID(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		web.Fail(c, apperr.WrongArgument("invalid item id"))
		return
	}

	res, err := h.svc.GetDetail(c.Request.Context(), itemID)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListByOwner(c *gin.Context) {
	ownerID, ok := web.CallerID(c)
	if !ok {
		web.MissingCaller(c)
		return
	}

	res, err := h.svc.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Search(c *gin.Context) {
	res, err := h.svc.Search(c.Request.Context(), c.Query("text"))
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) AddComment(c *gin.Context) {
	authorID, ok := web.CallerID(c)
	if !ok {
		web.MissingCaller(c)
		return
	}
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		web.Fail(c, apperr.WrongArgument("invalid item id"))
		return
	}

	var req CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.FailMsg(c, http.StatusBadRequest, "invalid json body")
		return
	}

	res, err := h.svc.AddComment(c.Request.Context(), itemID, authorID, req)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
