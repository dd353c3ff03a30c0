package bookings

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peershare-backend/internal/platform/web"
)

func newTestRouter() (*gin.Engine, *fakeStore) {
	gin.SetMode(gin.TestMode)
	svc, st := newTestService(testNow)
	seedUsersAndItem(st)
	r := gin.New()
	RegisterRoutes(r, svc)
	return r, st
}

func doJSON(r *gin.Engine, method, path, userID, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set(web.HeaderUserID, userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerAdd(t *testing.T) {
	r, _ := newTestRouter()

	start := testNow.Add(time.Hour).Format(time.RFC3339)
	end := testNow.Add(2 * time.Hour).Format(time.RFC3339)
	w := doJSON(r, http.MethodPost, "/bookings", "2",
		`{"itemId":10,"start":"`+start+`","end":"`+end+`"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/bookings/1", w.Header().Get("Location"))

	var res Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, int64(1), res.ID)
	assert.Equal(t, StatusWaiting, res.Status)
	assert.Equal(t, "drill", res.Item.Name)
	assert.Equal(t, "booker", res.Booker.Name)
}

func TestHandlerAddWithoutCaller(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/bookings", "", `{"itemId":10}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), web.HeaderUserID+" header is required")
}

func TestHandlerAddMalformedCaller(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/bookings", "abc", `{"itemId":10}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be a positive integer")
}

func TestHandlerSetStatus(t *testing.T) {
	r, st := newTestRouter()
	st.bookings[1] = &Booking{ID: 1, ItemID: 10, OwnerID: 1, BookerID: 2, Status: StatusWaiting}

	w := doJSON(r, http.MethodPatch, "/bookings/1?approved=true", "1", "")

	require.Equal(t, http.StatusOK, w.Code)
	var res Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, StatusApproved, res.Status)
}

func TestHandlerSetStatusMissingApproved(t *testing.T) {
	r, st := newTestRouter()
	st.bookings[1] = &Booking{ID: 1, ItemID: 10, OwnerID: 1, BookerID: 2, Status: StatusWaiting}

	w := doJSON(r, http.MethodPatch, "/bookings/1", "1", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "approved query parameter is required")
}

func TestHandlerGetByIDStranger(t *testing.T) {
	r, st := newTestRouter()
	st.users[3] = "stranger"
	st.bookings[1] = &Booking{ID: 1, ItemID: 10, OwnerID: 1, BookerID: 2, Status: StatusWaiting}

	w := doJSON(r, http.MethodGet, "/bookings/1", "3", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerListByBookerState(t *testing.T) {
	r, st := newTestRouter()
	st.bookings[1] = &Booking{ID: 1, Start: testNow.Add(-2 * time.Hour), End: testNow.Add(-time.Hour), ItemID: 10, OwnerID: 1, BookerID: 2, Status: StatusApproved}
	st.bookings[2] = &Booking{ID: 2, Start: testNow.Add(time.Hour), End: testNow.Add(2 * time.Hour), ItemID: 10, OwnerID: 1, BookerID: 2, Status: StatusWaiting}

	w := doJSON(r, http.MethodGet, "/bookings?state=past", "2", "")

	require.Equal(t, http.StatusOK, w.Code)
	var res []Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res, 1)
	assert.Equal(t, int64(1), res[0].ID)
}

func TestHandlerListUnknownState(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodGet, "/bookings?state=SOMEDAY", "2", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown booking state")
}

func TestHandlerListByOwnerUnknownUser(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodGet, "/bookings/owner", "99", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
