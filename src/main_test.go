package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"maestro/src/db"
	"maestro/src/middlewares"
	"maestro/src/models"
	"maestro/src/types"
	"maestro/src/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB   *gorm.DB
	Mock sqlmock.Sqlmock
}

const (
	secret = "secret"
	origin = "http://localhost:3000"
)

// testAuthMiddleware stands in for the JWT middleware so handler tests do not
// need a user row behind every request.
func testAuthMiddleware(ctx *gin.Context) {
	ctx.Set("id", uint(1))
	ctx.Set("email", "someone@example.com")
	ctx.Set("uid", "test-uid")
	ctx.Set("name", "Test User")
	ctx.Set("role", types.ROLE_ORGANIZER)
}

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	mockdb, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 mockdb,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func (s *TestSuite) SetupSuite() {
	os.Setenv("API_SECRET", secret)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("datefield", dateFieldValidatorFunc)
		v.RegisterValidation("timefield", timeFieldValidatorFunc)
		v.RegisterValidation("eventdate", eventDateValidatorFunc)
	}
}

func (s *TestSuite) SetupTest() {
	d, mock := NewMockDB()
	db.NewDB(d)
	s.DB = d
	s.Mock = mock
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Setenv("MAINTENANCE_MODE", "false")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	publicRoutes(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/events", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestGuestAuthRequiresSecret() {
	router := setupRouter()
	guestAuthRoutes(router)

	jbody := map[string]any{"email": "someone@example.com"}
	sbody, _ := json.Marshal(&jbody)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(string(sbody)))
	req.Header.Set("origin", origin)
	router.ServeHTTP(w, req)
	assert.Equal(s.T(), 401, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(string(sbody)))
	req.Header.Set("x-secret", "not-the-secret")
	req.Header.Set("origin", origin)
	router.ServeHTTP(w, req)
	assert.Equal(s.T(), 401, w.Code)
}

func (s *TestSuite) TestPublicEventsList() {
	s.Mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "date", "time", "location_name"}))

	router := setupRouter()
	publicRoutes(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/events?when=upcoming&sort=date-asc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), int64(0), gjson.GetBytes(rbytes, "count").Int())
}

func (s *TestSuite) TestQuoteEndpoint() {
	s.Mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "title", "date", "time", "price", "ticket_capacity"}).
			AddRow(1, "Chamber Night", "2030-05-01", "19:30", 30.0, 100))
	s.Mock.ExpectQuery(`SELECT (.+) FROM "event_artists"`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "artist_id"}))
	s.Mock.ExpectQuery(`SELECT count`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))

	router := setupRouter()
	publicRoutes(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/events/1/quote?qty=2", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	sjson := string(rbytes)
	assert.Equal(s.T(), 30.0, gjson.Get(sjson, "quote.unit_price").Float())
	assert.Equal(s.T(), 60.0, gjson.Get(sjson, "quote.total_amount").Float())
	assert.False(s.T(), gjson.Get(sjson, "quote.is_free").Bool())
	assert.Equal(s.T(), int64(88), gjson.Get(sjson, "quote.remaining_after_booking").Int())
}

func (s *TestSuite) TestQuoteEndpointSoldOut() {
	s.Mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "title", "date", "time", "price", "ticket_capacity"}).
			AddRow(1, "Chamber Night", "2030-05-01", "19:30", 30.0, 100))
	s.Mock.ExpectQuery(`SELECT (.+) FROM "event_artists"`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "artist_id"}))
	s.Mock.ExpectQuery(`SELECT count`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(100))

	router := setupRouter()
	publicRoutes(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/events/1/quote", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 422, w.Code)
	rbytes, _ := io.ReadAll(w.Body)
	assert.Equal(s.T(), "sold_out", gjson.GetBytes(rbytes, "kind").String())
}

// The read-only quote clamps the requested count to the booking form's
// range instead of pricing arbitrary quantities.
func (s *TestSuite) TestQuoteEndpointClampsQty() {
	s.Mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "title", "date", "time", "price"}).
			AddRow(1, "Chamber Night", "2030-05-01", "19:30", 30.0))
	s.Mock.ExpectQuery(`SELECT (.+) FROM "event_artists"`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "artist_id"}))
	s.Mock.ExpectQuery(`SELECT count`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	router := setupRouter()
	publicRoutes(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/events/1/quote?qty=50", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	rbytes, _ := io.ReadAll(w.Body)
	sjson := string(rbytes)
	assert.Equal(s.T(), int64(10), gjson.Get(sjson, "quote.qty").Int())
	assert.Equal(s.T(), 300.0, gjson.Get(sjson, "quote.total_amount").Float())
}

func (s *TestSuite) TestQuoteEndpointClampsToRemaining() {
	s.Mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "title", "date", "time", "price", "ticket_capacity"}).
			AddRow(1, "Chamber Night", "2030-05-01", "19:30", 30.0, 100))
	s.Mock.ExpectQuery(`SELECT (.+) FROM "event_artists"`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "artist_id"}))
	s.Mock.ExpectQuery(`SELECT count`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(97))

	router := setupRouter()
	publicRoutes(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/events/1/quote?qty=8", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	rbytes, _ := io.ReadAll(w.Body)
	sjson := string(rbytes)
	assert.Equal(s.T(), int64(3), gjson.Get(sjson, "quote.qty").Int())
	assert.Equal(s.T(), 90.0, gjson.Get(sjson, "quote.total_amount").Float())
	assert.Equal(s.T(), int64(0), gjson.Get(sjson, "quote.remaining_after_booking").Int())
}

// A checkout of N tickets writes exactly N rows in one batch insert.
func (s *TestSuite) TestSubmitBookingFreeEvent() {
	s.Mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "title", "date", "time", "ticket_capacity"}).
			AddRow(1, "Open Rehearsal", "2030-05-01", "19:30", 100))
	s.Mock.ExpectQuery(`SELECT (.+) FROM "event_artists"`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "artist_id"}))
	s.Mock.ExpectQuery(`SELECT count`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	s.Mock.ExpectBegin()
	s.Mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(3))
	s.Mock.ExpectCommit()

	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(testAuthMiddleware)
	bookingHandlers(apiv1)

	form := url.Values{}
	form.Set("qty", "3")
	form.Set("attendee_name", "Test User")
	form.Set("attendee_email", "someone@example.com")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/events/1/bookings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 201, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	sjson := string(rbytes)
	assert.Equal(s.T(), int64(3), gjson.Get(sjson, "data.#").Int())
	assert.True(s.T(), gjson.Get(sjson, "quote.is_free").Bool())
	assert.Contains(s.T(), gjson.Get(sjson, "calendar_link").String(), "calendar.google.com")
	for _, st := range gjson.Get(sjson, "data.#.status").Array() {
		assert.Equal(s.T(), "confirmed", st.String())
	}
}

func (s *TestSuite) TestSubmitBookingPaidRequiresProof() {
	s.Mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "title", "date", "time", "price", "ticket_capacity"}).
			AddRow(1, "Gala Concert", "2030-05-01", "19:30", 45.0, 100))
	s.Mock.ExpectQuery(`SELECT (.+) FROM "event_artists"`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "artist_id"}))
	s.Mock.ExpectQuery(`SELECT count`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(testAuthMiddleware)
	bookingHandlers(apiv1)

	form := url.Values{}
	form.Set("qty", "1")
	form.Set("attendee_name", "Test User")
	form.Set("attendee_email", "someone@example.com")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/events/1/bookings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 422, w.Code)
	rbytes, _ := io.ReadAll(w.Body)
	assert.Equal(s.T(), "proof_required", gjson.GetBytes(rbytes, "kind").String())
}

// Paid checkouts persist one pending row per ticket with the direct payment
// method and the unit price as the row amount.
func (s *TestSuite) TestCreatePaidBookingRows() {
	s.Mock.ExpectBegin()
	s.Mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11).AddRow(12))
	s.Mock.ExpectCommit()

	event := &models.Event{ID: 3, Title: "Gala Concert", Date: "2030-05-01", Time: "19:30"}
	quote := &types.Quote{UnitPrice: 45.0, TotalAmount: 90.0, Qty: 2}
	proofURL := "https://bucket.example/1/3/1700000000000.png"

	rows, err := utils.CreateBookingRows(event, 1, "Test User", "someone@example.com", quote, &proofURL)
	assert.Nil(s.T(), err)
	assert.Len(s.T(), rows, 2)
	for _, row := range rows {
		assert.Equal(s.T(), types.BOOKING_PENDING, row.Status)
		assert.Equal(s.T(), types.PAYMENT_DIRECT, row.PaymentMethod)
		assert.Equal(s.T(), 45.0, row.Amount)
		assert.Equal(s.T(), proofURL, *row.ProofOfPaymentURL)
	}
}

func (s *TestSuite) TestAuthRejectsMalformedBearer() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(middlewares.AuthMiddleware)
	apiv1.GET("/whoami", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	for _, header := range []string{"", "Bearer", "Bearer ", "Token abc", "Bearer not-a-token"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)
		assert.Equal(s.T(), 401, w.Code)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/whoami", nil)
	req.Header.Set("Authorization", "Bearer")
	router.ServeHTTP(w, req)
	rbytes, _ := io.ReadAll(w.Body)
	assert.Equal(s.T(), "not_signed_in", gjson.GetBytes(rbytes, "kind").String())
}

func (s *TestSuite) TestUpdateBookingStatus() {
	s.Mock.ExpectBegin()
	s.Mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "event_id", "user_id", "attendee_name", "attendee_email", "status"}).
			AddRow(7, 5, 2, "Someone Else", "else@example.com", "pending"))
	s.Mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "title", "date", "time", "user_id"}).
			AddRow(5, "Gala Concert", "2030-05-01", "19:30", 1))
	s.Mock.ExpectExec(`UPDATE "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.Mock.ExpectCommit()

	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(testAuthMiddleware)
	reviewHandlers(apiv1)

	jbody := map[string]any{"status": "confirmed"}
	sbody, _ := json.Marshal(&jbody)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/v1/bookings/7/status", strings.NewReader(string(sbody)))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 204, w.Code)
}

// Setting a booking to the status it already has performs no update.
func (s *TestSuite) TestUpdateBookingStatusNoOp() {
	s.Mock.ExpectBegin()
	s.Mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "event_id", "user_id", "attendee_name", "attendee_email", "status"}).
			AddRow(7, 5, 2, "Someone Else", "else@example.com", "confirmed"))
	s.Mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "title", "date", "time", "user_id"}).
			AddRow(5, "Gala Concert", "2030-05-01", "19:30", 1))
	s.Mock.ExpectCommit()

	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(testAuthMiddleware)
	reviewHandlers(apiv1)

	jbody := map[string]any{"status": "confirmed"}
	sbody, _ := json.Marshal(&jbody)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/v1/bookings/7/status", strings.NewReader(string(sbody)))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 204, w.Code)
	assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
