package app

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avjabalpur/cian-erp-sub002/config"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type AppTestSuite struct {
	suite.Suite
	app  App
	mock sqlmock.Sqlmock
	e    *echo.Echo
}

func (s *AppTestSuite) SetupSuite() {
	mockDB, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.mock = mock

	s.app = App{
		DB: sqlx.NewDb(mockDB, "postgres"),
		Config: &config.Config{
			JWTConfig: config.JWTConfig{
				Issuer:            "erp-api",
				Audience:          "erp-clients",
				Key:               "app-test-key",
				DurationInMinutes: 60,
				RefreshTokenTTL:   time.Hour,
			},
			AuthConfig:       config.AuthConfig{BcryptCost: 4, SessionSweepInterval: time.Hour},
			SalesOrderConfig: config.SalesOrderConfig{ApproverRoles: []string{"Admin"}},
			TracingConfig:    config.TracingConfig{ServiceName: "erp-test"},
		},
	}
	s.e = s.app.BuildServer()
}

func (s *AppTestSuite) TearDownSuite() {
	s.NoError(s.app.StopServer())
}

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (s *AppTestSuite) TestPing() {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	s.Equal(http.StatusOK, rec.Code)
}

func (s *AppTestSuite) TestSalesOrderRoutesRequireToken() {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sales-order/1/submit", nil))

	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *AppTestSuite) TestUnknownUserLoginHitsDatabase() {
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE username = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"ghost","password":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.NoError(s.mock.ExpectationsWereMet())
}
