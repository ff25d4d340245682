package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/api/repository"
	"golang-stock-portfolio/internal/api/service"
	"golang-stock-portfolio/internal/entity"
	"golang-stock-portfolio/internal/testutil"
	"golang-stock-portfolio/pkg/auth"
	"golang-stock-portfolio/pkg/common"
	"golang-stock-portfolio/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testSigningKey = "0123456789abcdef0123456789abcdef0123456789abcdef"
	testPassword   = "Abcdef1!2345"
)

type fakeMarketData struct {
	mu     sync.Mutex
	stocks map[string]entity.Stock
	calls  int
}

func (f *fakeMarketData) GetStockBySymbol(_ context.Context, symbol string) (*entity.Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	stock, ok := f.stocks[strings.ToUpper(symbol)]
	if !ok {
		return nil, nil
	}
	return &stock, nil
}

type testServer struct {
	e          *echo.Echo
	db         *gorm.DB
	marketData *fakeMarketData
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.NewDB(t)
	log := logger.NewNop()
	marketData := &fakeMarketData{stocks: map[string]entity.Stock{
		"AAPL": {Symbol: "AAPL", CompanyName: "Apple Inc.", Industry: "Consumer Electronics", MarketCap: 3_000_000_000_000, Price: decimal.RequireFromString("187.5")},
		"MSFT": {Symbol: "MSFT", CompanyName: "Microsoft Corporation", Industry: "Software"},
	}}

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		SigningKey: testSigningKey,
		Issuer:     "portfolio-test",
		Audience:   "portfolio-test",
		TTL:        time.Hour,
	}, nil)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	stockRepo := repository.NewStockRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	resolver := service.NewStockResolver(stockRepo, marketData, log)

	policy := auth.PasswordPolicy{MinLength: 12, RequireUpper: true, RequireLower: true, RequireDigit: true, RequireSpecial: true}
	sqlDB, err := db.DB()
	require.NoError(t, err)

	e := NewRouter(Handlers{
		Account:   NewAccountHandler(service.NewAccountService(userRepo, tokens, policy, log), log),
		Stock:     NewStockHandler(service.NewStockService(stockRepo, commentRepo, log), log),
		Comment:   NewCommentHandler(service.NewCommentService(commentRepo, resolver, log, nil), log),
		Portfolio: NewPortfolioHandler(service.NewPortfolioService(portfolioRepo, stockRepo, resolver, log), log),
		Health:    NewHealthHandler(map[string]HealthCheck{"database": sqlDB.PingContext}, log),
	}, tokens, log)

	return &testServer{e: e, db: db, marketData: marketData}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, username string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/account/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": testPassword,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.AccountResponse
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestRegisterLoginAndPortfolioScenario(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/account/register", map[string]string{
		"username": "u1", "email": "u1@e.com", "password": testPassword,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/account/login", map[string]string{"username": "u1", "password": testPassword}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login dto.AccountResponse
	decode(t, rec, &login)
	require.NotEmpty(t, login.Token)

	rec = s.do(t, http.MethodGet, "/portfolio", nil, login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = s.do(t, http.MethodPost, "/portfolio?symbol=AAPL", nil, login.Token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/portfolio", nil, login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []dto.PortfolioResponse
	decode(t, rec, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "AAPL", items[0].Symbol)
	assert.Equal(t, "Apple Inc.", items[0].CompanyName)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/portfolio"},
		{http.MethodPost, "/portfolio?symbol=AAPL"},
		{http.MethodDelete, "/portfolio?symbol=AAPL"},
		{http.MethodGet, "/stock"},
		{http.MethodGet, "/comment"},
		{http.MethodPost, "/comment/AAPL"},
		{http.MethodGet, "/account/me"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := s.do(t, tc.method, tc.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			rec = s.do(t, tc.method, tc.path, nil, "not-a-token")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	var count int64
	s.db.Model(&entity.Stock{}).Count(&count)
	assert.Zero(t, count)
}

func TestTokenFromOtherKeyIsRejected(t *testing.T) {
	s := newTestServer(t)
	other, err := auth.NewTokenService(auth.TokenConfig{
		SigningKey: strings.Repeat("x", 48),
		Issuer:     "portfolio-test",
		Audience:   "portfolio-test",
		TTL:        time.Hour,
	}, nil)
	require.NoError(t, err)
	forged, _, err := other.Issue(auth.Principal{UserID: 1, Username: "mallory"})
	require.NoError(t, err)

	rec := s.do(t, http.MethodGet, "/portfolio", nil, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterAndLoginFailures(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")

	rec := s.do(t, http.MethodPost, "/account/register", map[string]string{
		"username": "bob", "email": "bob@example.com", "password": "password",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var verr dto.ErrorResponse
	decode(t, rec, &verr)
	assert.NotEmpty(t, verr.Fields["password"])

	rec = s.do(t, http.MethodPost, "/account/register", map[string]string{
		"username": "bob", "email": "not-an-email", "password": testPassword,
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	decode(t, rec, &verr)
	assert.Contains(t, verr.Fields, "email")

	rec = s.do(t, http.MethodPost, "/account/register", map[string]string{
		"username": "alice", "email": "alice2@example.com", "password": testPassword,
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	decode(t, rec, &verr)
	assert.Contains(t, verr.Fields, "username")

	wrong := s.do(t, http.MethodPost, "/account/login", map[string]string{"username": "alice", "password": "Wrong!pass123"}, "")
	unknown := s.do(t, http.MethodPost, "/account/login", map[string]string{"username": "nobody", "password": testPassword}, "")
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())

	rec = s.do(t, http.MethodPost, "/account/login", "{", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountMe(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice")

	rec := s.do(t, http.MethodGet, "/account/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile dto.ProfileResponse
	decode(t, rec, &profile)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, entity.RoleUser, profile.Role)
}

func TestStockCRUD(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice")

	rec := s.do(t, http.MethodPost, "/stock", map[string]interface{}{
		"symbol":      "",
		"companyName": "Nameless",
		"lastDiv":     250,
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var verr dto.ErrorResponse
	decode(t, rec, &verr)
	assert.Contains(t, verr.Fields, "symbol")
	assert.Contains(t, verr.Fields, "lastDiv")

	rec = s.do(t, http.MethodPost, "/stock", map[string]interface{}{
		"symbol":      "TSLA",
		"companyName": "Tesla",
		"industry":    "Automotive",
		"marketCap":   800_000_000_000,
		"price":       "251.3",
		"lastDiv":     0,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created dto.StockResponse
	decode(t, rec, &created)
	assert.Equal(t, "/stock/"+itoa(created.ID), rec.Header().Get(echo.HeaderLocation))

	rec = s.do(t, http.MethodPost, "/stock", map[string]interface{}{"symbol": "TSLA", "companyName": "Tesla again"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/stock/"+itoa(created.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPut, "/stock/"+itoa(created.ID), map[string]interface{}{
		"symbol":      "TSLA",
		"companyName": "Tesla, Inc.",
		"industry":    "Automotive",
		"marketCap":   900_000_000_000,
		"price":       260,
		"lastDiv":     0,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated dto.StockResponse
	decode(t, rec, &updated)
	assert.Equal(t, "Tesla, Inc.", updated.CompanyName)

	rec = s.do(t, http.MethodGet, "/stock?symbol=ts&pageSize=5", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []dto.StockResponse
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.NotNil(t, list[0].Comments)

	rec = s.do(t, http.MethodGet, "/stock?pageSize=500", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodGet, "/stock?sortBy=volume", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, "/stock/"+itoa(created.ID), nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, "/stock/"+itoa(created.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodGet, "/stock/"+itoa(created.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPut, "/stock/"+itoa(created.ID), map[string]interface{}{"symbol": "TSLA", "companyName": "Tesla"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/stock/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommentLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice")

	rec := s.do(t, http.MethodPost, "/comment/NOPE", map[string]string{"title": "Hello there", "content": "Unknown ticker"}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var stocks int64
	s.db.Model(&entity.Stock{}).Count(&stocks)
	assert.Zero(t, stocks)

	rec = s.do(t, http.MethodPost, "/comment/MSFT", map[string]string{"title": "Hi", "content": "Too short title"}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/comment/MSFT", map[string]string{"title": "Cloud leader", "content": "Azure keeps growing"}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created dto.CommentResponse
	decode(t, rec, &created)
	assert.Equal(t, "alice", created.CreatedBy)

	rec = s.do(t, http.MethodGet, "/comment?symbol=msft", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []dto.CommentResponse
	decode(t, rec, &list)
	require.Len(t, list, 1)

	rec = s.do(t, http.MethodGet, "/stock/"+itoa(created.StockID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stock dto.StockResponse
	decode(t, rec, &stock)
	require.Len(t, stock.Comments, 1)
	assert.Equal(t, created.ID, stock.Comments[0].ID)

	rec = s.do(t, http.MethodPut, "/comment/"+itoa(created.ID), map[string]string{"title": "Cloud giant", "content": "Azure keeps growing fast"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var updated dto.CommentResponse
	decode(t, rec, &updated)
	assert.Equal(t, "Cloud giant", updated.Title)
	assert.True(t, created.CreatedOn.Equal(updated.CreatedOn))

	rec = s.do(t, http.MethodDelete, "/comment/"+itoa(created.ID), nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/comment/"+itoa(created.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodDelete, "/comment/"+itoa(created.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortfolioRules(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	rec := s.do(t, http.MethodPost, "/portfolio", nil, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/portfolio?symbol=NOPE", nil, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/portfolio?symbol=AAPL", nil, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodPost, "/portfolio?symbol=aapl", nil, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/portfolio?symbol=AAPL", nil, bob)
	require.Equal(t, http.StatusCreated, rec.Code)

	// one import served both users
	var count int64
	s.db.Model(&entity.Stock{}).Where("symbol = ?", "AAPL").Count(&count)
	assert.Equal(t, int64(1), count)

	rec = s.do(t, http.MethodDelete, "/portfolio?symbol=AAPL", nil, alice)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, "/portfolio?symbol=AAPL", nil, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/portfolio", nil, bob)
	var items []dto.PortfolioResponse
	decode(t, rec, &items)
	assert.Len(t, items, 1)
}

func TestDeleteStockRemovesPortfolioEntries(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice")

	rec := s.do(t, http.MethodPost, "/portfolio?symbol=AAPL", nil, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	var item dto.PortfolioResponse
	decode(t, rec, &item)
	rec = s.do(t, http.MethodPost, "/comment/AAPL", map[string]string{"title": "Nice phone", "content": "Great margins"}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodDelete, "/stock/"+itoa(item.StockID), nil, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/portfolio", nil, token)
	assert.JSONEq(t, "[]", rec.Body.String())
	rec = s.do(t, http.MethodGet, "/comment", nil, token)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"up"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(common.HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(common.HeaderRequestID, "trace-123")
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, "trace-123", rec.Header().Get(common.HeaderRequestID))
}

func TestStockSymbolIsCaseInsensitive(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice")

	rec := s.do(t, http.MethodPost, "/stock", map[string]interface{}{"symbol": "TSLA", "companyName": "Tesla"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var upper dto.StockResponse
	decode(t, rec, &upper)

	rec = s.do(t, http.MethodPost, "/stock", map[string]interface{}{"symbol": "tsla", "companyName": "Tesla lower"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/stock", map[string]interface{}{"symbol": " nvda ", "companyName": "Nvidia"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var nvda dto.StockResponse
	decode(t, rec, &nvda)
	assert.Equal(t, "NVDA", nvda.Symbol)

	rec = s.do(t, http.MethodPut, "/stock/"+itoa(nvda.ID), map[string]interface{}{"symbol": "tsla", "companyName": "Nvidia"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/comment/tsla", map[string]string{"title": "Lower case", "content": "Same stock either way"}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var comment dto.CommentResponse
	decode(t, rec, &comment)
	assert.Equal(t, upper.ID, comment.StockID)

	var stocks int64
	s.db.Model(&entity.Stock{}).Count(&stocks)
	assert.Equal(t, int64(2), stocks)
}

func TestStockListRejectsOutOfRangePage(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice")

	rec := s.do(t, http.MethodPost, "/stock", map[string]interface{}{"symbol": "TSLA", "companyName": "Tesla"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/stock?pageNumber=9223372036854775807&pageSize=100", nil, token)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	var verr dto.ErrorResponse
	decode(t, rec, &verr)
	assert.Contains(t, verr.Fields, "pageNumber")

	rec = s.do(t, http.MethodGet, "/stock?pageNumber=1000000&pageSize=100", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []dto.StockResponse
	decode(t, rec, &list)
	assert.Empty(t, list)

	rec = s.do(t, http.MethodGet, "/stock?symbol=%25", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	assert.Empty(t, list)
}

func TestStockRejectsPriceBeyondColumn(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/stock", map[string]interface{}{
		"symbol":      "BIG",
		"companyName": "Too expensive",
		"price":       1e17,
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	var verr dto.ErrorResponse
	decode(t, rec, &verr)
	assert.Contains(t, verr.Fields, "price")
}
