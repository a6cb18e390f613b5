package api_test

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ken19931113/debook/internal/account"
	"github.com/Ken19931113/debook/internal/api"
	"github.com/Ken19931113/debook/internal/domain"
	"github.com/Ken19931113/debook/internal/journal"
	"github.com/Ken19931113/debook/internal/storage/memory"
)

const wallet = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

type fakeProperties struct {
	props     []*domain.Property
	err       error
	gotSkip   int
	gotLimit  int
	landlords map[string][]*domain.Property
}

func (f *fakeProperties) ListAvailable(_ context.Context, skip, limit int) ([]*domain.Property, error) {
	f.gotSkip, f.gotLimit = skip, limit
	if f.err != nil {
		return nil, f.err
	}
	return f.props, nil
}

func (f *fakeProperties) GetProperty(_ context.Context, id uint64) (*domain.Property, bool) {
	for _, p := range f.props {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (f *fakeProperties) LandlordProperties(_ context.Context, landlord string) ([]*domain.Property, error) {
	return f.landlords[landlord], nil
}

type fakeRentals struct {
	byTenant map[string][]*domain.Rental
}

func (f *fakeRentals) UserRentals(_ context.Context, tenant string) ([]*domain.Rental, error) {
	return f.byTenant[tenant], nil
}

func (f *fakeRentals) GetRental(_ context.Context, id uint64) (*domain.Rental, bool) {
	for _, rs := range f.byTenant {
		for _, r := range rs {
			if r.ID == id {
				return r, true
			}
		}
	}
	return nil, false
}

type fakeQuoter struct {
	quote *domain.PriceQuote
}

func (f *fakeQuoter) Quote(_ context.Context, id uint64, start, end int64) (*domain.PriceQuote, bool) {
	if f.quote == nil {
		return nil, false
	}
	q := *f.quote
	q.PropertyID, q.StartDate, q.EndDate = id, start, end
	return &q, true
}

type fakeLister struct {
	mu       sync.Mutex
	receipt  *domain.ListingReceipt
	err      error
	gotOwner string
	gotKey   *ecdsa.PrivateKey
	gotInput domain.ListingInput
	calls    int
}

func (f *fakeLister) ListProperty(_ context.Context, owner string, in domain.ListingInput, key *ecdsa.PrivateKey) (*domain.ListingReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotOwner, f.gotInput, f.gotKey = owner, in, key
	return f.receipt, f.err
}

type fixture struct {
	handler    http.Handler
	properties *fakeProperties
	rentals    *fakeRentals
	quoter     *fakeQuoter
	lister     *fakeLister
	users      *memory.UserStore
	accounts   *account.Service
	journal    *journal.Journal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	quiet := log.New(io.Discard, "", 0)
	users := memory.NewUserStore()
	j := journal.New(memory.NewActivityStore(0))
	accounts := account.NewService(users, account.NewTokenIssuer("test-secret"),
		account.WithBcryptCost(bcrypt.MinCost),
		account.WithRecorder(j),
		account.WithLogger(quiet),
	)

	f := &fixture{
		properties: &fakeProperties{landlords: map[string][]*domain.Property{}},
		rentals:    &fakeRentals{byTenant: map[string][]*domain.Rental{}},
		quoter:     &fakeQuoter{},
		lister:     &fakeLister{},
		users:      users,
		accounts:   accounts,
		journal:    j,
	}
	srv := api.NewServer(api.Deps{
		Accounts:   accounts,
		Properties: f.properties,
		Rentals:    f.rentals,
		Pricing:    f.quoter,
		Lister:     f.lister,
		Activity:   j,
		Contracts:  []api.ContractResponse{{Name: "RentalNFT", Address: "0x5FbDB2315678afecb367f032d93F642f64180aa3"}},
	}, api.Config{
		Prefix:           "/api/v1",
		CORSOrigins:      []string{"http://localhost:3000"},
		DefaultPageLimit: 20,
		MaxPageLimit:     100,
	}, api.WithLogger(quiet))
	f.handler = srv.Handler()
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func (f *fixture) register(t *testing.T, username string, walletAddr *string) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/register", map[string]any{
		"username": username, "email": username + "@example.com", "password": "secret",
		"wallet_address": walletAddr,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tok api.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))
	assert.Equal(t, "bearer", tok.TokenType)
	return tok.AccessToken
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Detail
}

func strPtr(s string) *string { return &s }

func TestHealthAndPrefix(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		w := f.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	}

	w := f.do(t, http.MethodGet, "/contracts", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "RentalNFT")

	w = f.do(t, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterLoginMe(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", strPtr(wallet))

	w := f.do(t, http.MethodPost, "/token", map[string]string{"username": "alice", "password": "secret"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var tok api.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))

	w = f.do(t, http.MethodGet, "/users/me", nil, tok.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var me api.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, wallet, *me.WalletAddress)
	assert.True(t, me.IsActive)
	assert.False(t, me.IsLandlord)
	assert.False(t, me.CreatedAt.IsZero())
}

func TestLoginForm(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", nil)

	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader("username=alice&password=secret"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRegisterConflicts(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", nil)

	w := f.do(t, http.MethodPost, "/register", map[string]string{
		"username": "alice", "email": "other@example.com", "password": "pw",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Username already registered", detail(t, w))

	w = f.do(t, http.MethodPost, "/register", map[string]string{
		"username": "bob", "email": "alice@example.com", "password": "pw",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already registered", detail(t, w))

	w = f.do(t, http.MethodPost, "/register", map[string]string{"username": "carol"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthFailures(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", nil)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			f.handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		})
	}

	w := f.do(t, http.MethodPost, "/token", map[string]string{"username": "alice", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Incorrect username or password", detail(t, w))
}

func TestInactiveUser(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.users.Create(context.Background(), &domain.User{ID: "i", Username: "idle", Email: "i@example.com"}))
	token, err := f.accounts.IssueToken("idle", time.Hour)
	require.NoError(t, err)

	w := f.do(t, http.MethodGet, "/users/me", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Inactive user", detail(t, w))
}

func TestLinkWallet(t *testing.T) {
	f := newFixture(t)
	token := f.register(t, "alice", nil)

	w := f.do(t, http.MethodPost, "/users/me/wallet?wallet_address="+wallet, nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"success"`)

	other := "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
	w = f.do(t, http.MethodPost, "/users/me/wallet", map[string]string{"wallet_address": other}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/users/me", nil, token)
	assert.Contains(t, w.Body.String(), other)

	w = f.do(t, http.MethodPost, "/users/me/wallet", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProperties(t *testing.T) {
	f := newFixture(t)
	f.properties.props = []*domain.Property{
		{ID: 1, Location: "Seoul", PricePerMonth: decimal.RequireFromString("1.5"), Available: true, MaxRentalDuration: 12},
		{ID: 2, Location: "Busan", PricePerMonth: decimal.RequireFromString("0.5"), Available: true, MaxRentalDuration: 6},
	}

	w := f.do(t, http.MethodGet, "/properties/", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 0, f.properties.gotSkip)
	assert.Equal(t, 20, f.properties.gotLimit)

	var out []api.PropertyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Len(t, out, 2)
	assert.Contains(t, w.Body.String(), `"pricePerMonth":1.5`)

	w = f.do(t, http.MethodGet, "/properties/?skip=5&limit=2&location=seo", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, f.properties.gotSkip)
	assert.Equal(t, 2, f.properties.gotLimit)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, uint64(1), out[0].ID)

	w = f.do(t, http.MethodGet, "/properties/?max_price=1&max_duration=6", nil, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, uint64(2), out[0].ID)
}

func TestListPropertiesBadQuery(t *testing.T) {
	f := newFixture(t)

	for _, q := range []string{"skip=-1", "limit=0", "limit=101", "limit=abc", "min_price=x", "min_duration=-2"} {
		w := f.do(t, http.MethodGet, "/properties/?"+q, nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestListPropertiesUpstream(t *testing.T) {
	f := newFixture(t)
	f.properties.err = errors.New("rpc down")

	w := f.do(t, http.MethodGet, "/properties/", nil, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetProperty(t *testing.T) {
	f := newFixture(t)
	f.properties.props = []*domain.Property{{ID: 3, Location: "Jeju", Metadata: domain.Metadata{"name": "Villa"}}}

	w := f.do(t, http.MethodGet, "/properties/3", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Villa"`)

	w = f.do(t, http.MethodGet, "/api/v1/properties/4", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Property not found", detail(t, w))

	w = f.do(t, http.MethodGet, "/properties/zero", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProperty(t *testing.T) {
	f := newFixture(t)
	id := uint64(9)
	f.lister.receipt = &domain.ListingReceipt{TxHash: "0xabc", BlockNumber: 12, MetadataURI: "ipfs://Qm", PropertyID: &id}

	noWallet := f.register(t, "bob", nil)
	w := f.do(t, http.MethodPost, "/properties/", map[string]any{"location": "Seoul"}, noWallet)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Wallet address not set", detail(t, w))
	assert.Equal(t, 0, f.lister.calls)

	token := f.register(t, "alice", strPtr(wallet))
	w = f.do(t, http.MethodPost, "/properties/", map[string]any{
		"location": "Seoul", "pricePerMonth": "1.5", "minRentalDuration": 1,
		"maxRentalDuration": 12, "depositRequirement": 1, "metadata": map[string]any{"name": "Loft"},
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"propertyId":9,"metadataURI":"ipfs://Qm",
		"transaction":{"hash":"0xabc","blockNumber":12}}`, w.Body.String())

	assert.Equal(t, wallet, f.lister.gotOwner)
	assert.Nil(t, f.lister.gotKey)
	require.NotNil(t, f.lister.gotInput.PricePerMonth)
	assert.Equal(t, "1.5", f.lister.gotInput.PricePerMonth.String())
	assert.Equal(t, "Loft", f.lister.gotInput.Metadata["name"])

	w = f.do(t, http.MethodGet, "/users/me", nil, token)
	assert.Contains(t, w.Body.String(), `"is_landlord":true`)
}

func TestCreatePropertyNoEvent(t *testing.T) {
	f := newFixture(t)
	f.lister.receipt = &domain.ListingReceipt{TxHash: "0xabc", BlockNumber: 3}
	token := f.register(t, "alice", strPtr(wallet))

	w := f.do(t, http.MethodPost, "/properties/", map[string]any{"location": "Seoul"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"propertyId":null`)
}

func TestCreatePropertyFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"validation", &domain.ValidationError{Field: "location"}},
		{"signing authority", domain.ErrSigningAuthority},
		{"upstream", domain.Upstream("send transaction", errors.New("boom"))},
		{"timeout", &domain.ReceiptTimeoutError{TxHash: "0x1"}},
		{"reverted", &domain.RevertedError{TxHash: "0x1", BlockNumber: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.lister.err = tt.err
			token := f.register(t, "alice", strPtr(wallet))

			w := f.do(t, http.MethodPost, "/properties/", map[string]any{"location": "Seoul"}, token)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.err.Error(), detail(t, w))

			w = f.do(t, http.MethodGet, "/users/me", nil, token)
			assert.Contains(t, w.Body.String(), `"is_landlord":false`)
		})
	}
}

func TestRentals(t *testing.T) {
	f := newFixture(t)
	f.rentals.byTenant[wallet] = []*domain.Rental{{ID: 4, PropertyID: 1, Tenant: wallet, FinalPrice: decimal.RequireFromString("2")}}

	noWallet := f.register(t, "bob", nil)
	w := f.do(t, http.MethodGet, "/rentals/", nil, noWallet)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := f.register(t, "alice", strPtr(wallet))
	w = f.do(t, http.MethodGet, "/rentals/", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var out []api.RentalResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, uint64(4), out[0].ID)

	w = f.do(t, http.MethodGet, "/rentals/4", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodGet, "/rentals/5", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Rental not found", detail(t, w))
}

func TestCalculatePrice(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/rentals/calculate", map[string]any{"property_id": 1, "start_date": 100}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/rentals/calculate", map[string]any{"property_id": 1, "start_date": 100, "end_date": 200}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Failed to calculate price", detail(t, w))

	f.quoter.quote = &domain.PriceQuote{
		LeadDays:     30,
		FinalPrice:   decimal.RequireFromString("1.9"),
		PlatformFee:  decimal.RequireFromString("0.057"),
		TotalPayment: decimal.RequireFromString("1.957"),
	}
	w = f.do(t, http.MethodPost, "/rentals/calculate", map[string]any{"property_id": 1, "start_date": 100, "end_date": 200}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalPayment":1.957`)
	assert.Contains(t, w.Body.String(), `"propertyId":1`)
}

func TestLandlordProperties(t *testing.T) {
	f := newFixture(t)
	f.properties.landlords[wallet] = []*domain.Property{{ID: 7, Owner: wallet}}
	token := f.register(t, "alice", strPtr(wallet))

	w := f.do(t, http.MethodGet, "/landlord/properties/", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":7`)
}

func TestActivity(t *testing.T) {
	f := newFixture(t)
	token := f.register(t, "alice", nil)
	f.register(t, "bob", nil)

	w := f.do(t, http.MethodGet, "/activity?kind=user_registered&limit=1", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out []api.ActivityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, domain.ActivityUserRegistered, out[0].Kind)
	assert.Equal(t, "alice", out[0].Subject)

	w = f.do(t, http.MethodGet, "/activity?limit=0", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityOnlyOwnEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bobWallet := "0x1111111111111111111111111111111111111111"

	aliceToken := f.register(t, "alice", nil)
	bobToken := f.register(t, "bob", nil)
	w := f.do(t, http.MethodPost, "/users/me/wallet", map[string]any{"wallet_address": bobWallet}, bobToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	f.journal.Record(ctx, domain.ActivityEvent{
		Kind:       domain.ActivityListingMined,
		Subject:    bobWallet,
		PropertyID: 9,
		OccurredAt: time.Now().Add(time.Minute),
	})

	// the subject query is ignored
	w = f.do(t, http.MethodGet, "/activity?subject=bob", nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out []api.ActivityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out)
	for _, ev := range out {
		assert.Equal(t, "alice", ev.Subject)
	}
	assert.NotContains(t, w.Body.String(), "bob")
	assert.NotContains(t, w.Body.String(), bobWallet)

	// bob sees his account events and the chain events of his wallet, newest first
	w = f.do(t, http.MethodGet, "/activity", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 3)
	assert.Equal(t, domain.ActivityListingMined, out[0].Kind)
	assert.Equal(t, uint64(9), out[0].PropertyID)
	assert.NotContains(t, w.Body.String(), "alice")

	w = f.do(t, http.MethodGet, "/activity?limit=1", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, domain.ActivityListingMined, out[0].Kind)
}

func TestAmountJSON(t *testing.T) {
	data, err := json.Marshal(api.Amount{Decimal: decimal.RequireFromString("1.5")})
	require.NoError(t, err)
	assert.Equal(t, "1.5", string(data))

	// plain decimals keep the library encoding
	data, err = json.Marshal(decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	assert.Equal(t, `"1.5"`, string(data))
}

func TestCORS(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/properties/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "Authorization", w.Header().Get("Access-Control-Allow-Headers"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
