package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"pinecone-be/internal/cart"
	"pinecone-be/internal/order"
	"pinecone-be/internal/product"
	"pinecone-be/internal/profile"
	"pinecone-be/internal/review"
	"pinecone-be/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCartRepo struct {
	mu    sync.Mutex
	items map[string][]cart.Item
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: make(map[string][]cart.Item)}
}

func (f *fakeCartRepo) Load(ctx context.Context, key string) ([]cart.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[key], nil
}

func (f *fakeCartRepo) Save(ctx context.Context, key string, items []cart.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[key] = items
	return nil
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, email, password string) (string, user.User, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(user.User), args.Error(2)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (string, user.User, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(user.User), args.Error(2)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetProducts(ctx context.Context, opts product.ListOptions) ([]*product.Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductService) GetProduct(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) GetCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) GetReviews(ctx context.Context, productID uuid.UUID) ([]*review.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*review.Review), args.Error(1)
}

func (m *MockReviewService) GetSummary(ctx context.Context, productID uuid.UUID) (*review.Summary, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Summary), args.Error(1)
}

func (m *MockReviewService) AddReview(ctx context.Context, productID uuid.UUID, profileID *uuid.UUID, userName string, rating int, comment string) (*review.Review, error) {
	args := m.Called(ctx, productID, profileID, userName, rating, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Submit(ctx context.Context, cartKey string, identity profile.Identity, delivery order.DeliveryInfo) (uuid.UUID, error) {
	args := m.Called(ctx, cartKey, identity, delivery)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockOrderService) OrdersByProfile(ctx context.Context, profileID uuid.UUID, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, profileID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status order.Status) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, identity profile.Identity) (uuid.UUID, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockResolver) GetByTelegramID(ctx context.Context, telegramID int64) (*profile.Profile, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

type testEnv struct {
	router   *gin.Engine
	users    *MockUserService
	products *MockProductService
	reviews  *MockReviewService
	orders   *MockOrderService
	resolver *MockResolver
	carts    *cart.Store
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:    new(MockUserService),
		products: new(MockProductService),
		reviews:  new(MockReviewService),
		orders:   new(MockOrderService),
		resolver: new(MockResolver),
		carts:    cart.NewStore(newFakeCartRepo()),
	}
	h := NewHandler(env.users, env.products, env.reviews, env.carts, env.orders, env.resolver, nil, nil, "test-token")
	env.router = NewRouter(h)
	return env
}

func doJSON(router *gin.Engine, method, path string, body any, cookie string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	// Fresh rate-limit bucket per request; the limiter itself is covered in
	// the middleware package.
	req.Header.Set("X-Device-ID", uuid.NewString())
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "cart_session", Value: cookie})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	env := newTestEnv()

	w := doJSON(env.router, "GET", "/health", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestListProducts(t *testing.T) {
	env := newTestEnv()

	env.products.On("GetProducts", mock.Anything, product.ListOptions{}).
		Return([]*product.Product{
			{ID: uuid.New(), Name: "Еловая шишка", Price: decimal.NewFromInt(500), Stock: 10},
		}, nil).Once()

	w := doJSON(env.router, "GET", "/api/products", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Еловая шишка")
}

func TestListCategories(t *testing.T) {
	env := newTestEnv()

	env.products.On("GetCategories", mock.Anything).
		Return([]string{"еловые", "кедровые"}, nil).Once()

	w := doJSON(env.router, "GET", "/api/categories", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "кедровые")
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv()
	key := uuid.NewString()
	productID := uuid.New()

	env.products.On("GetProduct", mock.Anything, productID).
		Return(&product.Product{
			ID:    productID,
			Name:  "Кедровая шишка",
			Price: decimal.NewFromInt(800),
		}, nil)

	t.Run("AddItem", func(t *testing.T) {
		w := doJSON(env.router, "POST", "/api/cart/items", gin.H{"product_id": productID}, key)

		require.Equal(t, http.StatusOK, w.Code)
		var resp cartResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 1, resp.TotalItems)
		assert.Equal(t, "800", resp.TotalAmount)
	})

	t.Run("AddSameItemIncrements", func(t *testing.T) {
		w := doJSON(env.router, "POST", "/api/cart/items", gin.H{"product_id": productID}, key)

		var resp cartResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 2, resp.TotalItems)
	})

	t.Run("UpdateQuantity", func(t *testing.T) {
		w := doJSON(env.router, "PATCH", "/api/cart/items/"+productID.String(), gin.H{"quantity": 5}, key)

		require.Equal(t, http.StatusOK, w.Code)
		var resp cartResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 5, resp.TotalItems)
		assert.Equal(t, "4000", resp.TotalAmount)
	})

	t.Run("UpdateQuantityBelowOne", func(t *testing.T) {
		w := doJSON(env.router, "PATCH", "/api/cart/items/"+productID.String(), gin.H{"quantity": -1}, key)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UpdateAbsentItem", func(t *testing.T) {
		w := doJSON(env.router, "PATCH", "/api/cart/items/"+uuid.NewString(), gin.H{"quantity": 2}, key)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("RemoveItem", func(t *testing.T) {
		w := doJSON(env.router, "DELETE", "/api/cart/items/"+productID.String(), nil, key)

		require.Equal(t, http.StatusOK, w.Code)
		var resp cartResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Items)
	})

	t.Run("CookieIssuedWhenAbsent", func(t *testing.T) {
		w := doJSON(env.router, "GET", "/api/cart", nil, "")

		require.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, "cart_session", cookies[0].Name)
	})
}

func TestCheckout(t *testing.T) {
	validBody := gin.H{"address": "Moscow, Pine st. 1", "contact_phone": "+7 999 123-45-67"}
	key := uuid.NewString()

	t.Run("Success", func(t *testing.T) {
		env := newTestEnv()
		orderID := uuid.New()

		env.orders.On("Submit", mock.Anything, key, mock.MatchedBy(func(id profile.Identity) bool {
			return id.Platform == profile.PlatformSession
		}), order.DeliveryInfo{Address: "Moscow, Pine st. 1", ContactPhone: "+7 999 123-45-67"}).
			Return(orderID, nil).Once()

		w := doJSON(env.router, "POST", "/api/checkout", validBody, key)

		require.Equal(t, http.StatusCreated, w.Code)
		var resp checkoutResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, orderID.String(), resp.OrderID)
		assert.Len(t, resp.ShortOrderID, 8)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		env := newTestEnv()
		env.orders.On("Submit", mock.Anything, key, mock.Anything, mock.Anything).
			Return(uuid.Nil, order.ErrEmptyCart).Once()

		w := doJSON(env.router, "POST", "/api/checkout", validBody, key)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		env := newTestEnv()
		env.orders.On("Submit", mock.Anything, key, mock.Anything, mock.Anything).
			Return(uuid.Nil, profile.ErrUnauthenticated).Once()

		w := doJSON(env.router, "POST", "/api/checkout", validBody, key)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("SubmitInFlight", func(t *testing.T) {
		env := newTestEnv()
		env.orders.On("Submit", mock.Anything, key, mock.Anything, mock.Anything).
			Return(uuid.Nil, order.ErrSubmitInFlight).Once()

		w := doJSON(env.router, "POST", "/api/checkout", validBody, key)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("PersistFailure", func(t *testing.T) {
		env := newTestEnv()
		env.orders.On("Submit", mock.Anything, key, mock.Anything, mock.Anything).
			Return(uuid.Nil, order.ErrOrderPersistFailed).Once()

		w := doJSON(env.router, "POST", "/api/checkout", validBody, key)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "failed to submit order")
	})

	t.Run("BadInitData", func(t *testing.T) {
		env := newTestEnv()
		body := gin.H{
			"address":       "Moscow",
			"contact_phone": "+7 999",
			"init_data":     "hash=deadbeef&user=%7B%22id%22%3A1%7D",
		}

		w := doJSON(env.router, "POST", "/api/checkout", body, key)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env.orders.AssertNotCalled(t, "Submit")
	})
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("Register", mock.Anything, "nikita@example.com", "password123").
			Return("token-abc", user.User{ID: 1, Email: "nikita@example.com"}, nil).Once()

		w := doJSON(env.router, "POST", "/api/auth/register", gin.H{
			"email":    "nikita@example.com",
			"password": "password123",
		}, "")

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "token-abc")
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("Register", mock.Anything, "nikita@example.com", "password123").
			Return("", user.User{}, user.ErrEmailExists).Once()

		w := doJSON(env.router, "POST", "/api/auth/register", gin.H{
			"email":    "nikita@example.com",
			"password": "password123",
		}, "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		env := newTestEnv()

		w := doJSON(env.router, "POST", "/api/auth/register", gin.H{
			"email":    "nikita@example.com",
			"password": "short",
		}, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env.users.AssertNotCalled(t, "Register")
	})
}

func TestListOrders(t *testing.T) {
	t.Run("Unauthenticated", func(t *testing.T) {
		env := newTestEnv()
		env.resolver.On("Resolve", mock.Anything, profile.Identity{Platform: profile.PlatformSession}).
			Return(uuid.Nil, profile.ErrUnauthenticated).Once()

		w := doJSON(env.router, "GET", "/api/orders", nil, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Success", func(t *testing.T) {
		env := newTestEnv()
		profileID := uuid.New()
		env.resolver.On("Resolve", mock.Anything, mock.Anything).Return(profileID, nil).Once()
		env.orders.On("OrdersByProfile", mock.Anything, profileID, 20).
			Return([]*order.Order{
				{ID: uuid.New(), ProfileID: profileID, TotalAmount: decimal.NewFromInt(1300), Status: order.StatusPending},
			}, nil).Once()

		w := doJSON(env.router, "GET", "/api/orders", nil, "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"orders"`)
	})
}
