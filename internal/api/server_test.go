package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campuslink/campuslink-api/internal/config"
	"github.com/campuslink/campuslink-api/internal/repository/dao"
)

const testUserAgent = "campuslink-test/1.0"

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%v?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dao.InitTables(db))

	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:        "test",
			BaseURL:            "localhost",
			Port:               "8080",
			JWTSigningKey:      "test-signing-key",
			AllowedCORSDomains: []string{"*"},
		},
		Gin: &config.GinConfig{
			Mode: gin.TestMode,
		},
	}

	return NewServer(conf, db), db
}

func doRequest(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", testUserAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func signupAndLogin(t *testing.T, s *Server, email string, collegeID uint) (uint, string) {
	t.Helper()

	rec := doRequest(t, s, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email":      email,
		"password":   "passw0rd123",
		"full_name":  "Test User",
		"college_id": collegeID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID uint `json:"id"`
	}
	decodeBody(t, rec, &created)

	rec = doRequest(t, s, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "passw0rd123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &login)
	require.NotEmpty(t, login.Token)

	return created.ID, login.Token
}

func TestServer_SignupLoginBalance(t *testing.T) {
	s, db := newTestServer(t)

	college := dao.College{Name: "Engineering", Slug: "eng"}
	require.NoError(t, db.Create(&college).Error)

	_, token := signupAndLogin(t, s, "alice@example.com", college.ID)

	// The welcome bonus shows up in the balance right after signup.
	rec := doRequest(t, s, http.MethodGet, "/api/v1/points/balance", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var balance struct {
		CurrentBalance   int `json:"current_balance"`
		AvailableBalance int `json:"available_balance"`
	}
	decodeBody(t, rec, &balance)
	require.Equal(t, 50, balance.CurrentBalance)
	require.Equal(t, 50, balance.AvailableBalance)
}

func TestServer_Unauthorized(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/points/balance", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/points/balance", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_SignupValidation(t *testing.T) {
	s, db := newTestServer(t)

	college := dao.College{Name: "Engineering", Slug: "eng"}
	require.NoError(t, db.Create(&college).Error)

	// Password without a digit fails validation.
	rec := doRequest(t, s, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email":      "bob@example.com",
		"password":   "onlyletters",
		"full_name":  "Bob",
		"college_id": college.ID,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown college is rejected.
	rec = doRequest(t, s, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email":      "bob@example.com",
		"password":   "passw0rd123",
		"full_name":  "Bob",
		"college_id": 999,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_IgniteFlow(t *testing.T) {
	s, db := newTestServer(t)

	college := dao.College{Name: "Engineering", Slug: "eng"}
	require.NoError(t, db.Create(&college).Error)

	_, authorToken := signupAndLogin(t, s, "author@example.com", college.ID)
	_, giverToken := signupAndLogin(t, s, "giver@example.com", college.ID)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/posts", authorToken, gin.H{
		"title":   "Robotics demo",
		"content": "shipped the line follower",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var post struct {
		ID uint `json:"id"`
	}
	decodeBody(t, rec, &post)

	// Authors cannot ignite their own posts.
	rec = doRequest(t, s, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/ignite", post.ID), authorToken, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/ignite", post.ID), giverToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Action      string `json:"action"`
		IgniteCount int    `json:"ignite_count"`
	}
	decodeBody(t, rec, &result)
	require.Equal(t, "ignited", result.Action)
	require.Equal(t, 1, result.IgniteCount)

	// The point moved from giver to author.
	rec = doRequest(t, s, http.MethodGet, "/api/v1/points/balance", giverToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balance struct {
		CurrentBalance int `json:"current_balance"`
	}
	decodeBody(t, rec, &balance)
	require.Equal(t, 49, balance.CurrentBalance)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/points/balance", authorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &balance)
	require.Equal(t, 51, balance.CurrentBalance)
}

func TestServer_StoreFlow(t *testing.T) {
	s, db := newTestServer(t)

	college := dao.College{Name: "Engineering", Slug: "eng"}
	require.NoError(t, db.Create(&college).Error)

	_, token := signupAndLogin(t, s, "alice@example.com", college.ID)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/products", token, gin.H{
		"name":                  "Campus Mug",
		"category":              "merch",
		"points_required":       20,
		"stock_quantity":        10,
		"max_quantity_per_user": 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var product struct {
		ID uint `json:"id"`
	}
	decodeBody(t, rec, &product)

	rec = doRequest(t, s, http.MethodPost, "/api/v1/cart/items", token, gin.H{
		"product_id": product.ID,
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/v1/orders/checkout", token, gin.H{})
	require.Equal(t, http.StatusCreated, rec.Code)

	var order struct {
		ID          uint   `json:"id"`
		OrderNumber string `json:"order_number"`
		Status      string `json:"status"`
		TotalPoints int    `json:"total_points"`
	}
	decodeBody(t, rec, &order)
	require.Equal(t, "PENDING", order.Status)
	require.Equal(t, 40, order.TotalPoints)
	require.NotEmpty(t, order.OrderNumber)

	// 50 welcome bonus minus the 40 point order, all frozen in the order.
	rec = doRequest(t, s, http.MethodGet, "/api/v1/points/balance", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balance struct {
		CurrentBalance      int `json:"current_balance"`
		PendingOrdersPoints int `json:"pending_orders_points"`
	}
	decodeBody(t, rec, &balance)
	require.Equal(t, 10, balance.CurrentBalance)
	require.Equal(t, 40, balance.PendingOrdersPoints)

	rec = doRequest(t, s, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", order.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/points/balance", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &balance)
	require.Equal(t, 50, balance.CurrentBalance)
	require.Equal(t, 0, balance.PendingOrdersPoints)
}

func TestServer_Healthcheck(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string `json:"status"`
	}
	decodeBody(t, rec, &body)
	require.Equal(t, "ok", body.Status)
}
