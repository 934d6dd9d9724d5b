package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Login_SetsToken(t *testing.T) {
	var gotAuth string

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "employee", req["user_type"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"user": map[string]interface{}{
				"id": 0, "username": "nhanvien01", "display_name": "nhanvien01", "role": "employee",
			},
			"access_token":  "token-abc",
			"refresh_token": "token-def",
		})
	})
	mux.HandleFunc("/businesses", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{"businesses": []Business{}, "total_count": 0})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewClient(server.URL)
	resp, err := c.Login(context.Background(), "employee", "nhanvien01", "nhanvien123")
	require.NoError(t, err)
	assert.Equal(t, "token-abc", resp.AccessToken)

	// token được tự gắn vào request kế tiếp
	_, err = c.ListBusinesses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-abc", gotAuth)
}

func TestClient_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/businesses", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "BUSINESS_TAX_ID_EXISTS",
			"message": "Mã số thuế đã tồn tại",
		})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.CreateBusiness(context.Background(), CreateBusinessRequest{
		Business: Business{Name: "Công ty TNHH An Phát", TaxID: "0312345678"},
	})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "BUSINESS_TAX_ID_EXISTS", apiErr.Code)
	assert.Equal(t, "Mã số thuế đã tồn tại", apiErr.Message)
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c := NewClient(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListBusinesses(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
