package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// Client gọi HTTP API của HOSODOC backend.
// Không đặt timeout mặc định trên http.Client: các thao tác nhận
// context.Context và caller tự quyết định deadline.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// APIError lỗi trả về từ server (status khác 2xx)
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// NewClient tạo client trỏ tới baseURL (ví dụ "https://api.hosodoc.vn/api/v1")
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// SetToken đặt bearer token cho các request tiếp theo
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login xác thực và lưu access token vào client
func (c *Client) Login(ctx context.Context, userType, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.doRequest(ctx, http.MethodPost, "/auth/login", map[string]string{
		"user_type": userType,
		"username":  username,
		"password":  password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.AccessToken
	return &resp, nil
}

// ListBusinesses tải toàn bộ doanh nghiệp (không phân trang)
func (c *Client) ListBusinesses(ctx context.Context) ([]Business, error) {
	var resp businessListResponse
	if err := c.doRequest(ctx, http.MethodGet, "/businesses", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Businesses, nil
}

// ListTransactions tải toàn bộ giao dịch, gồm cả giao dịch đã ẩn
// để snapshot phía client đầy đủ
func (c *Client) ListTransactions(ctx context.Context) ([]DocumentTransaction, error) {
	var resp transactionListResponse
	if err := c.doRequest(ctx, http.MethodGet, "/transactions?include_hidden=true", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

// ListBusinessTransactions tải giao dịch của một doanh nghiệp
func (c *Client) ListBusinessTransactions(ctx context.Context, businessID uint) ([]DocumentTransaction, error) {
	var resp transactionListResponse
	path := "/businesses/" + strconv.FormatUint(uint64(businessID), 10) + "/transactions"
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

// CreateBusiness tạo doanh nghiệp, kèm tài khoản ban đầu nếu có
func (c *Client) CreateBusiness(ctx context.Context, req CreateBusinessRequest) (*Business, error) {
	var resp businessEnvelope
	if err := c.doRequest(ctx, http.MethodPost, "/businesses", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Business, nil
}

// UpdateBusiness cập nhật doanh nghiệp theo id
func (c *Client) UpdateBusiness(ctx context.Context, id uint, business Business) (*Business, error) {
	var resp businessEnvelope
	path := "/businesses/" + strconv.FormatUint(uint64(id), 10)
	if err := c.doRequest(ctx, http.MethodPut, path, business, &resp); err != nil {
		return nil, err
	}
	return &resp.Business, nil
}

// DeleteBusiness xóa doanh nghiệp, yêu cầu mật khẩu xác nhận
func (c *Client) DeleteBusiness(ctx context.Context, id uint, password string) error {
	path := "/businesses/" + strconv.FormatUint(uint64(id), 10)
	return c.doRequest(ctx, http.MethodDelete, path, map[string]string{"password": password}, nil)
}

// CreateTransaction tạo giao dịch bàn giao hồ sơ
func (c *Client) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*DocumentTransaction, error) {
	var resp transactionEnvelope
	if err := c.doRequest(ctx, http.MethodPost, "/transactions", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Transaction, nil
}

// UpdateTransaction cập nhật toàn bộ giao dịch theo id
func (c *Client) UpdateTransaction(ctx context.Context, id uint, req CreateTransactionRequest) (*DocumentTransaction, error) {
	var resp transactionEnvelope
	path := "/transactions/" + strconv.FormatUint(uint64(id), 10)
	if err := c.doRequest(ctx, http.MethodPut, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Transaction, nil
}

// UpdateDocumentNumber đổi số biên bản
func (c *Client) UpdateDocumentNumber(ctx context.Context, id uint, documentNumber string) error {
	path := "/transactions/" + strconv.FormatUint(uint64(id), 10) + "/number"
	return c.doRequest(ctx, http.MethodPut, path, map[string]string{"document_number": documentNumber}, nil)
}

// AttachPDF gắn file PDF đã upload vào giao dịch
func (c *Client) AttachPDF(ctx context.Context, id uint, filePath, fileName string) error {
	path := "/transactions/" + strconv.FormatUint(uint64(id), 10) + "/pdf"
	return c.doRequest(ctx, http.MethodPut, path, map[string]string{
		"file_path": filePath,
		"file_name": fileName,
	}, nil)
}

// DeleteTransaction xóa giao dịch, yêu cầu mật khẩu xác nhận
func (c *Client) DeleteTransaction(ctx context.Context, id uint, password string) error {
	path := "/transactions/" + strconv.FormatUint(uint64(id), 10)
	return c.doRequest(ctx, http.MethodDelete, path, map[string]string{"password": password}, nil)
}

// doRequest gửi request JSON và giải mã phản hồi vào out (nếu khác nil)
func (c *Client) doRequest(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		reqBody, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil {
			apiErr.Message = string(respBody)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
