package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cortecaja/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeInput struct {
	Type       string           `json:"type" binding:"required,oneof=daily-sales credit-collection"`
	Notes      string           `json:"notes" binding:"max=5"`
	TotalCash  decimal.Decimal  `json:"total_cash" binding:"money"`
	TotalSales *decimal.Decimal `json:"total_sales" binding:"omitempty,money"`
	LineItems  []struct {
		ReferenceID string          `json:"reference_id" binding:"required"`
		Amount      decimal.Decimal `json:"amount" binding:"money"`
	} `json:"line_items" binding:"dive"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/api/v1/settlements", func(c *gin.Context) {
		var req closeInput
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/settlements", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-val")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleValidationError_FieldDetails(t *testing.T) {
	w := postJSON(newValidationRouter(), `{"type":"weekly","notes":"far too long","line_items":[{}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "Request validation failed", resp.Error.Message)
	assert.Equal(t, "req-val", resp.Error.RequestID)
	assert.Equal(t, []dto.ValidationDetail{
		{Field: "type", Message: "Must be one of: daily-sales credit-collection"},
		{Field: "notes", Message: "Must be at most 5 characters"},
		{Field: "line_items[0].reference_id", Message: "This field is required"},
	}, resp.Error.Details)
}

func TestHandleValidationError_MalformedBody(t *testing.T) {
	w := postJSON(newValidationRouter(), `{"type":`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Malformed request body", resp.Error.Message)
	assert.Empty(t, resp.Error.Details)
}

func TestHandleValidationError_ValidInput(t *testing.T) {
	w := postJSON(newValidationRouter(), `{"type":"daily-sales","line_items":[{"reference_id":"o-1"}]}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHandleValidationError_Money(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{"omitted", `{"type":"daily-sales"}`, true},
		{"four decimals", `{"type":"daily-sales","total_cash":"1250.5025"}`, true},
		{"trailing zeros", `{"type":"daily-sales","total_cash":"10.500000"}`, true},
		{"negative", `{"type":"daily-sales","total_cash":"-1"}`, false},
		{"five decimals", `{"type":"daily-sales","total_cash":"0.00001"}`, false},
		{"optional total absent", `{"type":"daily-sales","total_sales":null}`, true},
		{"optional total zero", `{"type":"daily-sales","total_sales":"0"}`, true},
		{"optional total negative", `{"type":"daily-sales","total_sales":"-0.5"}`, false},
		{"negative line item", `{"type":"daily-sales","line_items":[{"reference_id":"o-1","amount":"-3"}]}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(newValidationRouter(), tt.body)
			if tt.valid {
				assert.Equal(t, http.StatusCreated, w.Code)
				return
			}
			require.Equal(t, http.StatusBadRequest, w.Code)
			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Len(t, resp.Error.Details, 1)
			assert.Equal(t, "Must be a non-negative amount with at most 4 decimal places", resp.Error.Details[0].Message)
		})
	}
}

func TestSetupValidator_Idempotent(t *testing.T) {
	SetupValidator()
	SetupValidator()
	w := postJSON(newValidationRouter(), `{"type":"daily-sales","total_cash":"-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
