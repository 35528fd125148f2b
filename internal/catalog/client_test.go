package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFetchPlans 正常拉取
func TestFetchPlans(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/telecom_plans", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"plan_1","name":"Basic","price":"29.99","carrier_name":"AT&T"}],"count":1}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, time.Second)
	plans, err := client.FetchPlans(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "plan_1", plans[0].ID)
	assert.Equal(t, 29.99, float64(plans[0].Price))
}

// TestFetchPlansCarrierFilter 过滤参数透传
func TestFetchPlansCarrierFilter(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "verizon", r.URL.Query().Get("carrier"))
		_, _ = w.Write([]byte(`{"success":true,"data":[],"count":0}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, time.Second)
	plans, err := client.FetchPlans(context.Background(), "verizon")
	require.NoError(t, err)
	assert.Empty(t, plans)
}

// TestFetchPlansLogicalFailure HTTP 200 + success:false 视为错误
func TestFetchPlansLogicalFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"database unavailable"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, time.Second)
	_, err := client.FetchPlans(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database unavailable")
}

// TestFetchPlansHTTPError 非200状态报错
func TestFetchPlansHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, time.Second)
	_, err := client.FetchPlans(context.Background(), "")
	assert.Error(t, err)
}
