package node

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_LedgerInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{"chain_id":2,"ledger_version":"123","block_height":"45","node_role":"full_node"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	info, err := client.LedgerInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint8(2), info.ChainID)
	assert.Equal(t, "123", info.LedgerVersion)
}

func TestClient_SendsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"chain_id":2}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithAPIKey("test-key"))
	_, err := client.LedgerInfo(context.Background())
	require.NoError(t, err)
}

func TestClient_Account(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/0xabc", r.URL.Path)
		w.Write([]byte(`{"sequence_number":"7","authentication_key":"0xabc"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	acct, err := client.Account(context.Background(), "0xabc")
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, "7", acct.SequenceNumber)
}

func TestClient_Account_NotFoundIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"account not found","error_code":"account_not_found"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	acct, err := client.Account(context.Background(), "0xmissing")
	require.NoError(t, err)
	assert.Nil(t, acct)
}

func TestClient_AccountBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/0xabc/resource/"+coinStoreResource, r.URL.Path)
		w.Write([]byte(`{"type":"0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>","data":{"coin":{"value":"100000000"}}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	balance, err := client.AccountBalance(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, uint64(100000000), balance)
}

func TestClient_AccountBalance_NoCoinStoreIsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"resource not found","error_code":"resource_not_found"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	balance, err := client.AccountBalance(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestClient_AccountModule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/0xabc/module/cora_insurance", r.URL.Path)
		w.Write([]byte(`{"bytecode":"0xa11ce","abi":{"address":"0xabc","name":"cora_insurance"}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	module, err := client.AccountModule(context.Background(), "0xabc", "cora_insurance")
	require.NoError(t, err)
	require.NotNil(t, module)
	assert.Equal(t, "cora_insurance", module.ABI.Name)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"per anonymous IP rate limit exceeded","error_code":"rate_limited"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.LedgerInfo(context.Background())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "rate_limited")
}

func TestClient_APIError_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.LedgerInfo(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestNewClient_Options(t *testing.T) {
	client := NewClient(WithTimeout(5 * time.Second))
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
