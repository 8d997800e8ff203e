package executionapi_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/relayer-eth-lightclient/pkg/executionapi"
)

func TestLatestBlockNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":"0x2a"}`)
	}))
	defer srv.Close()

	c, err := executionapi.New(srv.URL, nil)
	require.NoError(t, err)
	defer c.Close()

	n, err := c.LatestBlockNumber(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(42), n)
}

func TestGetProofReturnsOnFirstSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":{"accountProof":["0xaa"],"storageHash":"0xbb","storageProof":[]}}`)
	}))
	defer srv.Close()

	c, err := executionapi.New(srv.URL, nil)
	require.NoError(t, err)
	defer c.Close()

	proof, err := c.GetProof(context.Background(), "0xcontract", nil, 100)
	require.NoError(t, err)
	require.Equal(t, []string{"0xaa"}, proof.AccountProof)
	require.Equal(t, "0xbb", proof.StorageHash)
}

func TestGetProofRetriesThenFails(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"boom"}}`)
	}))
	defer srv.Close()

	c, err := executionapi.New(srv.URL, nil, executionapi.WithRetries(2, time.Millisecond))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.GetProof(context.Background(), "0xcontract", nil, 100)
	require.Error(t, err)
	require.Equal(t, 2, attempts)
}

func TestGetProofRespectsContextCancellationBetweenRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"boom"}}`)
	}))
	defer srv.Close()

	c, err := executionapi.New(srv.URL, nil, executionapi.WithRetries(5, time.Second))
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err = c.GetProof(ctx, "0xcontract", nil, 100)
	require.ErrorIs(t, err, context.Canceled)
}
