package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserID(t *testing.T) {
	cases := []struct {
		body string
		want uint64
	}{
		{`{"user_id":42}`, 42},
		{`{"user_id":"42"}`, 42},
		{`{"code":200,"data":{"user_id":18446744073709551615}}`, 18446744073709551615},
		{`{"data":{"user_id":" 7 "}}`, 7},
	}
	for _, c := range cases {
		got, err := parseUserID([]byte(c.body))
		require.NoError(t, err, c.body)
		assert.Equal(t, c.want, got, c.body)
	}

	for _, body := range []string{`{}`, `{"user_id":0}`, `{"user_id":-1}`, `{"user_id":1.5}`, `{"data":null}`, `not json`} {
		_, err := parseUserID([]byte(body))
		assert.Error(t, err, body)
	}
}

func TestIdentityClientResolve(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
		_, _ = w.Write([]byte(`{"user_id":5}`))
	}))
	defer srv.Close()

	client := NewIdentityClient(srv.URL, time.Second)

	userID, err := client.Resolve(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), userID)

	status.Store(http.StatusUnauthorized)
	_, err = client.Resolve(context.Background(), "t")
	assert.ErrorIs(t, err, ErrRejected)

	status.Store(http.StatusBadGateway)
	_, err = client.Resolve(context.Background(), "t")
	assert.ErrorIs(t, err, ErrUnavailable)

	srv.Close()
	_, err = client.Resolve(context.Background(), "t")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestForwarderDoesNotFollowRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	resp, err := NewForwarder(time.Second).Forward(context.Background(), &Request{
		Method: http.MethodGet,
		URL:    srv.URL + "/old",
		Header: http.Header{},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, "/new", resp.Header.Get("Location"))
}
