package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockAnalyzer(t *testing.T) {
	result, err := Mock{}.Analyze(context.Background(), "오늘은 운동을 했다")
	require.NoError(t, err)
	assert.True(t, result.Mock)
	assert.Equal(t, "neutral", result.Sentiment.Label)
	assert.Equal(t, 0.5, result.Sentiment.Score)
	assert.Empty(t, result.Entities)
}

func TestNewFallsBackToMock(t *testing.T) {
	assert.IsType(t, Mock{}, New(Config{Driver: "mock"}))
	assert.IsType(t, Mock{}, New(Config{Driver: "remote"}))
	assert.IsType(t, &Remote{}, New(Config{Driver: "remote", URLs: []string{"http://a"}, APIKeys: []string{"k"}}))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b "))
	assert.Empty(t, SplitList(""))
}

func analyzeServer(t *testing.T, hits *int32, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "/v1/analyze", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req analyzeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"sentiment":{"label":"positive","score":0.8},"entities":[{"text":"서울","type":"place"}]}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteAnalyze(t *testing.T) {
	var hits int32
	srv := analyzeServer(t, &hits, http.StatusOK)

	remote, err := NewRemote(Config{URLs: []string{srv.URL}, APIKeys: []string{"key"}, Timeout: time.Second})
	require.NoError(t, err)

	result, err := remote.Analyze(context.Background(), "서울 여행")
	require.NoError(t, err)
	assert.False(t, result.Mock)
	assert.Equal(t, Sentiment{Label: "positive", Score: 0.8}, result.Sentiment)
	assert.Equal(t, []Entity{{Text: "서울", Type: "place"}}, result.Entities)
	assert.EqualValues(t, 1, hits)
}

func TestRemoteFailsOverToNextInstance(t *testing.T) {
	var badHits, goodHits int32
	bad := analyzeServer(t, &badHits, http.StatusInternalServerError)
	good := analyzeServer(t, &goodHits, http.StatusOK)

	remote, err := NewRemote(Config{
		URLs:       []string{bad.URL, good.URL},
		APIKeys:    []string{"key", "key"},
		Timeout:    time.Second,
		MaxRetries: 2,
	})
	require.NoError(t, err)

	result, err := remote.Analyze(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "positive", result.Sentiment.Label)
	assert.EqualValues(t, 1, badHits)
	assert.EqualValues(t, 1, goodHits)
	assert.NoError(t, remote.HealthCheck(context.Background()))
}

func TestRemoteMarksInstanceUnhealthy(t *testing.T) {
	var hits int32
	bad := analyzeServer(t, &hits, http.StatusBadGateway)

	remote, err := NewRemote(Config{URLs: []string{bad.URL}, APIKeys: []string{"key"}, Timeout: time.Second, MaxRetries: 3})
	require.NoError(t, err)

	_, err = remote.Analyze(context.Background(), "text")
	assert.Error(t, err)
	assert.EqualValues(t, 3, hits)
	assert.Equal(t, 0, remote.GetHealthyInstanceCount())
	assert.Error(t, remote.HealthCheck(context.Background()))
}

func TestNewRemoteRejectsMismatchedKeys(t *testing.T) {
	_, err := NewRemote(Config{URLs: []string{"http://a", "http://b"}, APIKeys: []string{"k"}})
	assert.Error(t, err)
}

func TestRequestCounter(t *testing.T) {
	rc := NewRequestCounter()
	rc.AddRequest()
	rc.AddRequest()
	assert.Equal(t, 2, rc.GetRecentCount(time.Minute))
}
