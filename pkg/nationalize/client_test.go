package nationalize

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://api.nationalize.io/"

func TestPredictSuccess(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testBaseURL,
		httpmock.NewStringResponder(200, `{
			"count": 100000,
			"name": "John",
			"country": [
				{"country_id": "US", "probability": 0.082},
				{"country_id": "GB", "probability": 0.056}
			]
		}`))

	client := New(testBaseURL)
	predictions, err := client.Predict(context.Background(), "John")
	require.NoError(t, err)

	require.Len(t, predictions, 2)
	assert.Equal(t, "US", predictions[0].CountryID)
	require.NotNil(t, predictions[0].Probability)
	assert.Equal(t, 0.082, *predictions[0].Probability)
}

func TestPredictEmptyResult(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testBaseURL,
		httpmock.NewStringResponder(200, `{"count": 0, "name": "Zzqx", "country": []}`))

	client := New(testBaseURL)
	predictions, err := client.Predict(context.Background(), "Zzqx")
	require.NoError(t, err)
	assert.Nil(t, predictions)
}

func TestPredictMissingProbability(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testBaseURL,
		httpmock.NewStringResponder(200, `{
			"name": "John",
			"country": [{"country_id": "US"}]
		}`))

	client := New(testBaseURL)
	predictions, err := client.Predict(context.Background(), "John")
	require.NoError(t, err)

	require.Len(t, predictions, 1)
	assert.Nil(t, predictions[0].Probability)
}

func TestPredictRateLimited(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testBaseURL,
		httpmock.NewStringResponder(http.StatusTooManyRequests, `{"error": "Request limit reached"}`))

	client := New(testBaseURL)
	_, err := client.Predict(context.Background(), "John")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestPredictServerError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testBaseURL,
		httpmock.NewStringResponder(500, "upstream broke"))

	client := New(testBaseURL)
	_, err := client.Predict(context.Background(), "John")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPredictTransportError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testBaseURL,
		httpmock.NewErrorResponder(assert.AnError))

	client := New(testBaseURL)
	_, err := client.Predict(context.Background(), "John")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPredictMalformedBody(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testBaseURL,
		httpmock.NewStringResponder(200, `not json`))

	client := New(testBaseURL)
	_, err := client.Predict(context.Background(), "John")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPredictEscapesName(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testBaseURL,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Mary Jane", req.URL.Query().Get("name"))
			return httpmock.NewStringResponse(200, `{"country": []}`), nil
		})

	client := New(testBaseURL)
	_, err := client.Predict(context.Background(), "Mary Jane")
	require.NoError(t, err)
}
