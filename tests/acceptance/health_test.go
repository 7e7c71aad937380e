package acceptance

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

func (s *Suite) TestHealthEndpoint() {
	resp, err := http.Get(s.BaseURL + "/health")
	s.Require().NoError(err, "Failed to make request")
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode, "Expected status 200")

	var body struct {
		Status   string            `json:"status"`
		Services map[string]string `json:"services"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal("pass", body.Status)
	s.Equal("pass", body.Services["postgres"])
	s.Equal("pass", body.Services["redis"])
}

func (s *Suite) TestMetricsEndpoint() {
	s.register("metrics@example.com")

	resp, err := http.Get(s.BaseURL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.True(strings.Contains(string(body), "storefront_auth_events"), "auth counter exported")
}
