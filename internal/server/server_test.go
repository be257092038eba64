package server

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/brizzai/oauth-relay/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func testConfig(storage config.TokenStorage) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ShutdownTimeout: time.Second,
		},
		Logging: config.LoggingConfig{Level: "error", Format: "json", DisableStacktrace: true},
		Provider: config.ProviderConfig{
			BaseURL:      "http://127.0.0.1:1",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURI:  "http://localhost:3000/callback",
			AccessToken:  "static-token",
			Scopes:       config.DefaultScopes,
			Timeout:      time.Second,
		},
		Relay: config.RelayConfig{
			TokenStorage:         storage,
			CodeParamSource:      config.CodeParamSourceQuery,
			TokenRequestEncoding: config.TokenRequestEncodingForm,
		},
	}
}

func TestOptions_Validate(t *testing.T) {
	for _, storage := range []config.TokenStorage{config.TokenStorageMemory, config.TokenStorageStatic} {
		t.Run(string(storage), func(t *testing.T) {
			assert.NoError(t, fx.ValidateApp(Options(testConfig(storage))))
		})
	}
}

func TestServer_Lifecycle(t *testing.T) {
	var srv *Server
	app := fxtest.New(t, Options(testConfig(config.TokenStorageMemory)), fx.Populate(&srv))
	app.RequireStart()

	require.NotNil(t, srv)
	base := "http://" + srv.Addr()

	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(base + "/callback")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No code provided", string(body))

	// the provider address is unreachable, the process must keep serving
	resp, err = http.Get(base + "/callback?code=abc")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	resp, err = http.Get(base + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	app.RequireStop()

	_, err = http.Get(base + "/healthz")
	assert.Error(t, err)
}

func TestServer_ServeWithoutListen(t *testing.T) {
	s := &Server{httpServer: &http.Server{}}
	assert.Error(t, s.Serve())
}
