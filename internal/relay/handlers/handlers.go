package handlers

import (
	"errors"
	"net/http"

	"github.com/brizzai/oauth-relay/internal/config"
	"github.com/brizzai/oauth-relay/internal/logger"
	"github.com/brizzai/oauth-relay/internal/models"
	"github.com/brizzai/oauth-relay/internal/provider"
	"github.com/brizzai/oauth-relay/internal/relay/constants"
	"github.com/brizzai/oauth-relay/internal/relay/tokenstore"
	"github.com/brizzai/oauth-relay/internal/utils"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Handler serves the relay pages
type Handler struct {
	provider   provider.Provider
	tokens     tokenstore.Source
	memory     *tokenstore.MemoryStore // nil unless tokens live in memory
	codeSource config.CodeParamSource
}

// NewHandler creates a new Handler. memory may be nil, in which case
// successful exchanges are rendered but not kept.
func NewHandler(p provider.Provider, tokens tokenstore.Source, memory *tokenstore.MemoryStore, codeSource config.CodeParamSource) *Handler {
	if codeSource == "" {
		codeSource = config.CodeParamSourceQuery
	}
	return &Handler{
		provider:   p,
		tokens:     tokens,
		memory:     memory,
		codeSource: codeSource,
	}
}

// HandleLogin handles GET / and renders the provider login link
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteText(w, http.StatusMethodNotAllowed, constants.MsgMethodNotAllow)
		return
	}

	utils.WriteHTML(w, http.StatusOK, loginPage, struct{ AuthURL string }{
		AuthURL: h.provider.AuthURL(),
	})
}

// HandleCallback handles GET /callback and GET /auth: it exchanges the
// authorization code for an access token and shows the result.
// A missing code answers 400 and a failed exchange answers 502, both with
// the plain text message only. Earlier deployments answered 200 in both cases.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteText(w, http.StatusMethodNotAllowed, constants.MsgMethodNotAllow)
		return
	}

	code := h.code(r)
	if code == "" {
		utils.WriteText(w, http.StatusBadRequest, constants.MsgNoCode)
		return
	}

	token, err := h.provider.ExchangeCode(r.Context(), code)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			fields = append(fields, zap.Int("status", retrieveErr.Response.StatusCode))
		}
		logger.Error("Error getting access token", fields...)
		utils.WriteText(w, http.StatusBadGateway, constants.MsgTokenError)
		return
	}

	if h.memory != nil {
		h.memory.Replace(*token)
	}
	logger.Info("Exchanged authorization code", zap.String("user_id", token.UserID))

	utils.WriteHTML(w, http.StatusOK, tokenPage, token)
}

// HandleUser handles GET /user and renders the profile of the token owner.
// Without a token it answers 401 and when the profile cannot be fetched it
// answers 502, both with the plain text message only. Earlier deployments
// answered 200 in both cases.
func (h *Handler) HandleUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteText(w, http.StatusMethodNotAllowed, constants.MsgMethodNotAllow)
		return
	}

	token, ok := h.tokens.Token()
	if !ok {
		utils.WriteText(w, http.StatusUnauthorized, constants.MsgNoAccessToken)
		return
	}

	profile, err := h.provider.FetchProfile(r.Context(), token.AccessToken)
	if err != nil {
		logger.Error("Error fetching user info", zap.Error(err))
		utils.WriteText(w, http.StatusBadGateway, constants.MsgProfileError)
		return
	}

	data := struct {
		Debug   string
		Profile *models.UserProfile
	}{Profile: profile}
	// any non-empty value turns the dump on, debug=0 included
	if r.URL.Query().Get(constants.DebugQueryParam) != "" {
		data.Debug = string(pretty.Pretty(profile.Raw))
	}

	utils.WriteHTML(w, http.StatusOK, profilePage, data)
}

// HandleHealth handles GET /healthz
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteText(w, http.StatusOK, "ok")
}

func (h *Handler) code(r *http.Request) string {
	switch h.codeSource {
	case config.CodeParamSourceQuery:
		return r.URL.Query().Get(constants.CodeQueryParam)
	default:
		return ""
	}
}
