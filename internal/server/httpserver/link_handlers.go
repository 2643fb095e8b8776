package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type linkResponse struct {
	Message          string `json:"message"`
	ThirdPartyHandle string `json:"thirdPartyHandle"`
}

// handleLinkLogin sends an authenticated caller to the provider's consent
// page. The optional redirect parameter is where the callback lands after
// a successful link.
func (s *HTTPServer) handleLinkLogin(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	target := r.URL.Query().Get("redirect")
	if target != "" && !safeRedirect(target, s.redirectHosts) {
		writeError(w, http.StatusBadRequest, "invalid redirect target")
		return
	}

	state, err := s.tokens.IssueLinkState(claims.AccountID, claims.Handle, target)
	if err != nil {
		s.writeServiceError(w, r, fmt.Errorf("issue link state: %w", err))
		return
	}

	http.Redirect(w, r, s.linker.AuthCodeURL(state), http.StatusFound)
}

func (s *HTTPServer) handleLinkCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if e := q.Get("error"); e != "" {
		s.logger.Warn(r.Context(), "link denied by provider",
			"error", e, "description", q.Get("error_description"))
		writeError(w, http.StatusBadRequest, "authorization denied: "+e)
		return
	}

	code, rawState := q.Get("code"), q.Get("state")
	if code == "" || rawState == "" {
		writeError(w, http.StatusBadRequest, "missing code or state")
		return
	}

	st, err := s.tokens.VerifyLinkState(rawState)
	if err != nil {
		s.logger.Warn(r.Context(), "link state rejected", "reason", err.Error())
		s.writeServiceError(w, r, err)
		return
	}

	thirdParty, err := s.linker.ResolveHandle(r.Context(), code)
	if err != nil {
		s.writeServiceError(w, r, fmt.Errorf("resolve third-party handle: %w", err))
		return
	}

	if _, err := s.accounts.Link(r.Context(), st.AccountID, thirdParty); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if st.Target != "" && safeRedirect(st.Target, s.redirectHosts) {
		http.Redirect(w, r, st.Target, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, linkResponse{Message: "account linked", ThirdPartyHandle: thirdParty})
}

// safeRedirect accepts local paths, and absolute http(s) URLs whose host
// (with port, if any) is in allowedHosts.
func safeRedirect(target string, allowedHosts []string) bool {
	if strings.HasPrefix(target, "/") {
		return !strings.HasPrefix(target, "//") && !strings.HasPrefix(target, "/\\")
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" || u.User != nil {
		return false
	}
	for _, h := range allowedHosts {
		if strings.EqualFold(h, u.Host) {
			return true
		}
	}
	return false
}

