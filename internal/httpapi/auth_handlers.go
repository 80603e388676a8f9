package httpapi

import (
	"net/http"

	"aegis.gg/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	UserType    string `json:"user_type"`
	Username    string `json:"username,omitempty"`
	OrgName     string `json:"org_name,omitempty"`
	OwnerName   string `json:"owner_name,omitempty"`
	Country     string `json:"country,omitempty"`
	Description string `json:"description,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	Message      string         `json:"message"`
	Token        string         `json:"token"`
	RefreshToken string         `json:"refresh_token"`
	SessionID    string         `json:"session_id"`
	User         map[string]any `json:"user"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	result, err := a.auth.Login(r.Context(), auth.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	a.setTokenCookie(w, result.Token)
	writeJSON(w, http.StatusOK, authResponse{
		Message:      "login successful",
		Token:        result.Token,
		RefreshToken: result.RefreshToken,
		SessionID:    result.SessionID,
		User:         userPayload(result.Principal),
	})
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	result, err := a.auth.Register(r.Context(), auth.RegisterInput{
		UserType:    req.UserType,
		Email:       req.Email,
		Password:    req.Password,
		Username:    req.Username,
		OrgName:     req.OrgName,
		OwnerName:   req.OwnerName,
		Country:     req.Country,
		Description: req.Description,
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
	})
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	a.setTokenCookie(w, result.Token)
	writeJSON(w, http.StatusCreated, authResponse{
		Message:      "registration successful",
		Token:        result.Token,
		RefreshToken: result.RefreshToken,
		SessionID:    result.SessionID,
		User:         userPayload(result.Principal),
	})
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	result, err := a.auth.Refresh(r.Context(), req.RefreshToken, clientIP(r), r.UserAgent())
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	a.setTokenCookie(w, result.Token)
	writeJSON(w, http.StatusOK, map[string]any{
		"token":         result.Token,
		"refresh_token": result.RefreshToken,
		"session_id":    result.SessionID,
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	// The cookie goes away no matter how the revoke turns out.
	a.clearTokenCookie(w)
	if err := a.auth.Logout(r.Context(), claims, clientIP(r), r.UserAgent()); err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "logged out"})
}

func (a *API) handleRevokeSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	a.clearTokenCookie(w)
	if err := a.auth.RevokeAll(r.Context(), claims, clientIP(r), r.UserAgent()); err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "all sessions revoked"})
}

func userPayload(p auth.Principal) map[string]any {
	user := map[string]any{
		"id":        p.ID,
		"email":     p.Email,
		"user_type": p.UserType,
		"verified":  p.Verified,
	}
	if p.Username != "" {
		user["username"] = p.Username
	}
	if p.OrgName != "" {
		user["org_name"] = p.OrgName
	}
	if p.ApprovalStatus != "" {
		user["approval_status"] = p.ApprovalStatus
	}
	return user
}

func (a *API) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *API) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // emits Max-Age=0
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
