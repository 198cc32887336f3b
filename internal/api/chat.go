package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/movnaglobal/chat-service/internal/chat"
	"github.com/movnaglobal/chat-service/internal/i18n"
	"github.com/movnaglobal/chat-service/internal/log"
	"github.com/movnaglobal/chat-service/internal/session"
)

// maxRequestBody bounds the chat request body (message plus history).
const maxRequestBody = 1 << 20

// chatRequest is the POST /chat body. History is optional; each request
// carries the full conversation so far.
type chatRequest struct {
	Message string         `json:"message"`
	History []session.Turn `json:"history,omitempty"`
}

// chatResponse echoes the reply and the history extended with the new
// exchange. Callers send History back verbatim on the next request.
type chatResponse struct {
	Message string         `json:"message"`
	History []session.Turn `json:"history"`
}

type chatHandler struct {
	svc    *chat.Service
	logger log.Logger
}

func (h *chatHandler) handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, i18n.T(i18n.LangEN, "error.message.required"), h.logger)
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, i18n.T(i18n.LangEN, "error.message.required"), h.logger)
		return
	}

	res, err := h.svc.Respond(r.Context(), req.Message, req.History)
	if err != nil {
		// localized by query language; details stay server-side
		lang := chat.DetectLanguage(req.Message)
		requestID, _ := requestIDFromContext(r.Context())
		h.logger.Error("chat request failed",
			"error", err,
			"language", lang,
			"rejected", errors.Is(err, chat.ErrReplyRejected),
			"request_id", requestID,
		)
		writeError(w, http.StatusInternalServerError, i18n.T(lang, "error.generic"), h.logger)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Message: res.Reply, History: res.Turns}, h.logger)
}
