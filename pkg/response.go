package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON string
}{
	JSON: "application/json",
}

// MessageResponse is the body of every error and plain acknowledgement response.
type MessageResponse struct {
	Message string `json:"message"`
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte, status int) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(status)

	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%s]: %s", message, err)
	}
}

// WriteJSON marshals v and writes it with the given status.
// On marshal failure a 500 is written instead.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	respBytes, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal response of type %T: %s", v, err)
		WriteJSONMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	WriteResponseBytes(w, ContentType.JSON, respBytes, status)
}

func WriteJSONMessage(w http.ResponseWriter, status int, message string) {
	// marshalling a single string field can't fail
	respBytes, _ := json.Marshal(MessageResponse{Message: message})
	WriteResponseBytes(w, ContentType.JSON, respBytes, status)
}
