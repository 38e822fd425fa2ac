package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"lion_estate/internal/adapters/uploads"
)

const (
	msgNoFile      = "No file provided"
	msgBadType     = "Invalid file type. Only images are allowed."
	msgTooLarge    = "File size too large. Maximum size is 10MB."
	msgUploadError = "Failed to upload image"
)

func (h *Handlers) upload(w http.ResponseWriter, r *http.Request) {
	// room for multipart framing on top of the image itself
	r.Body = http.MaxBytesReader(w, r.Body, uploads.MaxImageBytes+64<<10)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusBadRequest, msgTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgNoFile)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgNoFile)
		return
	}
	defer f.Close()

	if hdr.Size > uploads.MaxImageBytes {
		writeError(w, http.StatusBadRequest, msgTooLarge)
		return
	}
	ct, ext, err := uploads.Sniff(f)
	if err != nil {
		if !errors.Is(err, uploads.ErrUnsupportedType) {
			log.Error().Err(err).Msg("read upload failed")
		}
		writeError(w, http.StatusBadRequest, msgBadType)
		return
	}

	name := uploads.NewFilename(time.Now(), ext)
	url, err := h.Images.Save(r.Context(), name, ct, f, hdr.Size)
	if err != nil {
		log.Error().Err(err).Str("filename", name).Msg("store upload failed")
		writeError(w, http.StatusInternalServerError, msgUploadError)
		return
	}
	log.Info().Str("filename", name).Int64("size", hdr.Size).Str("type", ct).Msg("image uploaded")
	writeJSON(w, http.StatusOK, struct {
		Success  bool   `json:"success"`
		URL      string `json:"url"`
		Filename string `json:"filename"`
	}{true, url, name})
}
