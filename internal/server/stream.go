package server

import (
	"fmt"
	"net/http"
)

// handleStream serves the published frames as MJPEG.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	updates, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	if err := writePart(w, s.hub.Frame()); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-updates:
			if err := writePart(w, s.hub.Frame()); err != nil {
				return
			}
		}
	}
}

// writePart writes one multipart JPEG part and flushes it. A nil frame is skipped.
func writePart(w http.ResponseWriter, frame []byte) error {
	if frame == nil {
		return nil
	}

	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(frame)); err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "\r\n"); err != nil {
		return err
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
