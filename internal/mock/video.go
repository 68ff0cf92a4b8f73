package mock

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/garrettladley/ham/internal/xhttp"
	"github.com/garrettladley/ham/internal/xslog"
)

// FrameSource produces the frames served on the video route.
type FrameSource interface {
	Latest() (image.Image, bool)
}

const imageJPEG = "image/jpeg"

// handleVideo streams frames as multipart/x-mixed-replace JPEG at fps until
// the client leaves or the server shuts down.
func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := xslog.FromContext(ctx)
	rc := http.NewResponseController(w)

	mw := multipart.NewWriter(w)
	w.Header().Set(xhttp.ContentType, "multipart/x-mixed-replace; boundary="+mw.Boundary())
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	ticker := time.NewTicker(time.Second / time.Duration(max(s.fps, 1)))
	defer ticker.Stop()

	var buf bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			_ = mw.Close()
			return
		case <-s.shutdown.BaseContext().Done():
			_ = mw.Close()
			return
		case <-ticker.C:
		}

		img, ok := s.frames.Latest()
		if !ok {
			continue
		}
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
			logger.WarnContext(ctx, "failed to encode frame", xslog.Error(err))
			continue
		}

		part, err := mw.CreatePart(textproto.MIMEHeader{
			xhttp.ContentType: {imageJPEG},
			"Content-Length":  {fmt.Sprint(buf.Len())},
		})
		if err != nil {
			return
		}
		if _, err := part.Write(buf.Bytes()); err != nil {
			return
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
