package eventsource

import (
	"mime"
	"net/http"
)

const contentTypeEventStream = "text/event-stream"

// checkResponse accepts only 200 responses with a text/event-stream
// media type, parameters are ignored.
func checkResponse(resp *http.Response) error {
	if resp.StatusCode != http.StatusOK {
		return &StatusCodeError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != contentTypeEventStream {
		return &ContentTypeError{ContentType: contentType}
	}
	return nil
}
