// HAR export: turns a dissected Message into the har.Request/har.Response
// shape, for callers that want to export a traversal's HTTP layer as a
// HAR entry.
package http

import (
	"strconv"
	"strings"

	"github.com/google/martian/v3/har"
)

// ToHARRequest converts a request Message into a har.Request. It panics if
// called on a Message where IsRequest is false.
func ToHARRequest(m Message) *har.Request {
	if !m.IsRequest {
		panic("peel/packet/http: ToHARRequest called on a response Message")
	}

	return &har.Request{
		Method:      m.Method,
		URL:         m.Scheme + "://" + m.Host + m.Path,
		HTTPVersion: httpVersionString(m.ProtoMajor, m.ProtoMinor),
		Headers:     convertToHARHeaders(m.Header, m.Host),
		HeadersSize: -1,
		BodySize:    int64(len(m.Body)),
		PostData:    convertToHARPostData(m.Header, m.Body),
	}
}

// ToHARResponse converts a response Message into a har.Response. It panics
// if called on a Message where IsRequest is true.
func ToHARResponse(m Message) *har.Response {
	if m.IsRequest {
		panic("peel/packet/http: ToHARResponse called on a request Message")
	}

	return &har.Response{
		Status:      m.StatusCode,
		StatusText:  "",
		HTTPVersion: httpVersionString(m.ProtoMajor, m.ProtoMinor),
		Headers:     convertToHARHeaders(m.Header, ""),
		HeadersSize: -1,
		BodySize:    int64(len(m.Body)),
		Content: &har.Content{
			Size:     int64(len(m.Body)),
			MimeType: m.Header.Get("Content-Type"),
			Text:     m.Body,
		},
	}
}

func httpVersionString(major, minor int) string {
	return "HTTP/" + strconv.Itoa(major) + "." + strconv.Itoa(minor)
}

func convertToHARHeaders(header map[string][]string, host string) []har.Header {
	out := make([]har.Header, 0, len(header)+1)
	if host != "" {
		out = append(out, har.Header{Name: "Host", Value: host})
	}
	for name, values := range header {
		if strings.EqualFold(name, "host") {
			continue
		}
		for _, v := range values {
			out = append(out, har.Header{Name: name, Value: v})
		}
	}
	return out
}

func convertToHARPostData(header map[string][]string, body []byte) *har.PostData {
	if len(body) == 0 {
		return nil
	}
	mimeType := ""
	if values, ok := header["Content-Type"]; ok && len(values) > 0 {
		mimeType = values[0]
	}
	return &har.PostData{
		MimeType: mimeType,
		Text:     string(body),
	}
}
