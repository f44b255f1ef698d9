// Package http decodes a single HTTP/1.x request or response. It drives
// net/http's request/response readers directly against an in-memory
// buffer and recovers the number of consumed bytes from the reader's
// internal buffering state, since traversal here is single-shot and
// synchronous rather than a long-lived stream.
package http

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/mel2oo/go-peel"
	"github.com/mel2oo/go-peel/optionals"
	"github.com/mel2oo/go-peel/packet/session"
)

// Variant is this parser's peel.VariantTag.
const Variant peel.VariantTag = "HTTP"

// MaximumLength caps how much of a request or response body this parser
// will buffer.
var MaximumLength int64 = 1024 * 1024

// Message is the result of a successful parse: a request or a response,
// distinguished by IsRequest.
type Message struct {
	IsRequest bool
	Scheme    string // "http" or "https", set from session.TLSSeen

	Method     string
	Path       string
	Host       string
	StatusCode int
	ProtoMajor int
	ProtoMinor int
	Header     http.Header
	Body       []byte
}

func (m Message) String() string {
	if m.IsRequest {
		return fmt.Sprintf("HTTP -> %s %s://%s%s", m.Method, m.Scheme, m.Host, m.Path)
	}
	return fmt.Sprintf("HTTP <- %d", m.StatusCode)
}

// Parser decodes a single HTTP/1.x request or response from the start of
// the input.
type Parser struct{}

// New returns an HTTP/1.x request-or-response parser.
func New() Parser { return Parser{} }

func (Parser) Variant() peel.VariantTag { return Variant }

func (Parser) Parse(input []byte, _ peel.ResultSequence, state *session.Session) peel.ParseOutcome {
	if len(input) == 0 {
		return peel.Incomplete(optionals.None[int64]())
	}

	isRequest := !bytes.HasPrefix(input, []byte("HTTP/"))
	if isRequest && !looksLikeRequestLine(input) {
		return peel.Mismatch(0, peel.MismatchTagBits)
	}

	counter := &countingReader{r: bytes.NewReader(input)}
	br := bufio.NewReader(counter)

	var msg Message
	msg.IsRequest = isRequest

	if isRequest {
		req, err := http.ReadRequest(br)
		if outcome, done := classifyReadErr(err); !done {
			return outcome
		} else if err != nil {
			return peel.Mismatch(0, peel.MismatchOther)
		}

		body, bodyErr := readBody(req.Body)
		if bodyErr != nil {
			return peel.Mismatch(0, peel.MismatchOther)
		}

		msg.Method = req.Method
		msg.Path = req.URL.RequestURI()
		msg.Host = req.Host
		msg.ProtoMajor = req.ProtoMajor
		msg.ProtoMinor = req.ProtoMinor
		msg.Header = req.Header
		msg.Body = body
	} else {
		resp, err := http.ReadResponse(br, nil)
		if outcome, done := classifyReadErr(err); !done {
			return outcome
		} else if err != nil {
			return peel.Mismatch(0, peel.MismatchOther)
		}

		body, bodyErr := readBody(resp.Body)
		if bodyErr != nil {
			return peel.Mismatch(0, peel.MismatchOther)
		}

		msg.StatusCode = resp.StatusCode
		msg.ProtoMajor = resp.ProtoMajor
		msg.ProtoMinor = resp.ProtoMinor
		msg.Header = resp.Header
		msg.Body = body
	}

	if state != nil && state.TLSSeen {
		msg.Scheme = "https"
	} else {
		msg.Scheme = "http"
	}

	consumed := counter.n - int64(br.Buffered())
	if consumed < 0 || consumed > int64(len(input)) {
		return peel.Fatal(errors.Errorf("peel/packet/http: impossible consumed byte count %d", consumed))
	}

	return peel.Done(input[consumed:], msg)
}

func looksLikeRequestLine(input []byte) bool {
	for _, method := range []string{"GET ", "POST ", "PUT ", "DELETE ", "HEAD ", "OPTIONS ", "PATCH ", "CONNECT ", "TRACE "} {
		if bytes.HasPrefix(input, []byte(method)) {
			return true
		}
	}
	return false
}

// classifyReadErr maps a net/http read error onto either "keep going, this
// is a genuine engine outcome" (done=false, with outcome already built) or
// "done=true", meaning the caller should proceed to read the body (err ==
// nil) or report the generic Mismatch (err != nil and not handled here).
func classifyReadErr(err error) (outcome peel.ParseOutcome, done bool) {
	if err == nil {
		return peel.ParseOutcome{}, true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return peel.Incomplete(optionals.None[int64]()), false
	}
	return peel.ParseOutcome{}, true
}

func readBody(body io.ReadCloser) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	defer body.Close()

	buf, err := io.ReadAll(io.LimitReader(body, MaximumLength))
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return buf, nil
}

// countingReader tracks the total number of bytes yielded by Read, so the
// parser can recover exactly how much of input was consumed once
// bufio.Reader's internal read-ahead is subtracted back out.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
