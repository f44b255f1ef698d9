package peelapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mel2oo/go-peel"
	"github.com/mel2oo/go-peel/optionals"
	"github.com/mel2oo/go-peel/packet/session"
)

// digitResult and digitParser are a minimal Parser[session.Session] pair
// that matches one literal byte, used to build a chain deep enough to
// exercise a configured MaxDepth.
type digitResult byte

func (d digitResult) String() string { return string([]byte{byte(d)}) }

type digitParser struct{ tag byte }

func (p digitParser) Variant() peel.VariantTag { return peel.VariantTag(string([]byte{p.tag})) }

func (p digitParser) Parse(input []byte, _ peel.ResultSequence, _ *session.Session) peel.ParseOutcome {
	if len(input) == 0 {
		return peel.Incomplete(optionals.None[int64]())
	}
	if input[0] != p.tag {
		return peel.Mismatch(0, peel.MismatchTagBits)
	}
	return peel.Done(input[1:], digitResult(p.tag))
}

func testToken(t *testing.T, secret []byte) string {
	t.Helper()
	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return tok
}

func TestTraverseRequiresAuth(t *testing.T) {
	g := peel.NewGraph[session.Session]()
	srv := New(g, []byte("secret"))

	req := httptest.NewRequest(http.MethodPost, "/traverse", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTraverseReturnsReport(t *testing.T) {
	g := peel.NewGraph[session.Session]()

	srv := New(g, []byte("secret"))
	tok := testToken(t, srv.Secret)

	req := httptest.NewRequest(http.MethodPost, "/traverse", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status"`)
}

// TestTraverseUsesConfiguredMaxDepth confirms cfg.MaxDepth, once threaded
// through New, actually bounds the Driver built per request rather than
// silently falling back to engine defaults.
func TestTraverseUsesConfiguredMaxDepth(t *testing.T) {
	g := peel.NewGraph[session.Session]()
	root := g.NewParser(digitParser{tag: '1'})
	_, err := g.LinkNewParser(root, digitParser{tag: '2'})
	require.NoError(t, err)

	srv := New(g, []byte("secret"), peel.WithMaxDepth(1))
	tok := testToken(t, srv.Secret)

	req := httptest.NewRequest(http.MethodPost, "/traverse", strings.NewReader("12"))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var dto reportDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, peel.Aborted.String(), dto.Status)
	assert.Equal(t, peel.DepthExceeded.String(), dto.AbortCause)
}
