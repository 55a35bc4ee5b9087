package handle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"hs-classifier/api/internal/config"
	"hs-classifier/api/internal/vision"
)

type stubEngine struct {
	res   vision.ClassificationResult
	err   error
	calls int
}

func (s *stubEngine) Name() string     { return "watsonx" }
func (s *stubEngine) GetModel() string { return "test-model" }

func (s *stubEngine) Classify(ctx context.Context, img []byte, mime string) (vision.ClassificationResult, error) {
	s.calls++
	return s.res, s.err
}

var jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x11}, 64)...)

func multipartBody(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func newHandle(stub *stubEngine) *Handle {
	return New(&vision.Engines{Watsonx: stub, Default: "watsonx"})
}

func doClassify(t *testing.T, h *Handle, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/classify-hs-code", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.Classify(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) classifyResponse {
	t.Helper()
	var resp classifyResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestClassifyMethodNotAllowed(t *testing.T) {
	h := newHandle(&stubEngine{})
	req := httptest.NewRequest(http.MethodGet, "/api/classify-hs-code", nil)
	w := httptest.NewRecorder()
	h.Classify(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
}

func TestClassifyRejectsUnsupportedTypeBeforeEngineCall(t *testing.T) {
	stub := &stubEngine{}
	h := newHandle(stub)

	body, ct := multipartBody(t, "doc.pdf", "application/pdf", []byte("%PDF-1.7 not an image"))
	w := doClassify(t, h, body, ct)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if stub.calls != 0 {
		t.Fatalf("engine called %d times for rejected upload", stub.calls)
	}
}

func TestClassifyRejectsOversizeBeforeEngineCall(t *testing.T) {
	stub := &stubEngine{}
	h := newHandle(stub)

	big := make([]byte, config.MaxUploadSize+1)
	big[0], big[1] = 0xFF, 0xD8 // valid JPEG magic, size is the problem
	body, ct := multipartBody(t, "big.jpg", "image/jpeg", big)
	w := doClassify(t, h, body, ct)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
	if stub.calls != 0 {
		t.Fatalf("engine called %d times for oversize upload", stub.calls)
	}
}

func TestClassifyMissingFile(t *testing.T) {
	h := newHandle(&stubEngine{})
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("note", "no file here")
	_ = mw.Close()
	w := doClassify(t, h, &buf, mw.FormDataContentType())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestClassifySuccess(t *testing.T) {
	stub := &stubEngine{
		res: vision.ClassificationResult{
			Classifications: []vision.Classification{{
				HSCode:             "0901.21.00",
				StatSuffix:         "49",
				ArticleDescription: "Coffee, roasted: Not decaffeinated: In retail containers weighing 2 kg or less: Other: Other",
				Confidence:         0.84,
			}},
			RawResponse: `{"classifications": [...]}`,
		},
	}
	h := newHandle(stub)

	body, ct := multipartBody(t, "beans.jpg", "image/jpeg", jpegBytes)
	w := doClassify(t, h, body, ct)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decodeResponse(t, w)
	if !resp.Success || resp.Data == nil {
		t.Fatalf("resp = %+v", resp)
	}
	if got := resp.Data.Classifications[0].Confidence; got != 84 {
		t.Errorf("confidence = %v, want 84 (normalized)", got)
	}
	if resp.RawResponse == "" {
		t.Error("raw_response not propagated")
	}
	if stub.calls != 1 {
		t.Errorf("engine calls = %d, want 1", stub.calls)
	}
}

func TestClassifyUnparseableReplyFallsBack(t *testing.T) {
	stub := &stubEngine{
		res: vision.ClassificationResult{RawResponse: "I am sorry, I cannot help with that."},
		err: fmt.Errorf("%w: gibberish", vision.ErrBadReply),
	}
	h := newHandle(stub)

	body, ct := multipartBody(t, "beans.jpg", "image/jpeg", jpegBytes)
	w := doClassify(t, h, body, ct)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (fallback, not failure)", w.Code)
	}
	resp := decodeResponse(t, w)
	if !resp.Success || resp.Data == nil {
		t.Fatalf("resp = %+v", resp)
	}
	if !resp.Data.NotInDocument || len(resp.Data.Classifications) != 1 {
		t.Fatalf("fallback data = %+v", resp.Data)
	}
	if resp.RawResponse != "I am sorry, I cannot help with that." {
		t.Errorf("raw_response = %q", resp.RawResponse)
	}
}

func TestClassifyEngineFailure(t *testing.T) {
	stub := &stubEngine{err: errors.New("watsonx chat 500: internal error")}
	h := newHandle(stub)

	body, ct := multipartBody(t, "beans.jpg", "image/jpeg", jpegBytes)
	w := doClassify(t, h, body, ct)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Success || resp.Error == "" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestRequestTimeout(t *testing.T) {
	cases := []struct {
		name   string
		header string
		query  string
		want   time.Duration
	}{
		{"default", "", "", config.DefaultTimeoutSec * time.Second},
		{"header", "30", "", 30 * time.Second},
		{"query", "", "45", 45 * time.Second},
		{"header wins", "30", "45", 30 * time.Second},
		{"junk header falls back", "soon", "", config.DefaultTimeoutSec * time.Second},
		{"negative ignored", "-5", "", config.DefaultTimeoutSec * time.Second},
	}
	for _, c := range cases {
		url := "/api/classify-hs-code"
		if c.query != "" {
			url += "?timeoutSec=" + c.query
		}
		req := httptest.NewRequest(http.MethodPost, url, nil)
		if c.header != "" {
			req.Header.Set("X-Request-Timeout", c.header)
		}
		if got := requestTimeout(req); got != c.want {
			t.Errorf("%s: requestTimeout = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestClassifyUnknownEngine(t *testing.T) {
	h := newHandle(&stubEngine{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="beans.jpg"`)
	hdr.Set("Content-Type", "image/jpeg")
	part, _ := mw.CreatePart(hdr)
	_, _ = part.Write(jpegBytes)
	_ = mw.WriteField("engine", "claude")
	_ = mw.Close()

	w := doClassify(t, h, &buf, mw.FormDataContentType())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
