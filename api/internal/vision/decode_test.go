package vision

import (
	"errors"
	"testing"
)

func TestDecodeReplyFencedObject(t *testing.T) {
	text := "```json\n{\"classifications\": [{\"hs_code\": \"0902.10.10\", \"confidence_score\": 0.75}], \"not_in_document\": false}\n```"
	res, err := DecodeReply(text)
	if err != nil {
		t.Fatalf("DecodeReply: %v", err)
	}
	if len(res.Classifications) != 1 || res.Classifications[0].HSCode != "0902.10.10" {
		t.Fatalf("result = %+v", res)
	}
	if res.RawResponse != text {
		t.Error("raw response not preserved")
	}
}

func TestDecodeReplyNoJSON(t *testing.T) {
	res, err := DecodeReply("I cannot classify this image.")
	if !errors.Is(err, ErrNoJSON) {
		t.Fatalf("err = %v, want ErrNoJSON", err)
	}
	if res.RawResponse != "I cannot classify this image." {
		t.Errorf("raw response = %q", res.RawResponse)
	}
}

func TestDecodeReplyMalformedObject(t *testing.T) {
	res, err := DecodeReply(`{"classifications": "should be an array"}`)
	if !errors.Is(err, ErrBadReply) {
		t.Fatalf("err = %v, want ErrBadReply", err)
	}
	if errors.Is(err, ErrNoJSON) {
		t.Error("malformed object must not look retryable")
	}
	if res.RawResponse == "" {
		t.Error("raw response not carried on error")
	}
}
