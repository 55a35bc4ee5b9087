package util

import "testing"

func TestSniffImageMIME(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, "image/jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, "image/png"},
		{"gif87a", []byte("GIF87a......"), "image/gif"},
		{"gif89a", []byte("GIF89a......"), "image/gif"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp"},
		{"pdf", []byte("%PDF-1.7"), ""},
		{"empty", nil, ""},
		{"short", []byte{0xFF}, ""},
	}
	for _, c := range cases {
		if got := SniffImageMIME(c.data); got != c.want {
			t.Errorf("%s: SniffImageMIME = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestMakeDataURL(t *testing.T) {
	got := MakeDataURL("image/png", "QUJD")
	if got != "data:image/png;base64,QUJD" {
		t.Fatalf("got %q", got)
	}
}

func TestExtFromMIME(t *testing.T) {
	if got := ExtFromMIME("image/jpeg"); got != ".jpg" {
		t.Fatalf("jpeg ext = %q", got)
	}
	if got := ExtFromMIME("application/pdf"); got != "" {
		t.Fatalf("pdf ext = %q", got)
	}
}

func TestSHA256Hex(t *testing.T) {
	got := SHA256Hex([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Fatalf("SHA256Hex = %s", got)
	}
}
