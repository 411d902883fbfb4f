// Package sniffer identifies uploaded images by their leading bytes.
package sniffer

import (
	"bytes"
	"errors"
	"mime"
	"net/textproto"
	"strings"
)

type MediaType string

const (
	TypeJPEG MediaType = "jpeg"
	TypePNG  MediaType = "png"
	TypeGIF  MediaType = "gif"
	TypeWEBP MediaType = "webp"
	TypeAVIF MediaType = "avif"
	TypeSVG  MediaType = "svg"
)

// HeadSize is how many leading bytes DetectHead needs at most.
const HeadSize = 512

var ErrUnknownType = errors.New("unknown media type")

type Result struct {
	Type MediaType
	MIME string
	// Ext is the file extension stored uploads of this type get, without the dot.
	Ext string
}

type signature struct {
	result Result
	match  func(head []byte) bool
}

var signatures = []signature{
	{Result{TypeJPEG, "image/jpeg", "jpg"}, prefix(0xff, 0xd8, 0xff)},
	{Result{TypePNG, "image/png", "png"}, prefix(0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n')},
	{Result{TypeGIF, "image/gif", "gif"}, func(h []byte) bool {
		return bytes.HasPrefix(h, []byte("GIF87a")) || bytes.HasPrefix(h, []byte("GIF89a"))
	}},
	{Result{TypeWEBP, "image/webp", "webp"}, func(h []byte) bool {
		return len(h) >= 12 && bytes.HasPrefix(h, []byte("RIFF")) && bytes.Equal(h[8:12], []byte("WEBP"))
	}},
	{Result{TypeAVIF, "image/avif", "avif"}, func(h []byte) bool {
		return len(h) >= 12 && bytes.Equal(h[4:8], []byte("ftyp")) && bytes.Contains(h[8:], []byte("avif"))
	}},
	{Result{TypeSVG, "image/svg+xml", "svg"}, isSVG},
}

func prefix(magic ...byte) func([]byte) bool {
	return func(h []byte) bool { return bytes.HasPrefix(h, magic) }
}

// DetectHead matches head against the supported image signatures.
func DetectHead(head []byte) (Result, error) {
	if len(head) > HeadSize {
		head = head[:HeadSize]
	}
	for _, sig := range signatures {
		if sig.match(head) {
			return sig.result, nil
		}
	}
	return Result{}, ErrUnknownType
}

func isSVG(head []byte) bool {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(head, []byte("\xef\xbb\xbf")))
	lower := bytes.ToLower(trimmed)
	if bytes.HasPrefix(lower, []byte("<svg")) {
		return true
	}
	// an xml prolog or doctype only counts when an svg root follows
	return (bytes.HasPrefix(lower, []byte("<?xml")) || bytes.HasPrefix(lower, []byte("<!doctype"))) &&
		bytes.Contains(lower, []byte("<svg"))
}

// DeclaredType returns the client-declared media type of a multipart part,
// without parameters. Unparseable values yield "".
func DeclaredType(header textproto.MIMEHeader) string {
	raw := header.Get("Content-Type")
	if raw == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}
