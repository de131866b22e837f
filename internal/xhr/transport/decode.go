package transport

import (
	"bytes"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/xmlquery"
	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// minDetectConfidence is the chardet confidence below which a guess is ignored
const minDetectConfidence = 30

// decodeText converts body to UTF-8. The Content-Type charset wins; without
// one, valid UTF-8 passes through and anything else is guessed.
func decodeText(body []byte, contentType string) string {
	if len(body) == 0 {
		return ""
	}

	label := charsetParam(contentType)
	if label == "" {
		if utf8.Valid(body) {
			return string(body)
		}
		label = detectCharset(body)
	}
	if label == "" {
		return string(body)
	}

	enc, _ := charset.Lookup(label)
	if enc == nil {
		return string(body)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}

func charsetParam(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}

func detectCharset(body []byte) string {
	result, err := chardet.NewTextDetector().DetectBest(body)
	if err != nil || result.Confidence < minDetectConfidence {
		return ""
	}
	return result.Charset
}

// mediaType returns the lower-cased MIME type, sniffing the body when the header is absent
func mediaType(body []byte, contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		contentType = mimetype.Detect(body).String()
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

func isXML(mt string) bool {
	return mt == "text/xml" || mt == "application/xml" || strings.HasSuffix(mt, "+xml")
}

// parseXML returns a document only for XML media types that parse and have a root element
func parseXML(body []byte, contentType string) *xmlquery.Node {
	if len(body) == 0 || !isXML(mediaType(body, contentType)) {
		return nil
	}

	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return doc
		}
	}
	return nil
}
