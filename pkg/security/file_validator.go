package security

import (
	"bytes"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

var pdfMagic = []byte("%PDF")

var (
	ErrEmptyFile   = errors.New("File is empty")
	ErrNotPDF      = errors.New("Only PDF files are allowed")
	ErrFileTooBig  = errors.New("File exceeds the maximum allowed size")
	MaxResumeBytes = int64(5 << 20)
)

// ValidatePDF checks extension, magic bytes and sniffed MIME type of an uploaded resume.
func ValidatePDF(filename string, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyFile
	}
	if int64(len(data)) > MaxResumeBytes {
		return ErrFileTooBig
	}
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return ErrNotPDF
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return ErrNotPDF
	}
	if mime := http.DetectContentType(data); mime != "application/pdf" {
		return ErrNotPDF
	}
	return nil
}

// SafeFileName strips directories and quote characters so the name can sit in a Content-Disposition header.
func SafeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch r {
		case '"', '\r', '\n':
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return "resume.pdf"
	}
	return name
}
