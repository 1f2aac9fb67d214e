package netx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// 1x1 transparent PNG.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
}

func TestUploadImage(t *testing.T) {
	t.Run("success 200 OK", func(t *testing.T) {
		var gotBody []byte
		var gotCT, gotMethod string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		if err := UploadImage(context.Background(), ts.URL+"/cards/k?X-Amz-Signature=abc", pngPixel); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotMethod != http.MethodPut {
			t.Fatalf("method = %q, want PUT", gotMethod)
		}
		if gotCT != "image/png" {
			t.Fatalf("Content-Type = %q, want image/png", gotCT)
		}
		if string(gotBody) != string(pngPixel) {
			t.Fatalf("body mismatch")
		}
	})

	t.Run("non-200 includes status and body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("SignatureDoesNotMatch"))
		}))
		defer ts.Close()

		err := UploadImage(context.Background(), ts.URL, pngPixel)
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "SignatureDoesNotMatch") {
			t.Fatalf("error = %v", err)
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		if err := UploadImage(context.Background(), "http://127.0.0.1:1", nil); err == nil {
			t.Fatal("expected error for empty payload")
		}
	})

	t.Run("not an image", func(t *testing.T) {
		err := UploadImage(context.Background(), "http://127.0.0.1:1", []byte("#!/bin/sh\necho hi\n"))
		if err == nil || !strings.Contains(err.Error(), "not an image") {
			t.Fatalf("error = %v", err)
		}
	})

	t.Run("bad url", func(t *testing.T) {
		if err := UploadImage(context.Background(), "://bad", pngPixel); err == nil {
			t.Fatal("expected error for bad url")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := UploadImage(ctx, ts.URL, pngPixel); err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}
