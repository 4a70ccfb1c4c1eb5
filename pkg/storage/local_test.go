package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	ctx := context.Background()

	resp, err := store.Upload(ctx, &UploadRequest{
		Key:         "payments/u1/proof.png",
		Reader:      strings.NewReader("png-bytes"),
		ContentType: "image/png",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if resp.Size != int64(len("png-bytes")) {
		t.Fatalf("size = %d", resp.Size)
	}
	if _, err := store.GetURL(ctx, "payments/u1/proof.png", time.Hour); !errors.Is(err, ErrNoDirectURL) {
		t.Fatalf("GetURL err = %v, want ErrNoDirectURL", err)
	}

	exists, err := store.FileExists(ctx, "payments/u1/proof.png")
	if err != nil || !exists {
		t.Fatalf("FileExists = %v, %v", exists, err)
	}

	rc, err := store.Open(ctx, "payments/u1/proof.png")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, err := io.ReadAll(rc)
	rc.Close()
	if err != nil || string(body) != "png-bytes" {
		t.Fatalf("Open read %q, %v", body, err)
	}

	if err := store.Delete(ctx, "payments/u1/proof.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "payments/u1/proof.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete err = %v, want ErrNotFound", err)
	}
	if _, err := store.Open(ctx, "payments/u1/proof.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Open after delete err = %v, want ErrNotFound", err)
	}
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	_, err = store.Upload(context.Background(), &UploadRequest{
		Key:    "../outside.txt",
		Reader: strings.NewReader("x"),
	})
	if err == nil {
		t.Fatal("upload outside base path succeeded")
	}
}

func TestNewProviderUnknown(t *testing.T) {
	if _, err := NewProvider(context.Background(), Options{Provider: "ftp"}); err == nil {
		t.Fatal("unknown provider accepted")
	}
}
