package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/agentcore/pkg/adapters/memory"
	"github.com/aretw0/agentcore/pkg/domain"
	"github.com/aretw0/agentcore/pkg/persistence/middleware"
	"github.com/aretw0/agentcore/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunKVStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := memory.NewStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secureStore := mw(underlyingStore)

	ctx := context.Background()

	if err := secureStore.Set(ctx, "recipe", "my-secret-sauce"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	stored, err := underlyingStore.Get(ctx, "recipe")
	if err != nil {
		t.Fatalf("Underlying get failed: %v", err)
	}
	if strings.Contains(stored, "my-secret-sauce") {
		t.Fatalf("Expected value to be hidden, found: %v", stored)
	}
	if !strings.HasPrefix(stored, "enc:v1:") {
		t.Fatalf("Expected envelope prefix, got %q", stored)
	}

	loaded, err := secureStore.Get(ctx, "recipe")
	if err != nil {
		t.Fatalf("Get via middleware failed: %v", err)
	}
	if loaded != "my-secret-sauce" {
		t.Errorf("Expected 'my-secret-sauce', got %v", loaded)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)
	ctx := context.Background()

	if err := secureStoreOld.Set(ctx, "rotation", "encrypted-with-old-key"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Get(ctx, "rotation")
	if err != nil {
		t.Fatalf("Get with rotated key failed: %v", err)
	}
	if loaded != "encrypted-with-old-key" {
		t.Errorf("Decryption with fallback key failed")
	}

	if err := secureStoreNew.Set(ctx, "rotation", "encrypted-with-new-key"); err != nil {
		t.Fatalf("Set with new key failed: %v", err)
	}
	if _, err := secureStoreOld.Get(ctx, "rotation"); err == nil {
		t.Error("Expected failure when reading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_PlainValue(t *testing.T) {
	underlyingStore := memory.NewStore()
	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	ctx := context.Background()

	if err := underlyingStore.Set(ctx, "legacy", "plain"); err != nil {
		t.Fatal(err)
	}
	if _, err := secureStore.Get(ctx, "legacy"); err != middleware.ErrNotEncrypted {
		t.Errorf("Expected ErrNotEncrypted, got %v", err)
	}
	if _, err := secureStore.Get(ctx, "missing"); err != domain.ErrKeyNotFound {
		t.Errorf("Expected ErrKeyNotFound to pass through, got %v", err)
	}
}

func TestParseKeys(t *testing.T) {
	active := base64.StdEncoding.EncodeToString(generateKey(t))
	old := base64.StdEncoding.EncodeToString(generateKey(t))

	cfg, err := middleware.ParseKeys(active, old)
	if err != nil {
		t.Fatalf("ParseKeys failed: %v", err)
	}
	if len(cfg.ActiveKey) != 32 || len(cfg.FallbackKeys) != 1 {
		t.Errorf("unexpected config: %d active bytes, %d fallbacks", len(cfg.ActiveKey), len(cfg.FallbackKeys))
	}

	if _, err := middleware.ParseKeys(base64.StdEncoding.EncodeToString([]byte("short"))); err == nil {
		t.Error("Expected error for short key")
	}
	if _, err := middleware.ParseKeys("not base64!"); err == nil {
		t.Error("Expected error for invalid base64")
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for invalid key size")
		}
	}()
	middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
}
