package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/navstack/pkg/adapters/memory"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/persistence/middleware"
	"github.com/aretw0/navstack/pkg/ports"
)

const inviteURL = "https://berty.tech/id#group/secret-invite"

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func encrypted(t *testing.T, next ports.StateStore, cfg middleware.EncryptionConfig) ports.StateStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	if err != nil {
		t.Fatalf("NewEncryptionMiddleware: %v", err)
	}
	return mw(next)
}

func deepLinkStack(sessionID string) *domain.Stack {
	stack := domain.NewStack(sessionID, domain.RouteMainHome)
	stack.Routes = append(stack.Routes, domain.Route{
		Name:   domain.RouteModalsManageDeepLink,
		Params: domain.DeepLinkParams{Type: domain.DeepLinkKind, Value: inviteURL}.Map(),
	})
	stack.Version = 3
	return stack
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := memory.NewStore()
	secureStore := encrypted(t, underlyingStore, middleware.EncryptionConfig{ActiveKey: generateKey(t)})

	ctx := context.Background()
	sessionID := "test-session"

	if err := secureStore.Save(ctx, sessionID, deepLinkStack(sessionID)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The underlying store only sees the envelope.
	stored, err := underlyingStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	raw, _ := json.Marshal(stored)
	if strings.Contains(string(raw), "secret-invite") || strings.Contains(string(raw), "Main.Home") {
		t.Fatalf("Expected routes to be hidden, found: %s", raw)
	}
	if len(stored.Routes) != 1 || stored.Routes[0].Name != middleware.EnvelopeRoute {
		t.Fatalf("Expected a single envelope route, got %v", stored.Names())
	}
	if stored.Version != 3 || stored.SessionID != sessionID {
		t.Errorf("Expected version and session to stay readable, got %d %q", stored.Version, stored.SessionID)
	}

	loaded, err := secureStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	focused, _ := loaded.Focused()
	if focused.Params["value"] != inviteURL {
		t.Errorf("Expected %q, got %v", inviteURL, focused.Params["value"])
	}
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, encrypted(t, memory.NewStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)}))
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := encrypted(t, underlyingStore, middleware.EncryptionConfig{ActiveKey: oldKey})

	ctx := context.Background()
	sessionID := "rotation-session"

	if err := secureStoreOld.Save(ctx, sessionID, deepLinkStack(sessionID)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	secureStoreNew := encrypted(t, underlyingStore, middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})

	loaded, err := secureStoreNew.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if len(loaded.Routes) != 2 {
		t.Errorf("Decryption with fallback key failed: %v", loaded.Names())
	}

	// Saving again re-encrypts with the new key only.
	if err := secureStoreNew.Save(ctx, sessionID, loaded); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}
	if _, err := secureStoreOld.Load(ctx, sessionID); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_PlainStackRejected(t *testing.T) {
	underlyingStore := memory.NewStore()
	ctx := context.Background()
	if err := underlyingStore.Save(ctx, "plain", domain.NewStack("plain", domain.RouteMainHome)); err != nil {
		t.Fatal(err)
	}

	secureStore := encrypted(t, underlyingStore, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	if _, err := secureStore.Load(ctx, "plain"); err == nil {
		t.Error("Expected plain stacks to be rejected")
	}
	if _, err := secureStore.Load(ctx, "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	if !errors.Is(err, middleware.ErrInvalidKey) {
		t.Errorf("Expected ErrInvalidKey, got %v", err)
	}

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	if !errors.Is(err, middleware.ErrInvalidKey) {
		t.Errorf("Expected ErrInvalidKey for fallback, got %v", err)
	}
}

func TestDeriveKey(t *testing.T) {
	a, err := middleware.DeriveKey([]byte("operator secret"))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := middleware.DeriveKey([]byte("operator secret"))
	c, _ := middleware.DeriveKey([]byte("other secret"))

	if len(a) != 32 {
		t.Fatalf("Expected 32-byte key, got %d", len(a))
	}
	if string(a) != string(b) {
		t.Error("Expected derivation to be deterministic")
	}
	if string(a) == string(c) {
		t.Error("Expected different secrets to derive different keys")
	}
}
