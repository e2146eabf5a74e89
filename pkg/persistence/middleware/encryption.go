package middleware

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/ports"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// EnvelopeRoute names the single route of an encrypted stack envelope.
const EnvelopeRoute domain.RouteName = "encrypted"

const envelopeKey = "__encrypted__"

// ErrInvalidKey reports a key that is not chacha20poly1305.KeySize bytes.
var ErrInvalidKey = errors.New("encryption key must be 32 bytes")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey encrypts new data. Must be 32 bytes.
	ActiveKey []byte

	// FallbackKeys are tried in order when the active key fails, for key rotation.
	FallbackKeys [][]byte
}

// DeriveKey stretches a high-entropy secret into a 32-byte key with HKDF-SHA256.
func DeriveKey(secret []byte) ([]byte, error) {
	h := hkdf.New(sha256.New, secret, nil, []byte("navstack-stack-key"))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

type encryptionMiddleware struct {
	next   ports.StateStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that seals every stack with
// XChaCha20-Poly1305 before it reaches the store. Only the session ID, version
// and timestamps stay readable.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != chacha20poly1305.KeySize {
		return nil, ErrInvalidKey
	}
	for _, k := range config.FallbackKeys {
		if len(k) != chacha20poly1305.KeySize {
			return nil, ErrInvalidKey
		}
	}
	return func(next ports.StateStore) ports.StateStore {
		return &encryptionMiddleware{next: next, config: config}
	}, nil
}

func (m *encryptionMiddleware) Save(ctx context.Context, sessionID string, stack *domain.Stack) error {
	plainText, err := json.Marshal(stack)
	if err != nil {
		return fmt.Errorf("failed to marshal stack: %w", err)
	}

	ciphertext, err := encrypt(m.config.ActiveKey, plainText)
	if err != nil {
		return fmt.Errorf("failed to encrypt stack: %w", err)
	}

	envelope := &domain.Stack{
		SessionID:  stack.SessionID,
		Version:    stack.Version,
		LastAction: stack.LastAction,
		UpdatedAt:  stack.UpdatedAt,
		Routes: []domain.Route{{
			Name:   EnvelopeRoute,
			Params: map[string]any{envelopeKey: base64.StdEncoding.EncodeToString(ciphertext)},
		}},
	}
	return m.next.Save(ctx, sessionID, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, sessionID string) (*domain.Stack, error) {
	envelope, err := m.next.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if len(envelope.Routes) != 1 || envelope.Routes[0].Name != EnvelopeRoute {
		return nil, errors.New("stack is missing encrypted data envelope")
	}
	encoded, ok := envelope.Routes[0].Params[envelopeKey].(string)
	if !ok {
		return nil, errors.New("stack is missing encrypted data envelope")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt stack: %w", err)
	}

	var stack domain.Stack
	if err := json.Unmarshal(plainText, &stack); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted stack: %w", err)
	}
	return &stack, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func encrypt(key, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(activeKey, ciphertext); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(key, ciphertext); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(key, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < chacha20poly1305.NonceSizeX {
		return nil, errors.New("ciphertext too short")
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	nonce := ciphertext[:chacha20poly1305.NonceSizeX]
	return aead.Open(nil, nonce, ciphertext[chacha20poly1305.NonceSizeX:], nil)
}
