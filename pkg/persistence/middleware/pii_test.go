package middleware_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/agentcore/pkg/adapters/memory"
	"github.com/aretw0/agentcore/pkg/persistence/middleware"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlyingStore := memory.NewStore()
	// Mask keys containing "password" or "ssn"
	secureStore := middleware.NewPIIMiddleware([]string{"password", "ssn"})(underlyingStore)
	ctx := context.Background()

	value := `{"username":"jdoe","user_password":"secret123","details":{"address":"123 St","ssn_number":"999-99-9999"},"contacts":[{"ssn":"1"}]}`
	if err := secureStore.Set(ctx, "profile", value); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	stored, err := underlyingStore.Get(ctx, "profile")
	if err != nil {
		t.Fatalf("Underlying get failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(stored), &doc); err != nil {
		t.Fatalf("stored value is not JSON: %v", err)
	}

	if doc["username"] != "jdoe" {
		t.Error("Username shouldn't be masked")
	}
	if doc["user_password"] != middleware.Mask {
		t.Errorf("Password should be masked, got: %v", doc["user_password"])
	}
	details := doc["details"].(map[string]any)
	if details["ssn_number"] != middleware.Mask {
		t.Errorf("Nested SSN should be masked, got: %v", details["ssn_number"])
	}
	if details["address"] != "123 St" {
		t.Error("Address shouldn't be masked")
	}
	contact := doc["contacts"].([]any)[0].(map[string]any)
	if contact["ssn"] != middleware.Mask {
		t.Errorf("SSN inside array should be masked, got: %v", contact["ssn"])
	}
}

func TestPIIMiddleware_NonObjectUnchanged(t *testing.T) {
	underlyingStore := memory.NewStore()
	secureStore := middleware.NewPIIMiddleware([]string{"password"})(underlyingStore)
	ctx := context.Background()

	for key, value := range map[string]string{
		"text":    "password=hunter2",
		"array":   `["password"]`,
		"clean":   `{"city":"Austin"}`,
		"literal": "42",
	} {
		if err := secureStore.Set(ctx, key, value); err != nil {
			t.Fatalf("Set %s failed: %v", key, err)
		}
		got, _ := underlyingStore.Get(ctx, key)
		if got != value {
			t.Errorf("%s: expected value unchanged, got %q", key, got)
		}
	}
}

func TestChain_MaskThenEncrypt(t *testing.T) {
	underlyingStore := memory.NewStore()
	store := middleware.Chain(underlyingStore,
		middleware.NewPIIMiddleware([]string{"token"}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)
	ctx := context.Background()

	if err := store.Set(ctx, "creds", `{"token":"abc","user":"ops"}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := store.Get(ctx, "creds")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != `{"token":"***","user":"ops"}` {
		t.Errorf("unexpected value %q", got)
	}
	raw, _ := underlyingStore.Get(ctx, "creds")
	if raw == got {
		t.Error("Expected underlying value to be encrypted")
	}
}
