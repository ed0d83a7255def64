package credentials

import (
	"context"
	"testing"
)

func TestStaticSource_Credential(t *testing.T) {
	source := NewStaticSource("my-token")

	value, err := source.Credential(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if value != "my-token" {
		t.Errorf("expected value 'my-token', got '%s'", value)
	}
}

func TestStaticSource_EmptyValue(t *testing.T) {
	source := NewStaticSource("")

	value, err := source.Credential(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if value != "" {
		t.Errorf("expected empty value, got '%s'", value)
	}
}

func TestStaticSource_Name(t *testing.T) {
	source := NewStaticSource("value")

	if source.Name() != "static" {
		t.Errorf("expected name 'static', got '%s'", source.Name())
	}
}
