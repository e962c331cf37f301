package reactor

import (
	"sort"
	"testing"
)

func TestMetadata_WithCopiesOnWrite(t *testing.T) {
	base := Metadata{}.With("a", 1)
	derived := base.With("b", 2)

	if _, ok := base.Get("b"); ok {
		t.Error("With must not mutate the receiver")
	}
	if value, ok := derived.Get("a"); !ok || value != 1 {
		t.Errorf("expected derived to keep a=1, got %v (present: %v)", value, ok)
	}
	if value, ok := derived.Get("b"); !ok || value != 2 {
		t.Errorf("expected b=2, got %v (present: %v)", value, ok)
	}
}

func TestMetadata_EmptyKeyIgnored(t *testing.T) {
	base := Metadata{}.With("a", 1)
	same := base.With("", "ignored")

	if len(same.Keys()) != 1 {
		t.Errorf("expected empty key to be ignored, got keys %v", same.Keys())
	}
}

func TestMetadata_GetMissing(t *testing.T) {
	value, ok := Metadata{}.Get("absent")
	if ok || value != nil {
		t.Errorf("expected (nil, false) for missing key, got (%v, %v)", value, ok)
	}

	var nilMeta Metadata
	if _, ok := nilMeta.Get("absent"); ok {
		t.Error("expected lookup on nil Metadata to report absence")
	}
}

func TestMetadata_Keys(t *testing.T) {
	meta := Metadata{}.With("a", 1).With("b", 2)
	keys := meta.Keys()
	sort.Strings(keys)

	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("expected keys [a b], got %v", keys)
	}
}
