package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/rumblereviews/rumble/internal/model"
)

func TestCommunityID(t *testing.T) {
	if err := CommunityID("guild-123_ABC"); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
	for _, bad := range []string{"", "has space", "semi;colon", strings.Repeat("a", 70)} {
		if err := CommunityID(bad); err == nil {
			t.Fatalf("expected rejection for %q", bad)
		}
	}
}

func TestCanonicalID(t *testing.T) {
	if err := CanonicalID("tt0133093"); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
	for _, bad := range []string{"", "rumble:prompt", "rumble:no-results"} {
		if err := CanonicalID(bad); err == nil {
			t.Fatalf("expected rejection for %q", bad)
		}
	}
}

func TestScore(t *testing.T) {
	for v := 1; v <= 10; v++ {
		if err := Score(v); err != nil {
			t.Fatalf("score %d rejected: %v", v, err)
		}
	}
	for _, v := range []int{0, -1, 11, 42} {
		if err := Score(v); !errors.Is(err, model.ErrInvalidScore) {
			t.Fatalf("score %d: expected ErrInvalidScore, got %v", v, err)
		}
	}
}

func TestNonEmpty(t *testing.T) {
	if err := NonEmpty("title", "Dune"); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := NonEmpty("title", "   "); err == nil {
		t.Fatal("whitespace-only value must be rejected")
	}
}
