package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rumblereviews/rumble/internal/model"
)

// Community and user ids arrive from the chat platform as opaque snowflake-ish
// tokens; we only require a sane charset and length.
var idRx = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,64}$`)

func CommunityID(v string) error {
	if v == "" {
		return fmt.Errorf("communityId is required")
	}
	if !idRx.MatchString(v) {
		return fmt.Errorf("communityId must match %s", idRx.String())
	}
	return nil
}

func UserID(v string) error {
	if v == "" {
		return fmt.Errorf("userId is required")
	}
	if !idRx.MatchString(v) {
		return fmt.Errorf("userId must match %s", idRx.String())
	}
	return nil
}

// CanonicalID rejects empty ids and the suggestion sentinels ("rumble:" prefix)
// so a sentinel entry can never become a stored rating target.
func CanonicalID(v string) error {
	if v == "" {
		return fmt.Errorf("canonicalId is required")
	}
	if strings.HasPrefix(v, "rumble:") {
		return fmt.Errorf("canonicalId %q is a placeholder, not a title", v)
	}
	return nil
}

// Score enforces the 1..10 contract before anything touches the store.
func Score(v int) error {
	if v < 1 || v > 10 {
		return model.ErrInvalidScore
	}
	return nil
}

func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}
