package link_test

import (
	"testing"
	"time"

	"github.com/charlesking86/link-shortener/internal/link"
	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestRedirectStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   int
	}{
		{"zero defaults to 301", 0, 301},
		{"301 kept", 301, 301},
		{"302 kept", 302, 302},
		{"307 kept", 307, 307},
		{"308 kept", 308, 308},
		{"non-redirect status falls back", 200, 301},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &link.Link{HTTPStatus: tt.status}

			assert.Equal(t, tt.want, l.RedirectStatus())
		})
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()

	t.Run("nil expiry never expires", func(t *testing.T) {
		assert.False(t, (&link.Link{}).Expired(now))
	})

	t.Run("past expiry", func(t *testing.T) {
		past := now.Add(-time.Minute)

		assert.True(t, (&link.Link{ExpiresAt: &past}).Expired(now))
	})

	t.Run("future expiry", func(t *testing.T) {
		future := now.Add(time.Minute)

		assert.False(t, (&link.Link{ExpiresAt: &future}).Expired(now))
	})
}

func TestLimitReached(t *testing.T) {
	t.Run("nil limit is unlimited", func(t *testing.T) {
		assert.False(t, (&link.Link{Clicks: 1 << 40}).LimitReached())
	})

	t.Run("zero limit is unlimited", func(t *testing.T) {
		assert.False(t, (&link.Link{ClickLimit: intPtr(0), Clicks: 10}).LimitReached())
	})

	t.Run("at the ceiling", func(t *testing.T) {
		assert.True(t, (&link.Link{ClickLimit: intPtr(5), Clicks: 5}).LimitReached())
	})

	t.Run("below the ceiling", func(t *testing.T) {
		assert.False(t, (&link.Link{ClickLimit: intPtr(5), Clicks: 4}).LimitReached())
	})
}

func TestSocialTagsEmpty(t *testing.T) {
	assert.True(t, link.SocialTags{Description: "only description"}.Empty())
	assert.False(t, link.SocialTags{Title: "t"}.Empty())
	assert.False(t, link.SocialTags{Image: "i"}.Empty())
}

func TestTrackingIDsEmpty(t *testing.T) {
	assert.True(t, link.TrackingIDs{}.Empty())
	assert.False(t, link.TrackingIDs{GA4: "G-1"}.Empty())
	assert.False(t, link.TrackingIDs{FBPixel: "1"}.Empty())
	assert.False(t, link.TrackingIDs{AdRoll: "1"}.Empty())
}
