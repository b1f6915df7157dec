package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(100 * time.Millisecond):
		return false
	}
}

func TestChangeBusDelivery(t *testing.T) {
	t.Parallel()

	bus := NewChangeBus()
	roomsCh, cancelRooms := bus.Subscribe(CollectionRooms)
	defer cancelRooms()
	bannersCh, cancelBanners := bus.Subscribe(CollectionBanners)
	defer cancelBanners()
	require.NotNil(t, roomsCh)

	bus.Publish(CollectionRooms)

	assert.True(t, drain(roomsCh), "rooms subscriber should wake")
	select {
	case <-bannersCh:
		t.Fatal("banners subscriber should not wake on a rooms publish")
	default:
	}
}

func TestChangeBusCoalescesWhileBusy(t *testing.T) {
	t.Parallel()

	bus := NewChangeBus()
	ch, cancel := bus.Subscribe(CollectionNews)
	defer cancel()

	for range 5 {
		bus.Publish(CollectionNews)
	}

	assert.True(t, drain(ch), "one wakeup should be pending")
	select {
	case <-ch:
		t.Fatal("publishes while busy should coalesce into a single wakeup")
	default:
	}
}

func TestChangeBusCancel(t *testing.T) {
	t.Parallel()

	bus := NewChangeBus()
	ch, cancel := bus.Subscribe(CollectionSettings)
	cancel()

	bus.Publish(CollectionSettings)

	select {
	case <-ch:
		t.Fatal("cancelled subscriber should not receive wakeups")
	default:
	}
}

func TestListCaps(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, ListCap(CollectionBanners))
	assert.Equal(t, 20, ListCap(CollectionRooms))
	assert.Equal(t, DefaultListSize, ListCap(CollectionNews))
	assert.Equal(t, DefaultListSize, ListCap("somethingElse"))
}

func TestKnownCollection(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		CollectionRooms, CollectionBanners, CollectionNews,
		CollectionRoomBackgrounds, CollectionSettings,
	} {
		assert.True(t, KnownCollection(name), name)
	}
	assert.False(t, KnownCollection("users"))
	assert.False(t, KnownCollection(""))
}
