package notification_test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/core/events"
	"github.com/frahmantamala/marketplace/internal/notification"
	"github.com/frahmantamala/marketplace/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/segmentio/kafka-go"
)

type sentNote struct {
	userID, title, body string
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []sentNote
}

func (n *recordingNotifier) Notify(_ context.Context, userID, title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, sentNote{userID, title, body})
	return nil
}

func (n *recordingNotifier) sent() []sentNote {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentNote(nil), n.notes...)
}

type storeLookup map[string]*store.Store

func (s storeLookup) Get(_ context.Context, id string) (*store.Store, error) {
	st, ok := s[id]
	if !ok {
		return nil, internal.ErrStoreNotFound
	}
	return st, nil
}

var _ = Describe("Notification EventHandler", func() {
	var (
		notifier *recordingNotifier
		handler  *notification.EventHandler
	)

	BeforeEach(func() {
		notifier = &recordingNotifier{}
		handler = notification.NewEventHandler(notifier, storeLookup{
			"b": {ID: "b", OwnerID: "owner-b"},
		}, testLogger)
	})

	It("notifies the owner of a rejected store with the reason", func() {
		event := events.NewStoreReviewedEvent(false, "s1", "owner-1", "Alpha", "missing documents")
		Expect(handler.HandleStoreReviewed(context.Background(), event)).To(Succeed())
		Expect(notifier.sent()).To(HaveLen(1))
		Expect(notifier.sent()[0].userID).To(Equal("owner-1"))
		Expect(notifier.sent()[0].body).To(ContainSubstring("missing documents"))
	})

	It("notifies the owner of the counterpart store on branch events", func() {
		event := events.NewBranchEvent(events.EventTypeBranchRequested, "r1", "pending", "b")
		Expect(handler.HandleBranchEvent(context.Background(), event)).To(Succeed())
		Expect(notifier.sent()[0].userID).To(Equal("owner-b"))
	})

	It("rejects an event of the wrong type", func() {
		event := events.NewBranchEvent(events.EventTypeBranchRequested, "r1", "pending", "b")
		Expect(handler.HandleStoreReviewed(context.Background(), event)).NotTo(Succeed())
	})

	It("subscribes through the bus", func() {
		bus := events.NewEventBus(testLogger)
		handler.RegisterEventHandlers(bus)

		Expect(bus.PublishSync(context.Background(), events.NewStoreReviewedEvent(true, "s1", "owner-1", "Alpha", ""))).To(Succeed())
		Expect(notifier.sent()).To(HaveLen(1))
		Expect(notifier.sent()[0].title).To(ContainSubstring("approved"))
	})
})

var _ = Describe("Notification Delivery", func() {
	delivery := notification.NewDelivery(testLogger)

	It("accepts a well formed message", func() {
		b, err := json.Marshal(notification.Message{NotificationID: "n1", UserID: "u1", Title: "Hi"})
		Expect(err).NotTo(HaveOccurred())
		Expect(delivery.HandleMessage(context.Background(), kafka.Message{Value: b})).To(Succeed())
	})

	It("rejects garbage", func() {
		Expect(delivery.HandleMessage(context.Background(), kafka.Message{Value: []byte("{")})).NotTo(Succeed())
	})

	It("rejects a message without ids", func() {
		Expect(delivery.HandleMessage(context.Background(), kafka.Message{Value: []byte(`{"title":"x"}`)})).NotTo(Succeed())
	})
})
