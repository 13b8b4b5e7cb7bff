package events_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/frahmantamala/marketplace/internal/core/events"
	"github.com/frahmantamala/marketplace/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(logger.Discard())
	})

	It("delivers synchronously to every handler of the type", func() {
		var calls int32
		for i := 0; i < 2; i++ {
			bus.Subscribe(events.EventTypeBranchRequested, func(context.Context, events.Event) error {
				atomic.AddInt32(&calls, 1)
				return nil
			})
		}
		bus.Subscribe(events.EventTypeBranchRevoked, func(context.Context, events.Event) error {
			atomic.AddInt32(&calls, 100)
			return nil
		})

		err := bus.PublishSync(context.Background(), events.NewBranchEvent(events.EventTypeBranchRequested, "r1", "pending", "s2"))
		Expect(err).NotTo(HaveOccurred())
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(2)))
	})

	It("reports a failing handler on sync publish", func() {
		bus.Subscribe(events.EventTypeStoreApproved, func(context.Context, events.Event) error {
			return errors.New("boom")
		})

		err := bus.PublishSync(context.Background(), events.NewStoreReviewedEvent(true, "s1", "o1", "Shop", ""))
		Expect(err).To(MatchError(ContainSubstring("boom")))
	})

	It("runs async handlers after the publisher's context is cancelled", func() {
		received := make(chan *events.StoreReviewedEvent, 1)
		bus.Subscribe(events.EventTypeStoreRejected, func(ctx context.Context, e events.Event) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			received <- e.(*events.StoreReviewedEvent)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		Expect(bus.Publish(ctx, events.NewStoreReviewedEvent(false, "s1", "o1", "Shop", "blurry photos"))).To(Succeed())
		cancel()

		var got *events.StoreReviewedEvent
		Eventually(received, time.Second).Should(Receive(&got))
		Expect(got.Approved()).To(BeFalse())
		Expect(got.Reason).To(Equal("blurry photos"))
	})

	It("ignores events nobody subscribed to", func() {
		Expect(bus.Publish(context.Background(), events.NewBranchEvent(events.EventTypeBranchDecided, "r1", "approved", "s1"))).To(Succeed())
	})

	It("turns a panicking handler into an error", func() {
		bus.Subscribe(events.EventTypeBranchRevoked, func(context.Context, events.Event) error {
			panic("nil map")
		})

		err := bus.PublishSync(context.Background(), events.NewBranchEvent(events.EventTypeBranchRevoked, "r1", "revoked", "s1"))
		Expect(err).To(MatchError(ContainSubstring("nil map")))
	})

	It("drains in-flight async handlers", func() {
		release := make(chan struct{})
		var finished int32
		bus.Subscribe(events.EventTypeBranchRequested, func(context.Context, events.Event) error {
			<-release
			atomic.StoreInt32(&finished, 1)
			return nil
		})
		Expect(bus.Subscribers(events.EventTypeBranchRequested)).To(Equal(1))

		Expect(bus.Publish(context.Background(), events.NewBranchEvent(events.EventTypeBranchRequested, "r1", "pending", "s2"))).To(Succeed())

		short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		Expect(bus.Drain(short)).To(MatchError(context.DeadlineExceeded))

		close(release)
		Expect(bus.Drain(context.Background())).To(Succeed())
		Expect(atomic.LoadInt32(&finished)).To(Equal(int32(1)))
	})
})
