package branch_test

import (
	"errors"
	"testing"
	"time"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/branch"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestBranch(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Branch Module Suite")
}

var _ = Describe("Branch request", func() {
	var req *branch.Request
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	BeforeEach(func() {
		req = branch.NewRequest("store-a", "store-b", "")
	})

	It("starts pending at version 1", func() {
		Expect(req.Status).To(Equal(branch.StatusPending))
		Expect(req.Version).To(Equal(int64(1)))
	})

	It("lets only the target decide", func() {
		err := req.Decide("store-a", true, now)
		Expect(errors.Is(err, internal.ErrUnauthorizedAccess)).To(BeTrue())

		Expect(req.Decide("store-b", true, now)).To(Succeed())
		Expect(req.Status).To(Equal(branch.StatusApproved))
		Expect(req.Version).To(Equal(int64(2)))
		Expect(req.DecidedAt).To(HaveValue(Equal(now)))
	})

	It("refuses to decide twice", func() {
		Expect(req.Decide("store-b", false, now)).To(Succeed())
		err := req.Decide("store-b", true, now)
		Expect(errors.Is(err, internal.ErrInvalidBranchTransition)).To(BeTrue())
	})

	It("lets either party revoke an approved grant", func() {
		Expect(req.Decide("store-b", true, now)).To(Succeed())
		Expect(req.Revoke("store-a", now)).To(Succeed())
		Expect(req.Status).To(Equal(branch.StatusRevoked))
	})

	It("refuses to revoke a pending request", func() {
		err := req.Revoke("store-a", now)
		Expect(errors.Is(err, internal.ErrInvalidBranchTransition)).To(BeTrue())
	})

	It("refuses revocation by an outsider", func() {
		Expect(req.Decide("store-b", true, now)).To(Succeed())
		err := req.Revoke("store-c", now)
		Expect(errors.Is(err, internal.ErrUnauthorizedAccess)).To(BeTrue())
	})

	It("reports the counterpart", func() {
		Expect(req.Counterpart("store-a")).To(Equal("store-b"))
		Expect(req.Counterpart("store-b")).To(Equal("store-a"))
	})

	DescribeTable("ParseDirection",
		func(in string, want branch.Direction, ok bool) {
			got, err := branch.ParseDirection(in)
			if !ok {
				Expect(err).To(HaveOccurred())
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("default", "", branch.DirectionIncoming, true),
		Entry("outgoing", "Outgoing", branch.DirectionOutgoing, true),
		Entry("unknown", "sideways", branch.Direction(""), false),
	)
})
