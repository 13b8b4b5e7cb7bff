package auth

import (
	"encoding/json"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Role", func() {
	ginkgo.It("should accept every assigned value", func() {
		for _, v := range []int{0, 1, 2, 3, 5} {
			_, err := ParseRole(v)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		}
	})

	ginkgo.It("should reject unassigned values", func() {
		for _, v := range []int{-1, 4, 6} {
			_, err := ParseRole(v)
			gomega.Expect(err).To(gomega.HaveOccurred())
		}
	})

	ginkgo.It("should travel as an integer", func() {
		b, err := json.Marshal(RoleSubUser)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(string(b)).To(gomega.Equal("5"))

		var r Role
		gomega.Expect(json.Unmarshal([]byte("3"), &r)).To(gomega.Succeed())
		gomega.Expect(r).To(gomega.Equal(RoleCourier))
		gomega.Expect(json.Unmarshal([]byte("4"), &r)).ToNot(gomega.Succeed())
	})
})

var _ = ginkgo.Describe("Permissions", func() {
	ginkgo.It("should round trip through the storage map", func() {
		p := &Permissions{CanViewStores: true, CanManageCouriers: true}
		m := p.ToMap()
		gomega.Expect(m).To(gomega.HaveLen(len(Capabilities)))
		gomega.Expect(PermissionsFromMap(m)).To(gomega.Equal(p))
	})

	ginkgo.It("should ignore unknown keys", func() {
		p := PermissionsFromMap(map[string]bool{"canFly": true, "canViewUsers": true})
		gomega.Expect(p.Allows(CanViewUsers)).To(gomega.BeTrue())
		gomega.Expect(p.Allows(CanManageUsers)).To(gomega.BeFalse())
	})

	ginkgo.It("should deny everything on a nil set", func() {
		var p *Permissions
		for _, c := range Capabilities {
			gomega.Expect(p.Allows(c)).To(gomega.BeFalse())
		}
	})

	ginkgo.It("should label every capability", func() {
		for _, c := range Capabilities {
			gomega.Expect(c.Label()).ToNot(gomega.BeEmpty())
		}
	})
})

var _ = ginkgo.Describe("HasPermission", func() {
	ginkgo.It("should deny a missing user", func() {
		gomega.Expect(HasPermission(nil, CanViewUsers)).To(gomega.BeFalse())
	})

	ginkgo.It("should grant every capability to non sub-user roles", func() {
		for _, role := range []Role{RoleAdmin, RoleStore, RoleCustomer, RoleCourier} {
			u := &User{ID: "x", Role: role}
			for _, c := range Capabilities {
				gomega.Expect(HasPermission(u, c)).To(gomega.BeTrue(), "%s/%s", role, c)
			}
		}
	})

	ginkgo.It("should limit sub-users to their explicit flags", func() {
		u := &User{ID: "x", Role: RoleSubUser, Permissions: &Permissions{CanViewOrders: true}}
		gomega.Expect(HasPermission(u, CanViewOrders)).To(gomega.BeTrue())
		gomega.Expect(HasPermission(u, CanManageOrders)).To(gomega.BeFalse())
	})

	ginkgo.It("should deny sub-users without a permission set", func() {
		u := &User{ID: "x", Role: RoleSubUser}
		gomega.Expect(HasPermission(u, CanViewUsers)).To(gomega.BeFalse())
	})
})

var _ = ginkgo.Describe("CanAccessAdmin", func() {
	ginkgo.It("should always admit admins", func() {
		gomega.Expect(CanAccessAdmin(&User{Role: RoleAdmin}, CanManageUsers)).To(gomega.BeTrue())
	})

	ginkgo.It("should refuse store, customer and courier roles", func() {
		for _, role := range []Role{RoleStore, RoleCustomer, RoleCourier} {
			gomega.Expect(CanAccessAdmin(&User{Role: role}, CanViewUsers)).To(gomega.BeFalse())
		}
	})

	ginkgo.It("should admit sub-users per flag", func() {
		u := &User{Role: RoleSubUser, Permissions: &Permissions{CanSendNotifications: true}}
		gomega.Expect(CanAccessAdmin(u, CanSendNotifications)).To(gomega.BeTrue())
		gomega.Expect(CanAccessAdmin(u, CanViewAnalytics)).To(gomega.BeFalse())
	})

	ginkgo.It("should refuse banned users", func() {
		gomega.Expect(CanAccessAdmin(&User{Role: RoleAdmin, Banned: true}, CanViewUsers)).To(gomega.BeFalse())
	})
})
