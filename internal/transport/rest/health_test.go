package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/marketplace/internal/transport/rest"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Health", func() {
	serve := func(checks ...rest.Check) (*httptest.ResponseRecorder, rest.HealthResponse) {
		router := chi.NewRouter()
		h := rest.NewHealthHandler(nil, checks...)
		router.Get("/health", h.ServeHealth)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		var body rest.HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return rec, body
	}

	It("is healthy when every component answers", func() {
		rec, body := serve(rest.Check{Name: "kafka", Probe: func(context.Context) error { return nil }})
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(body.Status).To(Equal(rest.HealthHealthy))
		Expect(body.Components).To(HaveKey("kafka"))
	})

	It("reports 503 and the failing component", func() {
		rec, body := serve(
			rest.Check{Name: "kafka", Probe: func(context.Context) error { return errors.New("connection refused") }},
			rest.Check{Name: "cache", Probe: func(context.Context) error { return nil }},
		)
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(body.Status).To(Equal(rest.HealthUnhealthy))
		Expect(body.Components["kafka"].Message).To(Equal("connection refused"))
		Expect(body.Components["cache"].Status).To(Equal(rest.HealthHealthy))
	})
})
