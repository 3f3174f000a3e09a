package integration

import (
	"net/http"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/stacklok/catalog-sync/test-integration/catalog-api/helpers"
)

var _ = Describe("API Source Integration", Label("api"), func() {
	var (
		tempDir      string
		upstream     *helpers.MockUpstream
		fakeClock    *clocktesting.FakeClock
		serverHelper *helpers.ServerTestHelper
	)

	startServer := func(storageType string) {
		configFile := helpers.WriteConfigYAML(tempDir, storageType, filepath.Join(tempDir, "data"),
			helpers.CategorySpec{Name: "upcoming", Endpoint: upstream.Endpoint("upcoming")},
			helpers.CategorySpec{Name: "popular", Endpoint: upstream.Endpoint("popular"), TTL: "1h"},
		)

		var err error
		serverHelper, err = helpers.NewServerTestHelper(ctx, configFile, fakeClock)
		Expect(err).NotTo(HaveOccurred())
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)
	}

	BeforeEach(func() {
		tempDir = createTempDir("api-test-")
		upstream = helpers.NewMockUpstream()
		upstream.SetMovies("upcoming",
			helpers.Movie{ID: 1, Title: "Arrival"},
			helpers.Movie{ID: 2, Title: "Dune"},
		)
		upstream.SetMovies("popular", helpers.Movie{ID: 3, Title: "Heat"})
		fakeClock = clocktesting.NewFakeClock(time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC))
	})

	AfterEach(func() {
		if serverHelper != nil {
			Expect(serverHelper.StopServer()).To(Succeed())
		}
		upstream.Close()
		cleanupTempDir(tempDir)
	})

	DescribeTable("serves from the cache until the TTL passes",
		func(storageType string) {
			startServer(storageType)

			By("refreshing on the first fetch")
			body := serverHelper.FetchItems("upcoming")
			Expect(body.Items).To(HaveLen(2))
			Expect(body.Items[0].ID).To(Equal("1"))
			Expect(body.Items[1].Title).To(Equal("Dune"))
			Expect(upstream.Calls()).To(Equal(int64(1)))

			By("serving the stored copy while fresh")
			fakeClock.Step(time.Hour)
			upstream.SetMovies("upcoming", helpers.Movie{ID: 4, Title: "Alien"})
			body = serverHelper.FetchItems("upcoming")
			Expect(body.Items).To(HaveLen(2))
			Expect(upstream.Calls()).To(Equal(int64(1)))

			By("refreshing once the TTL has passed")
			fakeClock.Step(24 * time.Hour)
			body = serverHelper.FetchItems("upcoming")
			Expect(body.Items).To(HaveLen(1))
			Expect(body.Items[0].Title).To(Equal("Alien"))
			Expect(upstream.Calls()).To(Equal(int64(2)))
		},
		Entry("memory", "memory"),
		Entry("bolt", "bolt"),
		Entry("sqlite", "sqlite"),
	)

	It("keeps per-category TTLs apart", func() {
		startServer("memory")

		serverHelper.FetchItems("upcoming")
		serverHelper.FetchItems("popular")
		Expect(upstream.Calls()).To(Equal(int64(2)))

		fakeClock.Step(2 * time.Hour)
		serverHelper.FetchItems("upcoming")
		serverHelper.FetchItems("popular")
		Expect(upstream.Calls()).To(Equal(int64(3)), "only popular has a 1h TTL")
	})

	It("reports a remote failure and recovers on the next fetch", func() {
		startServer("memory")

		upstream.SetStatus(http.StatusUnauthorized)
		resp, err := serverHelper.GetItems("upcoming")
		Expect(err).NotTo(HaveOccurred())
		_ = resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusBadGateway))

		status := serverHelper.GetStatus()
		Expect(status.Categories).To(ContainElement(HaveField("Synced", BeFalse())))

		upstream.SetStatus(http.StatusOK)
		body := serverHelper.FetchItems("upcoming")
		Expect(body.Items).To(HaveLen(2))
	})

	It("refreshes after an invalidation", func() {
		startServer("bolt")

		serverHelper.FetchItems("upcoming")
		Expect(upstream.Calls()).To(Equal(int64(1)))

		resp, err := serverHelper.InvalidateItems("upcoming")
		Expect(err).NotTo(HaveOccurred())
		_ = resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNoContent))

		serverHelper.FetchItems("upcoming")
		Expect(upstream.Calls()).To(Equal(int64(2)))
	})

	It("rejects unknown categories", func() {
		startServer("memory")

		resp, err := serverHelper.GetItems("classics")
		Expect(err).NotTo(HaveOccurred())
		_ = resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		Expect(upstream.Calls()).To(BeZero())
	})
})
