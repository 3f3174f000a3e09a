package integration

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/stacklok/catalog-sync/test-integration/catalog-api/helpers"
)

var _ = Describe("File Source Integration", Label("file"), func() {
	var (
		tempDir     string
		listingFile string
		configFile  string
		fakeClock   *clocktesting.FakeClock
	)

	writeListing := func(payload string) {
		Expect(os.WriteFile(listingFile, []byte(payload), 0600)).To(Succeed())
	}

	newServer := func() *helpers.ServerTestHelper {
		serverHelper, err := helpers.NewServerTestHelper(ctx, configFile, fakeClock)
		Expect(err).NotTo(HaveOccurred())
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)
		return serverHelper
	}

	BeforeEach(func() {
		tempDir = createTempDir("file-test-")
		listingFile = filepath.Join(tempDir, "upcoming.json")
		writeListing(`{"results":[{"id":"tt0133093","title":"The Matrix"}]}`)
		fakeClock = clocktesting.NewFakeClock(time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC))
	})

	AfterEach(func() {
		cleanupTempDir(tempDir)
	})

	DescribeTable("keeps the cache across restarts",
		func(storageType string) {
			configFile = helpers.WriteConfigYAML(tempDir, storageType, filepath.Join(tempDir, "data"),
				helpers.CategorySpec{Name: "upcoming", Path: listingFile})

			first := newServer()
			body := first.FetchItems("upcoming")
			Expect(body.Items).To(HaveLen(1))
			Expect(first.StopServer()).To(Succeed())

			By("serving the stored copy after a restart")
			writeListing(`{"results":[{"id":1,"title":"Arrival"},{"id":2,"title":"Dune"}]}`)
			second := newServer()
			defer func() {
				Expect(second.StopServer()).To(Succeed())
			}()

			body = second.FetchItems("upcoming")
			Expect(body.Items).To(HaveLen(1))
			Expect(body.Items[0].ID).To(Equal("tt0133093"))

			status := second.GetStatus()
			Expect(status.Categories).To(HaveLen(1))
			Expect(status.Categories[0].Synced).To(BeTrue())
			Expect(status.Categories[0].ItemCount).To(Equal(1))
		},
		Entry("bolt", "bolt"),
		Entry("sqlite", "sqlite"),
	)

	It("answers 503 for an absent item list", func() {
		configFile = helpers.WriteConfigYAML(tempDir, "memory", filepath.Join(tempDir, "data"),
			helpers.CategorySpec{Name: "upcoming", Path: listingFile})
		writeListing(`{"page":1}`)

		serverHelper := newServer()
		defer func() {
			Expect(serverHelper.StopServer()).To(Succeed())
		}()

		resp, err := serverHelper.GetItems("upcoming")
		Expect(err).NotTo(HaveOccurred())
		_ = resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
	})

	It("accepts an empty list when allowed", func() {
		configFile = helpers.WriteConfigYAML(tempDir, "memory", filepath.Join(tempDir, "data"),
			helpers.CategorySpec{Name: "upcoming", Path: listingFile, AllowEmpty: true})
		writeListing(`{"results":[]}`)

		serverHelper := newServer()
		defer func() {
			Expect(serverHelper.StopServer()).To(Succeed())
		}()

		body := serverHelper.FetchItems("upcoming")
		Expect(body.Items).To(BeEmpty())
	})
})
