package spreadsheet_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"

	"github.com/frahmantamala/shopfloor-tasks/internal/spreadsheet"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"google.golang.org/api/option"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   map[string]interface{}
}

var _ = Describe("Client", func() {
	var (
		srv      *httptest.Server
		client   *spreadsheet.Client
		mu       sync.Mutex
		requests []recordedRequest
		status   int
		payload  string
	)

	BeforeEach(func() {
		requests = nil
		status = http.StatusOK
		payload = `{}`

		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
			if body, _ := io.ReadAll(r.Body); len(body) > 0 {
				_ = json.Unmarshal(body, &rec.Body)
			}
			mu.Lock()
			requests = append(requests, rec)
			mu.Unlock()

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, payload)
		}))

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		var err error
		client, err = spreadsheet.NewClient(context.Background(), spreadsheet.Config{SpreadsheetID: "sheet-id"}, slogger,
			option.WithEndpoint(srv.URL+"/"),
			option.WithoutAuthentication(),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		srv.Close()
	})

	It("requires a spreadsheet id", func() {
		_, err := spreadsheet.NewClient(context.Background(), spreadsheet.Config{}, slog.New(slog.DiscardHandler))
		Expect(err).To(HaveOccurred())
	})

	Describe("ReadRange", func() {
		It("returns cells as strings", func() {
			payload = `{"range":"Sheet2!A1:ZZ","values":[["project","qty"],["P-1",12.5,true],[]]}`

			rows, err := client.ReadRange(context.Background(), "Sheet2!A1:ZZ")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal([][]string{{"project", "qty"}, {"P-1", "12.5", "TRUE"}, {}}))

			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Method).To(Equal(http.MethodGet))
			Expect(requests[0].Path).To(Equal("/v4/spreadsheets/sheet-id/values/Sheet2!A1:ZZ"))
		})

		It("returns an empty result for an empty sheet", func() {
			payload = `{"range":"Sheet1!A1:Z"}`

			rows, err := client.ReadRange(context.Background(), "Sheet1!A1:Z")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})

		It("wraps backend failures", func() {
			status = http.StatusForbidden
			payload = `{"error":{"code":403,"message":"denied"}}`

			_, err := client.ReadRange(context.Background(), "Sheet1!A1:Z")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("read range Sheet1!A1:Z"))
		})
	})

	Describe("UpdateCell", func() {
		It("writes one user-entered value at the A1 reference", func() {
			Expect(client.UpdateCell(context.Background(), "Sheet2", 5, 27, "בתהליך")).To(Succeed())

			Expect(requests).To(HaveLen(1))
			req := requests[0]
			Expect(req.Method).To(Equal(http.MethodPut))
			Expect(req.Path).To(Equal("/v4/spreadsheets/sheet-id/values/Sheet2!AB5"))
			Expect(req.Query).To(ContainSubstring("valueInputOption=USER_ENTERED"))
			Expect(req.Body["values"]).To(Equal([]interface{}{[]interface{}{"בתהליך"}}))
		})

		It("rejects positions outside the sheet", func() {
			Expect(client.UpdateCell(context.Background(), "Sheet2", 0, 1, "x")).NotTo(Succeed())
			Expect(client.UpdateCell(context.Background(), "Sheet2", 2, -1, "x")).NotTo(Succeed())
			Expect(requests).To(BeEmpty())
		})
	})

	Describe("Ping", func() {
		It("reads only the spreadsheet id", func() {
			payload = `{"spreadsheetId":"sheet-id"}`

			Expect(client.Ping(context.Background())).To(Succeed())
			Expect(requests[0].Path).To(Equal("/v4/spreadsheets/sheet-id"))
			Expect(requests[0].Query).To(ContainSubstring("fields=spreadsheetId"))
		})

		It("fails when the backend is unavailable", func() {
			status = http.StatusServiceUnavailable
			payload = `{"error":{"code":503,"message":"down"}}`

			Expect(client.Ping(context.Background())).NotTo(Succeed())
		})
	})

	Describe("seeding helpers", func() {
		It("clears and appends ranges", func() {
			Expect(client.ClearRange(context.Background(), "Sheet1!A1:Z")).To(Succeed())
			Expect(client.AppendRows(context.Background(), "Sheet1!A1", [][]interface{}{{"a", "b"}})).To(Succeed())

			Expect(requests).To(HaveLen(2))
			Expect(requests[0].Path).To(Equal("/v4/spreadsheets/sheet-id/values/Sheet1!A1:Z:clear"))
			Expect(requests[1].Path).To(Equal("/v4/spreadsheets/sheet-id/values/Sheet1!A1:append"))
			Expect(requests[1].Query).To(ContainSubstring("valueInputOption=USER_ENTERED"))
		})
	})
})
